// Package tracker records per-run event logs for loop runs. Each run gets a
// JSON file under {stateDir}/runs that accumulates timestamped events; the
// stats command summarizes them after the fact.
package tracker

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// EventType classifies a tracked event.
type EventType string

const (
	EventRunStarted         EventType = "run_started"
	EventIterationStarted   EventType = "iteration_started"
	EventIterationCompleted EventType = "iteration_completed"
	EventPromiseFound       EventType = "promise_found"
	EventMaxIterations      EventType = "max_iterations_reached"
	EventRunCancelled       EventType = "run_cancelled"
	EventHookSubmitted      EventType = "hook_submitted"
)

// Event is a single timestamped entry in a run's log.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Iteration int       `json:"iteration,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Run is the persisted event log for one loop run.
type Run struct {
	ID               string    `json:"id"`
	StartedAt        time.Time `json:"started_at"`
	Prompt           string    `json:"prompt"`
	WorkingDirectory string    `json:"working_directory"`
	Events           []Event   `json:"events"`
}

// ErrRunNotFound is returned when no run log exists for the given ID,
// or when LatestRun finds no runs at all.
var ErrRunNotFound = errors.New("run not found")

const runsDirName = "runs"

// Tracker owns the runs directory inside the state dir.
type Tracker struct {
	dir string
	mu  sync.Mutex
}

// New creates a Tracker storing run logs under {stateDir}/runs.
func New(stateDir string) (*Tracker, error) {
	dir := filepath.Join(stateDir, runsDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create runs directory: %w", err)
	}
	return &Tracker{dir: dir}, nil
}

// StartRun creates and persists a new run log with a run_started event.
func (t *Tracker) StartRun(prompt, workingDir string) (*Run, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	run := &Run{
		ID:               generateID(),
		StartedAt:        now,
		Prompt:           prompt,
		WorkingDirectory: workingDir,
		Events: []Event{
			{Timestamp: now, Type: EventRunStarted},
		},
	}
	if err := t.save(run); err != nil {
		return nil, err
	}
	return run, nil
}

// Record appends an event to a run's log. The timestamp is stamped here if
// the caller left it zero.
func (t *Tracker) Record(runID string, ev Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	run, err := t.load(runID)
	if err != nil {
		return err
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	run.Events = append(run.Events, ev)
	return t.save(run)
}

// LoadRun reads a run log by ID.
func (t *Tracker) LoadRun(runID string) (*Run, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(runID)
}

// ListRunIDs returns all run IDs, oldest start first.
func (t *Tracker) ListRunIDs() ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	runs, err := t.loadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(runs))
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// LatestRun returns the most recently started run, or ErrRunNotFound when
// no runs have been recorded.
func (t *Tracker) LatestRun() (*Run, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	runs, err := t.loadAll()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrRunNotFound
	}
	return runs[len(runs)-1], nil
}

func (t *Tracker) runPath(runID string) string {
	return filepath.Join(t.dir, "run_"+runID+".json")
}

func (t *Tracker) load(runID string) (*Run, error) {
	data, err := os.ReadFile(t.runPath(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, fmt.Errorf("read run log: %w", err)
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parse run log %s: %w", runID, err)
	}
	return &run, nil
}

func (t *Tracker) loadAll() ([]*Run, error) {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		return nil, fmt.Errorf("read runs directory: %w", err)
	}

	var runs []*Run
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(t.dir, entry.Name()))
		if err != nil {
			continue
		}
		var run Run
		if err := json.Unmarshal(data, &run); err != nil {
			// Skip corrupt logs rather than failing the whole listing
			continue
		}
		runs = append(runs, &run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})
	return runs, nil
}

// save writes the run log atomically (temp file + rename).
func (t *Tracker) save(run *Run) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run log: %w", err)
	}

	target := t.runPath(run.ID)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write temp run log: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp run log: %w", err)
	}
	return nil
}

// generateID creates a short random hex ID
func generateID() string {
	bytes := make([]byte, 4)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
