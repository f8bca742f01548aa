package loop

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/wiggumlabs/ralphctl/internal/logging"
)

// Store is the single-writer state machine governing one bounded retry loop.
// All operations are synchronous read-modify-write cycles against the
// injected backend; nothing blocks or suspends. The store assumes one
// logical writer (the driver) plus any number of read-only status checks.
type Store struct {
	backend Backend
	logger  *logging.Logger
	mu      sync.Mutex

	// now is swapped out by tests for deterministic timestamps.
	now func() time.Time
}

// NewStore creates a Store over the given backend. A nil logger disables
// logging.
func NewStore(backend Backend, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Store{
		backend: backend,
		logger:  logger.WithPhase("loop"),
		now:     time.Now,
	}
}

// Start validates the options and writes a fresh active record, overwriting
// any prior loop. This is the only operation that resets the iteration
// counter to zero.
func (s *Store) Start(opts StartOptions) (*State, error) {
	if opts.Prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if opts.MaxIterations != nil && *opts.MaxIterations <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxIter, *opts.MaxIterations)
	}

	promise := opts.CompletionPromise
	if promise == "" {
		promise = DefaultPromise
	}

	dir := opts.WorkingDirectory
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		dir = cwd
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := &State{
		Active:            true,
		Prompt:            opts.Prompt,
		CompletionPromise: promise,
		CurrentIteration:  0,
		MaxIterations:     opts.MaxIterations,
		WorkingDirectory:  dir,
		StartedAt:         s.now(),
		Termination:       TerminationNone,
	}

	if err := s.save(state); err != nil {
		return nil, err
	}

	s.logger.Info("loop started",
		"promise", promise,
		"max_iterations", formatCap(opts.MaxIterations),
		"working_directory", dir,
	)
	return state, nil
}

// Status returns the current persisted record. If nothing was ever started
// it returns the well-defined inactive default rather than an error.
func (s *Store) Status() (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Advance increments the iteration counter and stamps the iteration time.
// When the increment reaches a finite cap the loop transitions to inactive
// with TerminationMaxIterations and the counter saturates at the cap.
// Advancing an inactive loop is a benign no-op returning the snapshot.
func (s *Store) Advance() (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}
	if !state.Active {
		return state, nil
	}

	next := state.CurrentIteration + 1
	if state.MaxIterations != nil && next >= *state.MaxIterations {
		if next > *state.MaxIterations {
			next = *state.MaxIterations
		}
		state.CurrentIteration = next
		state.Active = false
		state.Termination = TerminationMaxIterations
	} else {
		state.CurrentIteration = next
	}
	now := s.now()
	state.LastIterationAt = &now

	if err := s.save(state); err != nil {
		return nil, err
	}

	if !state.Active {
		s.logger.Info("max iterations reached", "iteration", state.CurrentIteration)
	} else {
		s.logger.Debug("iteration advanced", "iteration", state.CurrentIteration)
	}
	return state, nil
}

// Complete marks the loop successfully finished, freezing the counter.
// Idempotent: completing an inactive loop returns the snapshot unchanged.
func (s *Store) Complete() (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}
	if !state.Active {
		return state, nil
	}

	state.Active = false
	state.Termination = TerminationCompleted

	if err := s.save(state); err != nil {
		return nil, err
	}

	s.logger.Info("loop completed", "iteration", state.CurrentIteration)
	return state, nil
}

// Cancel force-terminates an active loop with the given reason
// (TerminationUserCancelled when empty or "none"). Cancelling an inactive
// loop returns the existing snapshot unchanged; this call always succeeds
// unless persistence itself fails.
func (s *Store) Cancel(reason TerminationReason) (*State, error) {
	if reason == "" || reason == TerminationNone {
		reason = TerminationUserCancelled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}
	if !state.Active {
		return state, nil
	}

	state.Active = false
	state.Termination = reason

	if err := s.save(state); err != nil {
		return nil, err
	}

	s.logger.Info("loop cancelled",
		"reason", string(reason),
		"iteration", state.CurrentIteration,
	)
	return state, nil
}

// load reads and decodes the record, mapping a missing record to the
// inactive default. A decode failure is reported as ErrStateCorrupted,
// distinct from "loop inactive".
func (s *Store) load() (*State, error) {
	data, err := s.backend.Load()
	if err != nil {
		if errors.Is(err, ErrBackendNotFound) {
			return &State{Active: false, Termination: TerminationNone}, nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateCorrupted, err)
	}
	return &state, nil
}

// save encodes and persists the record. A failed write is propagated to the
// caller; the store never reports success on a failed save.
func (s *Store) save(state *State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal loop state: %w", err)
	}
	if err := s.backend.Save(data); err != nil {
		return fmt.Errorf("persist loop state: %w", err)
	}
	return nil
}

func formatCap(max *int) string {
	if max == nil {
		return "unbounded"
	}
	return fmt.Sprintf("%d", *max)
}
