package tracker

import (
	"errors"
	"testing"
	"time"
)

func TestTracker_StartRunAndLoad(t *testing.T) {
	trk, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	run, err := trk.StartRun("fix tests", "/tmp/proj")
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	if run.ID == "" {
		t.Error("expected a generated run ID")
	}
	if len(run.Events) != 1 || run.Events[0].Type != EventRunStarted {
		t.Errorf("expected a single run_started event, got %+v", run.Events)
	}

	loaded, err := trk.LoadRun(run.ID)
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if loaded.Prompt != "fix tests" || loaded.WorkingDirectory != "/tmp/proj" {
		t.Errorf("run did not round-trip: %+v", loaded)
	}
}

func TestTracker_Record(t *testing.T) {
	trk, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	run, err := trk.StartRun("task", "/tmp")
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	if err := trk.Record(run.ID, Event{Type: EventIterationStarted, Iteration: 1}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := trk.Record(run.ID, Event{Type: EventIterationCompleted, Iteration: 1}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	loaded, err := trk.LoadRun(run.ID)
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if len(loaded.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(loaded.Events))
	}
	// Zero timestamps are stamped at record time
	for i, ev := range loaded.Events {
		if ev.Timestamp.IsZero() {
			t.Errorf("event %d has zero timestamp", i)
		}
	}
}

func TestTracker_RecordUnknownRun(t *testing.T) {
	trk, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := trk.Record("deadbeef", Event{Type: EventIterationStarted}); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := trk.LoadRun("deadbeef"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestTracker_LatestRun(t *testing.T) {
	trk, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := trk.LatestRun(); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound on empty tracker, got %v", err)
	}

	first, err := trk.StartRun("first", "/tmp")
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond) // keep start times ordered
	second, err := trk.StartRun("second", "/tmp")
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	latest, err := trk.LatestRun()
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if latest.ID != second.ID {
		t.Errorf("expected latest run %s, got %s", second.ID, latest.ID)
	}

	ids, err := trk.ListRunIDs()
	if err != nil {
		t.Fatalf("ListRunIDs failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != first.ID || ids[1] != second.ID {
		t.Errorf("expected [%s %s], got %v", first.ID, second.ID, ids)
	}
}

func TestSummarize(t *testing.T) {
	base := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name           string
		events         []Event
		wantOutcome    string
		wantIterations int
		wantDuration   time.Duration
	}{
		{
			name: "completed run",
			events: []Event{
				{Timestamp: base, Type: EventRunStarted},
				{Timestamp: base.Add(time.Minute), Type: EventIterationStarted, Iteration: 1},
				{Timestamp: base.Add(2 * time.Minute), Type: EventIterationCompleted, Iteration: 1},
				{Timestamp: base.Add(3 * time.Minute), Type: EventPromiseFound, Iteration: 2},
			},
			wantOutcome:    "completed",
			wantIterations: 1,
			wantDuration:   3 * time.Minute,
		},
		{
			name: "capped run",
			events: []Event{
				{Timestamp: base, Type: EventRunStarted},
				{Timestamp: base.Add(time.Minute), Type: EventIterationCompleted, Iteration: 3},
				{Timestamp: base.Add(time.Minute), Type: EventMaxIterations, Iteration: 3},
			},
			wantOutcome:    "max_iterations_reached",
			wantIterations: 3,
			wantDuration:   time.Minute,
		},
		{
			name: "cancelled run",
			events: []Event{
				{Timestamp: base, Type: EventRunStarted},
				{Timestamp: base.Add(time.Second), Type: EventRunCancelled, Iteration: 1},
			},
			wantOutcome:  "cancelled",
			wantDuration: time.Second,
		},
		{
			name: "run still in flight",
			events: []Event{
				{Timestamp: base, Type: EventRunStarted},
			},
			wantOutcome: "in_progress",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &Run{ID: "abcd1234", Prompt: "task", Events: tt.events}
			s := Summarize(run)

			if s.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %q, want %q", s.Outcome, tt.wantOutcome)
			}
			if s.Iterations != tt.wantIterations {
				t.Errorf("Iterations = %d, want %d", s.Iterations, tt.wantIterations)
			}
			if s.Duration != tt.wantDuration {
				t.Errorf("Duration = %v, want %v", s.Duration, tt.wantDuration)
			}
			if s.RunID != "abcd1234" {
				t.Errorf("RunID = %q", s.RunID)
			}
		})
	}
}
