// Package loop implements the Ralph Wiggum loop state store: a single
// persisted record describing whether an iterative task is active, how many
// iterations have elapsed, what signals termination, and the safety cap.
// The store performs no generation and no process control; the driver in
// internal/driver owns that side.
package loop

import (
	"errors"
	"fmt"
	"time"
)

// TerminationReason records why a loop stopped iterating.
type TerminationReason string

const (
	// TerminationNone - the loop is still active (or was never started).
	TerminationNone TerminationReason = "none"
	// TerminationCompleted - the completion promise was found in output.
	TerminationCompleted TerminationReason = "completed"
	// TerminationMaxIterations - the safety cap was reached without completion.
	TerminationMaxIterations TerminationReason = "max_iterations_reached"
	// TerminationUserCancelled - the user cancelled the loop.
	TerminationUserCancelled TerminationReason = "user_cancelled"
)

// DefaultPromise is the completion promise used when the caller omits one.
const DefaultPromise = "COMPLETE"

// State is the sole persisted entity of the store. MaxIterations is nil for
// an unbounded loop; the external JSON representation uses null.
type State struct {
	Active            bool              `json:"active"`
	Prompt            string            `json:"prompt"`
	CompletionPromise string            `json:"completion_promise"`
	CurrentIteration  int               `json:"current_iteration"`
	MaxIterations     *int              `json:"max_iterations"`
	WorkingDirectory  string            `json:"working_directory"`
	StartedAt         time.Time         `json:"started_at"`
	LastIterationAt   *time.Time        `json:"last_iteration_at"`
	Termination       TerminationReason `json:"termination_reason"`
}

// Unbounded reports whether the loop has no iteration cap.
func (s *State) Unbounded() bool {
	return s.MaxIterations == nil
}

// RemainingIterations returns how many iterations may still run, or -1 for
// an unbounded loop.
func (s *State) RemainingIterations() int {
	if s.MaxIterations == nil {
		return -1
	}
	remaining := *s.MaxIterations - s.CurrentIteration
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Validate checks the internal consistency of a persisted record.
func (s *State) Validate() error {
	if s.Active && s.Termination != TerminationNone {
		return fmt.Errorf("active loop has termination reason %q", s.Termination)
	}
	if s.CurrentIteration < 0 {
		return fmt.Errorf("negative iteration count %d", s.CurrentIteration)
	}
	if s.MaxIterations != nil && s.CurrentIteration > *s.MaxIterations {
		return fmt.Errorf("iteration count %d exceeds cap %d", s.CurrentIteration, *s.MaxIterations)
	}
	return nil
}

// StartOptions are the inputs to Store.Start.
type StartOptions struct {
	// Prompt is the task description repeated each iteration. Required.
	Prompt string
	// CompletionPromise signals success when found in generated output.
	// Defaults to DefaultPromise when empty.
	CompletionPromise string
	// MaxIterations caps the loop. Nil means unbounded; a finite value must
	// be positive.
	MaxIterations *int
	// WorkingDirectory is recorded at start and immutable for the loop's
	// lifetime. Defaults to the caller's current directory when empty.
	WorkingDirectory string
}

// Sentinel errors for the store. ErrNoActiveLoop is informational: advance,
// complete and cancel treat an inactive loop as a benign no-op and never
// return it; callers that need to distinguish can check Status themselves.
var (
	ErrEmptyPrompt     = errors.New("loop prompt cannot be empty")
	ErrInvalidMaxIter  = errors.New("max iterations must be positive")
	ErrNoActiveLoop    = errors.New("no active loop")
	ErrStateCorrupted  = errors.New("loop state corrupted")
	ErrBackendNotFound = errors.New("no loop state recorded")
)

// MaxIter is a convenience for building a finite *int cap in callers and
// tests.
func MaxIter(n int) *int {
	return &n
}
