// Package hooks submits fire-and-forget background tasks. The contract is
// deliberately one-way: Submit captures its input, hands off to a fully
// detached child process, and returns. There is no feedback path — callers
// must not assume any ordering or error visibility for the child's execution,
// only for the handoff itself.
package hooks

import (
	"errors"

	"github.com/wiggumlabs/ralphctl/internal/logging"
)

// Task describes one background invocation.
type Task struct {
	// Command is the argv to spawn. Required.
	Command []string
	// Dir is the working directory for the child. Empty means inherit.
	Dir string
	// Env is appended to the child's inherited environment, as KEY=VALUE
	// pairs.
	Env []string
}

// ErrEmptyCommand is returned when a task has no argv.
var ErrEmptyCommand = errors.New("hook task has no command")

// Submitter hands tasks off for detached execution. An error reports a
// failed handoff only; a nil error says nothing about whether the child
// ultimately succeeds.
type Submitter interface {
	Submit(task Task) error
}

// Detached spawns each task as a fully detached OS process (new session,
// released handle, discarded stdio).
type Detached struct {
	logger *logging.Logger
}

// NewDetached creates a Detached submitter. A nil logger disables logging.
func NewDetached(logger *logging.Logger) *Detached {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Detached{logger: logger.WithPhase("hooks")}
}

// Submit spawns the task detached and returns once the handoff is done.
func (d *Detached) Submit(task Task) error {
	if len(task.Command) == 0 {
		return ErrEmptyCommand
	}

	if err := spawnDetached(task); err != nil {
		d.logger.Error("hook handoff failed",
			"command", task.Command[0],
			"error", err.Error(),
		)
		return err
	}

	d.logger.Debug("hook submitted", "command", task.Command[0])
	return nil
}

// Nop discards all tasks. Used in tests and when hooks are disabled.
type Nop struct{}

// Submit validates the task and otherwise does nothing.
func (Nop) Submit(task Task) error {
	if len(task.Command) == 0 {
		return ErrEmptyCommand
	}
	return nil
}
