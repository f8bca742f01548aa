package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/wiggumlabs/ralphctl/internal/hooks"
	"github.com/wiggumlabs/ralphctl/internal/logging"
	"github.com/wiggumlabs/ralphctl/internal/loop"
	"github.com/wiggumlabs/ralphctl/internal/tracker"
)

// Outcome is the terminal result of a driven run.
type Outcome string

const (
	// OutcomeCompleted - the completion promise was found.
	OutcomeCompleted Outcome = "completed"
	// OutcomeMaxIterations - the safety cap stopped the loop.
	OutcomeMaxIterations Outcome = "max_iterations_reached"
	// OutcomeCancelled - the run was cancelled via ctx.
	OutcomeCancelled Outcome = "cancelled"
)

// Result describes how a run ended.
type Result struct {
	Outcome    Outcome
	Iterations int
	Final      *loop.State
}

// ErrNoActiveLoop is returned by Run when there is nothing to drive.
var ErrNoActiveLoop = errors.New("no active loop to drive")

// Deps are the collaborators a Driver needs. Tracker and Hooks may be nil.
type Deps struct {
	Store   *loop.Store
	Runner  Runner
	Tracker *tracker.Tracker
	Hooks   hooks.Submitter
	// HookCommand is the argv submitted after each iteration when Hooks is
	// set.
	HookCommand []string
	// IterationDelay is the pause between iterations.
	IterationDelay time.Duration
	Logger         *logging.Logger
}

// Driver owns the run cycle for one loop.
type Driver struct {
	store       *loop.Store
	runner      Runner
	tracker     *tracker.Tracker
	hooks       hooks.Submitter
	hookCommand []string
	delay       time.Duration
	logger      *logging.Logger
}

// New creates a Driver from its dependencies.
func New(deps Deps) *Driver {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Driver{
		store:       deps.Store,
		runner:      deps.Runner,
		tracker:     deps.Tracker,
		hooks:       deps.Hooks,
		hookCommand: deps.HookCommand,
		delay:       deps.IterationDelay,
		logger:      logger.WithPhase("driver"),
	}
}

// Run drives the active loop to a terminal state. On ctx cancellation the
// loop record is cancelled and OutcomeCancelled returned. A generator
// failure leaves the record active and propagates the error, so the run can
// be resumed.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	state, err := d.store.Status()
	if err != nil {
		return nil, err
	}
	if !state.Active {
		return nil, ErrNoActiveLoop
	}

	var run *tracker.Run
	if d.tracker != nil {
		run, err = d.tracker.StartRun(state.Prompt, state.WorkingDirectory)
		if err != nil {
			return nil, fmt.Errorf("start run log: %w", err)
		}
		d.logger = d.logger.WithRun(run.ID)
	}

	for {
		if ctx.Err() != nil {
			return d.cancelled(run, state)
		}

		iteration := state.CurrentIteration + 1
		d.record(run, tracker.Event{Type: tracker.EventIterationStarted, Iteration: iteration})
		d.logger.Info("iteration started", "iteration", iteration)

		prompt := BuildIterationPrompt(state, iteration)
		output, err := d.runner.Run(ctx, prompt, state.WorkingDirectory)
		if err != nil {
			if ctx.Err() != nil {
				return d.cancelled(run, state)
			}
			// Loop stays active so a later run can resume it.
			d.logger.Error("generator failed", "iteration", iteration, "error", err.Error())
			return nil, err
		}

		if loop.ContainsPromise(output, state.CompletionPromise) {
			state, err = d.store.Complete()
			if err != nil {
				return nil, err
			}
			d.record(run, tracker.Event{Type: tracker.EventPromiseFound, Iteration: iteration})
			d.logger.Info("completion promise found", "iteration", iteration)
			d.submitHook(run, state)
			return &Result{Outcome: OutcomeCompleted, Iterations: state.CurrentIteration, Final: state}, nil
		}

		if emitted := loop.ExtractPromise(output); emitted != "" {
			// Marker present but text mismatched; worth surfacing since the
			// loop will keep going until the cap.
			d.logger.Warn("promise marker mismatch",
				"iteration", iteration,
				"emitted", emitted,
				"expected", state.CompletionPromise,
			)
		}

		state, err = d.store.Advance()
		if err != nil {
			return nil, err
		}
		d.record(run, tracker.Event{Type: tracker.EventIterationCompleted, Iteration: state.CurrentIteration})
		d.submitHook(run, state)

		if !state.Active {
			d.record(run, tracker.Event{Type: tracker.EventMaxIterations, Iteration: state.CurrentIteration})
			d.logger.Info("max iterations reached", "iteration", state.CurrentIteration)
			return &Result{Outcome: OutcomeMaxIterations, Iterations: state.CurrentIteration, Final: state}, nil
		}

		if d.delay > 0 {
			select {
			case <-time.After(d.delay):
			case <-ctx.Done():
				return d.cancelled(run, state)
			}
		}
	}
}

// cancelled force-terminates the loop record and reports OutcomeCancelled.
func (d *Driver) cancelled(run *tracker.Run, state *loop.State) (*Result, error) {
	final, err := d.store.Cancel(loop.TerminationUserCancelled)
	if err != nil {
		return nil, err
	}
	d.record(run, tracker.Event{Type: tracker.EventRunCancelled, Iteration: final.CurrentIteration})
	d.logger.Info("run cancelled", "iteration", final.CurrentIteration)
	return &Result{Outcome: OutcomeCancelled, Iterations: final.CurrentIteration, Final: final}, nil
}

// record appends to the run log; tracker failures are logged, not fatal.
func (d *Driver) record(run *tracker.Run, ev tracker.Event) {
	if d.tracker == nil || run == nil {
		return
	}
	if err := d.tracker.Record(run.ID, ev); err != nil {
		d.logger.Warn("failed to record run event", "type", string(ev.Type), "error", err.Error())
	}
}

// submitHook fires the configured hook with the current loop state in the
// environment. Fire-and-forget: a failed handoff is logged and ignored.
func (d *Driver) submitHook(run *tracker.Run, state *loop.State) {
	if d.hooks == nil || len(d.hookCommand) == 0 {
		return
	}

	task := hooks.Task{
		Command: d.hookCommand,
		Dir:     state.WorkingDirectory,
		Env: []string{
			"RALPH_ITERATION=" + strconv.Itoa(state.CurrentIteration),
			"RALPH_ACTIVE=" + strconv.FormatBool(state.Active),
			"RALPH_TERMINATION=" + string(state.Termination),
		},
	}
	if err := d.hooks.Submit(task); err != nil {
		d.logger.Warn("hook submission failed", "error", err.Error())
		return
	}
	d.record(run, tracker.Event{Type: tracker.EventHookSubmitted, Iteration: state.CurrentIteration})
}
