// Package driver runs the iteration cycle around the loop state store:
// invoke the external generator with the stored prompt, scan its output for
// the completion promise, and feed the advance/complete decision back into
// the store. The driver performs no success detection beyond the exact
// promise marker match.
package driver

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Runner performs one generation step and returns the captured output.
// Implementations must honor ctx cancellation.
type Runner interface {
	Run(ctx context.Context, prompt, workingDir string) (string, error)
}

// ExecRunner invokes an external generator command. The iteration prompt is
// appended as the final argument, so a command of ["claude", "-p"] becomes
// `claude -p <prompt>`.
type ExecRunner struct {
	// Command is the generator argv. Required.
	Command []string
}

// Run spawns the generator in the loop's working directory and returns its
// combined stdout and stderr. The generator's exit code is the only failure
// signal; output scanning is the caller's job.
func (r *ExecRunner) Run(ctx context.Context, prompt, workingDir string) (string, error) {
	if len(r.Command) == 0 {
		return "", fmt.Errorf("generator command not configured")
	}

	args := make([]string, 0, len(r.Command))
	args = append(args, r.Command[1:]...)
	args = append(args, prompt)

	cmd := exec.CommandContext(ctx, r.Command[0], args...)
	cmd.Dir = workingDir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return out.String(), ctx.Err()
		}
		return out.String(), fmt.Errorf("generator failed: %w", err)
	}
	return out.String(), nil
}
