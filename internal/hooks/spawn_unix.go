//go:build unix

package hooks

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// spawnDetached starts the task in a detached background process.
// On Unix, we use Setsid to create a new session, detaching from the
// controlling terminal so the child survives the parent exiting.
func spawnDetached(task Task) error {
	cmd := exec.Command(task.Command[0], task.Command[1:]...)
	cmd.Dir = task.Dir
	if len(task.Env) > 0 {
		cmd.Env = append(os.Environ(), task.Env...)
	}

	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true, // Create new session, detach from controlling terminal
	}

	// Discard output - by contract no feedback path exists
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	// Start the process (don't wait for it)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start background hook: %w", err)
	}

	// Release the process so it continues running independently
	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("release background process: %w", err)
	}

	return nil
}
