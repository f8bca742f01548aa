//go:build windows

package hooks

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// DETACHED_PROCESS is the Windows process creation flag that creates a process
// without a console window, allowing it to run independently of the parent.
const DETACHED_PROCESS = 0x00000008

// spawnDetached starts the task in a detached background process.
// On Windows, we use CREATE_NEW_PROCESS_GROUP and DETACHED_PROCESS flags.
func spawnDetached(task Task) error {
	cmd := exec.Command(task.Command[0], task.Command[1:]...)
	cmd.Dir = task.Dir
	if len(task.Env) > 0 {
		cmd.Env = append(os.Environ(), task.Env...)
	}

	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP | DETACHED_PROCESS,
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
