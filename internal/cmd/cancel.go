package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wiggumlabs/ralphctl/internal/config"
	"github.com/wiggumlabs/ralphctl/internal/loop"
	"github.com/wiggumlabs/ralphctl/internal/tui"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel the active loop",
	Long: `Cancel force-terminates the active loop and prints the final snapshot.
Idempotent: cancelling when no loop is active reports the existing state
without error.`,
	RunE: runCancel,
}

var cancelReason string

func init() {
	cancelCmd.Flags().StringVar(&cancelReason, "reason", "", "termination reason to record (default: user_cancelled)")
	rootCmd.AddCommand(cancelCmd)
}

func runCancel(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := createLogger(cfg)
	defer func() { _ = logger.Close() }()

	store, _, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	state, err := store.Cancel(loop.TerminationReason(cancelReason))
	if err != nil {
		return err
	}

	fmt.Print(tui.RenderState(state))
	return nil
}
