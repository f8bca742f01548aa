package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wiggumlabs/ralphctl/internal/config"
	"github.com/wiggumlabs/ralphctl/internal/loop"
	"github.com/wiggumlabs/ralphctl/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start [prompt]",
	Short: "Start a new iteration loop",
	Long: `Start records a new active loop, overwriting any prior loop record.
It does not drive iterations; use "ralphctl run" for that, or drive the
loop from an external process that calls back into this tool.

Examples:
  # Start a loop with the default promise ("COMPLETE") and cap
  ralphctl start "Fix all failing tests"

  # Custom promise and cap
  ralphctl start --promise DONE --max-iterations 10 "Implement the auth module"

  # Unbounded loop (use with care)
  ralphctl start --max-iterations 0 "Refactor until tests pass"`,
	Args: cobra.ExactArgs(1),
	RunE: runStart,
}

var (
	startPromise       string
	startMaxIterations int
	startWorkDir       string
)

func init() {
	startCmd.Flags().StringVar(&startPromise, "promise", "", "completion promise text (default from config)")
	startCmd.Flags().IntVar(&startMaxIterations, "max-iterations", -1, "maximum iterations, 0 for unbounded (default from config)")
	startCmd.Flags().StringVar(&startWorkDir, "dir", "", "working directory recorded for the loop (default: current directory)")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
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

	state, err := store.Start(loop.StartOptions{
		Prompt:            args[0],
		CompletionPromise: resolvePromise(startPromise, cfg),
		MaxIterations:     resolveMaxIterations(startMaxIterations, cfg),
		WorkingDirectory:  startWorkDir,
	})
	if err != nil {
		return err
	}

	fmt.Print(tui.RenderState(state))
	return nil
}
