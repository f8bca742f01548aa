package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wiggumlabs/ralphctl/internal/config"
	"github.com/wiggumlabs/ralphctl/internal/driver"
	"github.com/wiggumlabs/ralphctl/internal/hooks"
	"github.com/wiggumlabs/ralphctl/internal/loop"
	"github.com/wiggumlabs/ralphctl/internal/tracker"
	"github.com/wiggumlabs/ralphctl/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run [prompt]",
	Short: "Drive a loop to completion",
	Long: `Run drives iterations against the configured generator command until the
completion promise appears, the safety cap is reached, or the run is
interrupted.

With a prompt argument a fresh loop is started first (overwriting any prior
record). Without one, the active loop is resumed — useful after a generator
failure left a loop mid-flight.

Interrupting with Ctrl-C cancels the loop record before exiting.

Examples:
  ralphctl run "Fix all failing tests"
  ralphctl run --promise DONE --max-iterations 10 "Implement the auth module"
  ralphctl run   # resume the active loop`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

var (
	runPromise       string
	runMaxIterations int
	runWorkDir       string
)

func init() {
	runCmd.Flags().StringVar(&runPromise, "promise", "", "completion promise text (default from config)")
	runCmd.Flags().IntVar(&runMaxIterations, "max-iterations", -1, "maximum iterations, 0 for unbounded (default from config)")
	runCmd.Flags().StringVar(&runWorkDir, "dir", "", "working directory for the loop (default: current directory)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := createLogger(cfg)
	defer func() { _ = logger.Close() }()

	store, stateDir, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		if _, err := store.Start(loop.StartOptions{
			Prompt:            args[0],
			CompletionPromise: resolvePromise(runPromise, cfg),
			MaxIterations:     resolveMaxIterations(runMaxIterations, cfg),
			WorkingDirectory:  runWorkDir,
		}); err != nil {
			return err
		}
	}

	trk, err := tracker.New(stateDir)
	if err != nil {
		return err
	}

	var submitter hooks.Submitter
	if cfg.Hooks.Enabled {
		submitter = hooks.NewDetached(logger)
	}

	d := driver.New(driver.Deps{
		Store:          store,
		Runner:         &driver.ExecRunner{Command: cfg.Driver.Command},
		Tracker:        trk,
		Hooks:          submitter,
		HookCommand:    cfg.Hooks.Command,
		IterationDelay: cfg.Driver.IterationDelay(),
		Logger:         logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := d.Run(ctx)
	if err != nil {
		if errors.Is(err, driver.ErrNoActiveLoop) {
			return fmt.Errorf("no active loop; pass a prompt to start one")
		}
		return err
	}

	fmt.Print(tui.RenderState(result.Final))
	return nil
}
