package cmd

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/wiggumlabs/ralphctl/internal/config"
	"github.com/wiggumlabs/ralphctl/internal/tracker"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize a recorded run",
	Long:  `Display event counts and outcome for the latest run, or a specific run by ID.`,
	RunE:  runStats,
}

var statsRunID string

func init() {
	statsCmd.Flags().StringVar(&statsRunID, "run", "", "run ID to summarize (default: latest)")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	trk, err := tracker.New(cfg.Loop.ResolveStateDir())
	if err != nil {
		return err
	}

	var run *tracker.Run
	if statsRunID != "" {
		run, err = trk.LoadRun(statsRunID)
	} else {
		run, err = trk.LatestRun()
	}
	if err != nil {
		if errors.Is(err, tracker.ErrRunNotFound) {
			fmt.Println("No runs recorded")
			return nil
		}
		return err
	}

	summary := tracker.Summarize(run)

	fmt.Printf("Run: %s\n", summary.RunID)
	fmt.Printf("Prompt: %s\n", summary.Prompt)
	fmt.Printf("Outcome: %s\n", summary.Outcome)
	fmt.Printf("Iterations: %d\n", summary.Iterations)
	if summary.Duration > 0 {
		fmt.Printf("Duration: %s\n", summary.Duration.Round(time.Second))
	}
	fmt.Println()

	// Sort event types for deterministic output
	types := make([]string, 0, len(summary.EventCounts))
	for t := range summary.EventCounts {
		types = append(types, string(t))
	}
	sort.Strings(types)

	for _, t := range types {
		fmt.Printf("  %-24s %d\n", t, summary.EventCounts[tracker.EventType(t)])
	}

	return nil
}
