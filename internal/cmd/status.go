package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wiggumlabs/ralphctl/internal/config"
	"github.com/wiggumlabs/ralphctl/internal/tui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current loop state",
	Long: `Display the persisted loop record. Always succeeds: if no loop was ever
started the well-defined inactive default is shown.`,
	RunE: runStatus,
}

var (
	statusJSON  bool
	statusWatch bool
)

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print the raw state record as JSON")
	statusCmd.Flags().BoolVar(&statusWatch, "watch", false, "follow state changes live")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	store, stateDir, err := openStore(cfg, nil)
	if err != nil {
		return err
	}

	if statusWatch {
		watch, err := tui.NewWatch(store, stateDir)
		if err != nil {
			return err
		}
		return watch.Run()
	}

	state, err := store.Status()
	if err != nil {
		return err
	}

	if statusJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}

	fmt.Print(tui.RenderState(state))
	return nil
}
