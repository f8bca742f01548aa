package cmd

import (
	"fmt"

	"github.com/wiggumlabs/ralphctl/internal/config"
	"github.com/wiggumlabs/ralphctl/internal/logging"
	"github.com/wiggumlabs/ralphctl/internal/loop"
)

// openStore builds the file-backed loop store for the configured state
// directory and returns the store plus the directory path.
func openStore(cfg *config.Config, logger *logging.Logger) (*loop.Store, string, error) {
	stateDir := cfg.Loop.ResolveStateDir()
	backend, err := loop.NewFileBackend(stateDir)
	if err != nil {
		return nil, "", fmt.Errorf("open state backend: %w", err)
	}
	return loop.NewStore(backend, logger), stateDir, nil
}

// createLogger builds the debug logger per config, or a nop logger when
// logging is disabled or cannot be set up.
func createLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}
	logger, err := logging.NewLogger(
		cfg.Loop.ResolveStateDir(),
		cfg.Logging.Level,
		logging.RotationConfig{
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
		},
	)
	if err != nil {
		return logging.NopLogger()
	}
	return logger
}

// resolveMaxIterations maps the CLI flag onto the store's cap representation.
// A negative value means the flag was left at its sentinel and the config
// default applies; 0 means unbounded; positive is a finite cap.
func resolveMaxIterations(flagValue int, cfg *config.Config) *int {
	n := flagValue
	if n < 0 {
		n = cfg.Loop.DefaultMaxIterations
	}
	if n == 0 {
		return nil
	}
	return loop.MaxIter(n)
}

// resolvePromise applies the config default when the flag was left empty.
func resolvePromise(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.Loop.DefaultPromise
}
