// Package config loads and validates ralphctl configuration via viper.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete ralphctl configuration
type Config struct {
	Loop    LoopConfig    `mapstructure:"loop"`
	Driver  DriverConfig  `mapstructure:"driver"`
	Hooks   HooksConfig   `mapstructure:"hooks"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// LoopConfig controls loop state defaults and storage
type LoopConfig struct {
	// DefaultPromise is the completion promise used when --promise is omitted
	DefaultPromise string `mapstructure:"default_promise"`
	// DefaultMaxIterations caps loops started without --max-iterations (0 = unbounded)
	DefaultMaxIterations int `mapstructure:"default_max_iterations"`
	// StateDir overrides where the loop record, run logs, and event logs live.
	// Empty means the default state directory (see StateDir()).
	// Supports ~ for home directory expansion.
	StateDir string `mapstructure:"state_dir"`
}

// DriverConfig controls how iterations invoke the external generator
type DriverConfig struct {
	// Command is the generator argv; the iteration prompt is appended as the
	// final argument
	Command []string `mapstructure:"command"`
	// IterationDelayMs is the pause between iterations (default: 0)
	IterationDelayMs int `mapstructure:"iteration_delay_ms"`
}

// HooksConfig controls fire-and-forget per-iteration hooks
type HooksConfig struct {
	// Enabled controls whether hooks are submitted at all (default: false)
	Enabled bool `mapstructure:"enabled"`
	// Command is the hook argv, spawned detached after each iteration with
	// RALPH_* environment variables describing the loop state
	Command []string `mapstructure:"command"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// IterationDelay returns the iteration delay as a time.Duration
func (c *DriverConfig) IterationDelay() time.Duration {
	return time.Duration(c.IterationDelayMs) * time.Millisecond
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Loop: LoopConfig{
			DefaultPromise:       "COMPLETE",
			DefaultMaxIterations: 50, // Safety cap; 0 would loop forever on a bad promise
			StateDir:             "",
		},
		Driver: DriverConfig{
			Command:          []string{"claude", "-p"},
			IterationDelayMs: 0,
		},
		Hooks: HooksConfig{
			Enabled: false,
			Command: []string{},
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Loop defaults
	viper.SetDefault("loop.default_promise", defaults.Loop.DefaultPromise)
	viper.SetDefault("loop.default_max_iterations", defaults.Loop.DefaultMaxIterations)
	viper.SetDefault("loop.state_dir", defaults.Loop.StateDir)

	// Driver defaults
	viper.SetDefault("driver.command", defaults.Driver.Command)
	viper.SetDefault("driver.iteration_delay_ms", defaults.Driver.IterationDelayMs)

	// Hooks defaults
	viper.SetDefault("hooks.enabled", defaults.Hooks.Enabled)
	viper.SetDefault("hooks.command", defaults.Hooks.Command)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ralphctl")
	}
	// Fall back to ~/.config/ralphctl
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ralphctl"
	}
	return filepath.Join(home, ".config", "ralphctl")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ResolveStateDir returns the directory holding the loop record and run logs.
// An empty override means $XDG_STATE_HOME/ralphctl or ~/.ralphctl.
func (c *LoopConfig) ResolveStateDir() string {
	if c.StateDir == "" {
		if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
			return filepath.Join(xdg, "ralphctl")
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return ".ralphctl"
		}
		return filepath.Join(home, ".ralphctl")
	}

	path := c.StateDir

	// Expand ~ to home directory
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return path
}
