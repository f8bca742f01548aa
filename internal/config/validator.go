package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "loop.default_max_iterations")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.Loop.DefaultPromise == "" {
		errors = append(errors, ValidationError{
			Field:   "loop.default_promise",
			Value:   c.Loop.DefaultPromise,
			Message: "must not be empty",
		})
	}

	if c.Loop.DefaultMaxIterations < 0 {
		errors = append(errors, ValidationError{
			Field:   "loop.default_max_iterations",
			Value:   c.Loop.DefaultMaxIterations,
			Message: "must be zero (unbounded) or positive",
		})
	}

	if len(c.Driver.Command) == 0 {
		errors = append(errors, ValidationError{
			Field:   "driver.command",
			Value:   c.Driver.Command,
			Message: "must name the generator command",
		})
	}

	if c.Driver.IterationDelayMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "driver.iteration_delay_ms",
			Value:   c.Driver.IterationDelayMs,
			Message: "must not be negative",
		})
	}

	if c.Hooks.Enabled && len(c.Hooks.Command) == 0 {
		errors = append(errors, ValidationError{
			Field:   "hooks.command",
			Value:   c.Hooks.Command,
			Message: "must name the hook command when hooks are enabled",
		})
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must not be negative",
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must not be negative",
		})
	}

	return errors
}
