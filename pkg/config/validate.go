package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "retention.min_keep").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. All field errors are collected and returned together.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the configuration and returns a ValidationError if
// any rule fails. An inverted keep cap (max_keep below min_keep) is not
// an error: it is coerced up to min_keep with a warning.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validatePlatform(&cfg.Platform)...)
	errs = append(errs, validateRetention(&cfg.Retention)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateDaemon(&cfg.Daemon)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validatePlatform(cfg *PlatformConfig) []FieldError {
	var errs []FieldError

	if cfg.BaseURL != "" {
		if _, err := url.Parse(cfg.BaseURL); err != nil {
			errs = append(errs, FieldError{"platform.base_url", fmt.Sprintf("invalid URL: %v", err)})
		}
	}
	if cfg.MaxRetries < 0 {
		errs = append(errs, FieldError{"platform.max_retries", "must be non-negative"})
	}
	if cfg.PerPage < 0 {
		errs = append(errs, FieldError{"platform.per_page", "must be non-negative"})
	}

	return errs
}

func validateRetention(cfg *RetentionConfig) []FieldError {
	var errs []FieldError

	switch cfg.Environment {
	case "all", "production", "preview":
	default:
		errs = append(errs, FieldError{"retention.environment",
			fmt.Sprintf("must be one of all, production, preview (got %q)", cfg.Environment)})
	}

	if cfg.MinKeep < 0 {
		errs = append(errs, FieldError{"retention.min_keep", "must be non-negative"})
	}
	if cfg.MaxKeep < 0 {
		errs = append(errs, FieldError{"retention.max_keep", "must be non-negative"})
	}
	if cfg.OlderThanDays < 0 {
		errs = append(errs, FieldError{"retention.older_than_days", "must be non-negative"})
	}
	if cfg.MaxDeletionsPerRun < 0 {
		errs = append(errs, FieldError{"retention.max_deletions_per_run", "must be non-negative"})
	}

	if cfg.MinKeep >= 0 && cfg.MaxKeep >= 0 && cfg.MaxKeep < cfg.MinKeep {
		slog.Warn("retention.max_keep is below min_keep, coercing up",
			"min_keep", cfg.MinKeep,
			"max_keep", cfg.MaxKeep,
		)
		cfg.MaxKeep = cfg.MinKeep
	}

	return errs
}

func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	if cfg.Enabled && cfg.Path == "" {
		errs = append(errs, FieldError{"history.path", "required when history is enabled"})
	}
	if cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{"history.retention_days", "must be non-negative"})
	}

	return errs
}

func validateDaemon(cfg *DaemonConfig) []FieldError {
	var errs []FieldError

	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{"daemon.schedule", fmt.Sprintf("invalid cron expression: %v", err)})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{"telemetry.logging.level",
			fmt.Sprintf("must be one of debug, info, warn, error (got %q)", cfg.Logging.Level)})
	}
	switch cfg.Logging.Format {
	case "", "json", "text":
	default:
		errs = append(errs, FieldError{"telemetry.logging.format",
			fmt.Sprintf("must be json or text (got %q)", cfg.Logging.Format)})
	}

	return errs
}
