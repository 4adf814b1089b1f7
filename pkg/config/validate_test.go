package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	return Default()
}

func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return vErr.Errors
}

func TestValidate_DefaultConfigValid(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate_NegativeCounts(t *testing.T) {
	cfg := validConfig()
	cfg.Retention.MinKeep = -1
	cfg.Retention.MaxKeep = -2
	cfg.Retention.OlderThanDays = -3
	cfg.Retention.MaxDeletionsPerRun = -4

	errs := fieldErrors(t, Validate(cfg))
	if len(errs) != 4 {
		t.Fatalf("got %d errors, want 4: %v", len(errs), errs)
	}
}

func TestValidate_EnvironmentSelector(t *testing.T) {
	for _, ok := range []string{"all", "production", "preview"} {
		cfg := validConfig()
		cfg.Retention.Environment = ok
		if err := Validate(cfg); err != nil {
			t.Errorf("environment %q should be valid: %v", ok, err)
		}
	}

	cfg := validConfig()
	cfg.Retention.Environment = "staging"
	errs := fieldErrors(t, Validate(cfg))
	if len(errs) != 1 || errs[0].Field != "retention.environment" {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestValidate_InvertedCapCoerced(t *testing.T) {
	cfg := validConfig()
	cfg.Retention.MinKeep = 10
	cfg.Retention.MaxKeep = 3

	if err := Validate(cfg); err != nil {
		t.Fatalf("inverted cap must coerce, not fail: %v", err)
	}
	if cfg.Retention.MaxKeep != 10 {
		t.Errorf("MaxKeep = %d, want coerced to 10", cfg.Retention.MaxKeep)
	}
}

func TestValidate_InvalidCronSchedule(t *testing.T) {
	cfg := validConfig()
	cfg.Daemon.Schedule = "not a cron"

	errs := fieldErrors(t, Validate(cfg))
	if len(errs) != 1 || errs[0].Field != "daemon.schedule" {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestValidate_HistoryPathRequiredWhenEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.History.Enabled = true
	cfg.History.Path = ""

	errs := fieldErrors(t, Validate(cfg))
	if len(errs) != 1 || errs[0].Field != "history.path" {
		t.Errorf("unexpected errors: %v", errs)
	}

	cfg.History.Enabled = false
	if err := Validate(cfg); err != nil {
		t.Errorf("disabled history needs no path: %v", err)
	}
}

func TestValidationError_MultipleErrorsFormatted(t *testing.T) {
	cfg := validConfig()
	cfg.Retention.MinKeep = -1
	cfg.Retention.Environment = "bogus"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "2 errors") {
		t.Errorf("message should mention error count: %q", msg)
	}
	if !strings.Contains(msg, "retention.min_keep") || !strings.Contains(msg, "retention.environment") {
		t.Errorf("message should list both fields: %q", msg)
	}
}

func TestValidate_LoggingLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Telemetry.Logging.Level = "verbose"

	errs := fieldErrors(t, Validate(cfg))
	if len(errs) != 1 || errs[0].Field != "telemetry.logging.level" {
		t.Errorf("unexpected errors: %v", errs)
	}
}
