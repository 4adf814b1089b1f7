package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// Defaults are applied first, the file is unmarshaled over them, and the
// result is validated.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention DECKHAND_SECTION_FIELD (e.g. DECKHAND_PLATFORM_TOKEN) and
// always take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration invalid after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies DECKHAND_* environment variables to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("DECKHAND_PLATFORM_BASE_URL"); val != "" {
		cfg.Platform.BaseURL = val
	}
	if val := os.Getenv("DECKHAND_PLATFORM_TOKEN"); val != "" {
		cfg.Platform.Token = val
	}
	if val := os.Getenv("DECKHAND_PLATFORM_PROJECT"); val != "" {
		cfg.Platform.Project = val
	}
	if val := os.Getenv("DECKHAND_PLATFORM_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Platform.Timeout = d
		}
	}
	if val := os.Getenv("DECKHAND_RETENTION_ENVIRONMENT"); val != "" {
		cfg.Retention.Environment = val
	}
	if val := os.Getenv("DECKHAND_RETENTION_MIN_KEEP"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Retention.MinKeep = n
		}
	}
	if val := os.Getenv("DECKHAND_RETENTION_MAX_KEEP"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Retention.MaxKeep = n
		}
	}
	if val := os.Getenv("DECKHAND_RETENTION_OLDER_THAN_DAYS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Retention.OlderThanDays = n
		}
	}
	if val := os.Getenv("DECKHAND_RETENTION_MAX_DELETIONS_PER_RUN"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Retention.MaxDeletionsPerRun = n
		}
	}
	if val := os.Getenv("DECKHAND_RETENTION_DRY_RUN"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Retention.DryRun = b
		}
	}
	if val := os.Getenv("DECKHAND_RETENTION_FAIL_ON_ERROR"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Retention.FailOnError = b
		}
	}
	if val := os.Getenv("DECKHAND_REPORT_PATH"); val != "" {
		cfg.Report.Path = val
	}
	if val := os.Getenv("DECKHAND_HISTORY_PATH"); val != "" {
		cfg.History.Path = val
	}
	if val := os.Getenv("DECKHAND_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
}
