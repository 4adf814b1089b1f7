package config

import "time"

// Config is the root configuration structure for Deckhand.
type Config struct {
	// Platform contains the hosting platform API settings.
	Platform PlatformConfig `yaml:"platform"`

	// Retention contains the cleanup policy settings.
	Retention RetentionConfig `yaml:"retention"`

	// Report controls the JSON run artifact.
	Report ReportConfig `yaml:"report"`

	// History controls the local run history store.
	History HistoryConfig `yaml:"history"`

	// Daemon contains settings for the recurring-cleanup mode.
	Daemon DaemonConfig `yaml:"daemon"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// PlatformConfig contains settings for the platform API client.
type PlatformConfig struct {
	// BaseURL is the platform API endpoint.
	BaseURL string `yaml:"base_url"`

	// Token is the API token. Usually supplied via DECKHAND_PLATFORM_TOKEN
	// rather than the config file.
	Token string `yaml:"token"`

	// Project is the project whose deployments are cleaned.
	Project string `yaml:"project"`

	// Timeout is the per-request timeout.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the retry count for transient API failures.
	// Default: 3
	MaxRetries int `yaml:"max_retries"`

	// PerPage is the listing page size.
	// Default: 25
	PerPage int `yaml:"per_page"`
}

// RetentionConfig contains the cleanup policy.
type RetentionConfig struct {
	// Environment selects which environments to clean: "all",
	// "production" or "preview". "all" processes both environments
	// independently.
	// Default: "all"
	Environment string `yaml:"environment"`

	// MinKeep is the floor of the auto-keep window.
	// Default: 5
	MinKeep int `yaml:"min_keep"`

	// MaxKeep is the cap of the auto-keep window. If it is below
	// MinKeep it is coerced up to MinKeep with a warning.
	// Default: 10
	MaxKeep int `yaml:"max_keep"`

	// OlderThanDays restricts deletion to records strictly older than
	// this many days. 0 disables the age gate.
	// Default: 0
	OlderThanDays int `yaml:"older_than_days"`

	// MaxDeletionsPerRun caps deletions across the whole run.
	// 0 means unlimited.
	// Default: 100
	MaxDeletionsPerRun int `yaml:"max_deletions_per_run"`

	// DryRun classifies and reports without deleting anything.
	// Default: false
	DryRun bool `yaml:"dry_run"`

	// FailOnError makes the run exit non-zero when any deletion failed.
	// The report is persisted either way.
	// Default: true
	FailOnError bool `yaml:"fail_on_error"`
}

// ReportConfig controls the JSON artifact written after each run.
type ReportConfig struct {
	// Path is the artifact file path. Empty disables the artifact.
	// Default: "deckhand-report.json"
	Path string `yaml:"path"`

	// Pretty indents the JSON output.
	// Default: true
	Pretty bool `yaml:"pretty"`
}

// HistoryConfig controls the local SQLite run history.
type HistoryConfig struct {
	// Enabled turns the history store on.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file path.
	// Default: "data/deckhand.db"
	Path string `yaml:"path"`

	// RetentionDays prunes history rows older than this many days at
	// the end of each run. 0 keeps history forever.
	// Default: 365
	RetentionDays int `yaml:"retention_days"`
}

// DaemonConfig contains settings for `deckhand daemon`.
type DaemonConfig struct {
	// Schedule is a standard cron expression for recurring cleanups.
	// Example: "0 3 * * *" (daily at 3 AM).
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`

	// ListenAddress is where the metrics/health listener binds.
	// Default: "127.0.0.1:9190"
	ListenAddress string `yaml:"listen_address"`

	// WatchConfig reloads retention settings when the config file
	// changes on disk.
	// Default: false
	WatchConfig bool `yaml:"watch_config"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format: "json" or "text".
	// Default: "text"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled turns metric collection on in daemon mode.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "deckhand"
	Namespace string `yaml:"namespace"`
}
