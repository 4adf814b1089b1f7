package config

import "time"

// Default values for configuration fields.
const (
	DefaultPlatformTimeout    = 30 * time.Second
	DefaultPlatformMaxRetries = 3
	DefaultPlatformPerPage    = 25

	DefaultRetentionEnvironment = "all"
	DefaultRetentionMinKeep     = 5
	DefaultRetentionMaxKeep     = 10
	DefaultRetentionMaxPerRun   = 100

	DefaultReportPath = "deckhand-report.json"

	DefaultHistoryPath          = "data/deckhand.db"
	DefaultHistoryRetentionDays = 365

	DefaultDaemonSchedule = "0 3 * * *"
	DefaultDaemonListen   = "127.0.0.1:9190"

	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultMetricsNamespace = "deckhand"
)

// Default returns a fully-populated default configuration. LoadConfig
// unmarshals the YAML file over this, so absent fields keep their
// defaults while explicit false values survive.
func Default() *Config {
	return &Config{
		Platform: PlatformConfig{
			Timeout:    DefaultPlatformTimeout,
			MaxRetries: DefaultPlatformMaxRetries,
			PerPage:    DefaultPlatformPerPage,
		},
		Retention: RetentionConfig{
			Environment:        DefaultRetentionEnvironment,
			MinKeep:            DefaultRetentionMinKeep,
			MaxKeep:            DefaultRetentionMaxKeep,
			MaxDeletionsPerRun: DefaultRetentionMaxPerRun,
			FailOnError:        true,
		},
		Report: ReportConfig{
			Path:   DefaultReportPath,
			Pretty: true,
		},
		History: HistoryConfig{
			Enabled:       true,
			Path:          DefaultHistoryPath,
			RetentionDays: DefaultHistoryRetentionDays,
		},
		Daemon: DaemonConfig{
			Schedule:      DefaultDaemonSchedule,
			ListenAddress: DefaultDaemonListen,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  DefaultLogLevel,
				Format: DefaultLogFormat,
			},
			Metrics: MetricsConfig{
				Enabled:   true,
				Namespace: DefaultMetricsNamespace,
			},
		},
	}
}

// ApplyDefaults fills zero-valued fields on a programmatically built
// configuration. Boolean fields are left alone; use Default for a
// configuration with the documented boolean defaults.
func ApplyDefaults(cfg *Config) {
	d := Default()

	if cfg.Platform.Timeout <= 0 {
		cfg.Platform.Timeout = d.Platform.Timeout
	}
	if cfg.Platform.MaxRetries == 0 {
		cfg.Platform.MaxRetries = d.Platform.MaxRetries
	}
	if cfg.Platform.PerPage == 0 {
		cfg.Platform.PerPage = d.Platform.PerPage
	}
	if cfg.Retention.Environment == "" {
		cfg.Retention.Environment = d.Retention.Environment
	}
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = d.Telemetry.Logging.Level
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = d.Telemetry.Logging.Format
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = d.Telemetry.Metrics.Namespace
	}
	if cfg.Daemon.Schedule == "" {
		cfg.Daemon.Schedule = d.Daemon.Schedule
	}
	if cfg.Daemon.ListenAddress == "" {
		cfg.Daemon.ListenAddress = d.Daemon.ListenAddress
	}
	if cfg.History.Path == "" {
		cfg.History.Path = d.History.Path
	}
}
