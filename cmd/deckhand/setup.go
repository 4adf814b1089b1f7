package main

import (
	"fmt"

	"deckhand-hq/deckhand/pkg/cleanup"
	"deckhand-hq/deckhand/pkg/config"
	"deckhand-hq/deckhand/pkg/history"
	"deckhand-hq/deckhand/pkg/platform"
	"deckhand-hq/deckhand/pkg/telemetry/metrics"
)

// newHistoryStore opens the run history store, or returns nil when
// history is disabled.
func newHistoryStore(cfg *config.Config) (history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.NewSQLiteStore(history.SQLiteConfig{Path: cfg.History.Path})
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	return store, nil
}

// newRunner assembles a cleanup runner from the configuration. The
// returned close function releases the history store.
func newRunner(cfg *config.Config, collector *metrics.Collector, progress func(environment string, done, total int)) (*cleanup.Runner, func(), error) {
	client, err := platform.NewClient(platform.Config{
		BaseURL:    cfg.Platform.BaseURL,
		Token:      cfg.Platform.Token,
		Project:    cfg.Platform.Project,
		Timeout:    cfg.Platform.Timeout,
		MaxRetries: cfg.Platform.MaxRetries,
		PerPage:    cfg.Platform.PerPage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create platform client: %w", err)
	}

	store, err := newHistoryStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	runner, err := cleanup.NewRunner(cleanup.Options{
		Client:               client,
		Project:              cfg.Platform.Project,
		Retention:            cfg.Retention,
		ReportPath:           cfg.Report.Path,
		ReportPretty:         cfg.Report.Pretty,
		History:              store,
		HistoryRetentionDays: cfg.History.RetentionDays,
		Metrics:              collector,
		Progress:             progress,
	})
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, nil, err
	}

	closeFn := func() {
		if store != nil {
			store.Close()
		}
	}
	return runner, closeFn, nil
}
