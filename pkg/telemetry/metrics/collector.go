package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"deckhand-hq/deckhand/pkg/config"
)

// Collector owns the Prometheus registry and all Deckhand metrics.
// It is used by daemon mode, where runs recur and a scraper can watch
// them; one-shot runs skip metrics entirely.
type Collector struct {
	registry *prometheus.Registry

	runsTotal           *prometheus.CounterVec
	deletedTotal        *prometheus.CounterVec
	keptTotal           *prometheus.CounterVec
	deletionErrorsTotal prometheus.Counter
	runDuration         prometheus.Histogram
	lastRunTimestamp    prometheus.Gauge
}

// NewCollector creates a metrics collector with the specified
// configuration and registry. If registry is nil, a fresh private
// registry is used.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "deckhand"
	}

	c := &Collector{
		registry: registry,

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of cleanup runs by outcome",
			},
			[]string{"status"},
		),

		deletedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deployments_deleted_total",
				Help:      "Total number of deployments deleted",
			},
			[]string{"environment"},
		),

		keptTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deployments_kept_total",
				Help:      "Total number of deployments kept",
			},
			[]string{"environment"},
		),

		deletionErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deletion_errors_total",
				Help:      "Total number of failed deletion calls",
			},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of cleanup runs in seconds",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
		),

		lastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix timestamp of the last completed run",
			},
		),
	}

	registry.MustRegister(
		c.runsTotal,
		c.deletedTotal,
		c.keptTotal,
		c.deletionErrorsTotal,
		c.runDuration,
		c.lastRunTimestamp,
	)

	return c
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordRun records the outcome and duration of one cleanup run.
// Status is "success", "partial" (deletion failures) or "error".
func (c *Collector) RecordRun(status string, duration time.Duration) {
	c.runsTotal.WithLabelValues(status).Inc()
	c.runDuration.Observe(duration.Seconds())
	c.lastRunTimestamp.SetToCurrentTime()
}

// RecordEnvironment records per-environment selection outcomes.
func (c *Collector) RecordEnvironment(environment string, kept, deleted int) {
	c.keptTotal.WithLabelValues(environment).Add(float64(kept))
	c.deletedTotal.WithLabelValues(environment).Add(float64(deleted))
}

// RecordDeletionErrors records failed deletion calls.
func (c *Collector) RecordDeletionErrors(n int) {
	if n > 0 {
		c.deletionErrorsTotal.Add(float64(n))
	}
}
