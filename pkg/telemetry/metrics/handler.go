package metrics

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}

// HealthStatus is what the health endpoint reports.
type HealthStatus struct {
	Status  string     `json:"status"`
	NextRun *time.Time `json:"next_run,omitempty"`
}

// Server is the small HTTP listener daemon mode exposes for scraping
// and liveness checks.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer builds the daemon listener serving /metrics and /healthz.
// The nextRun callback, when non-nil, reports the next scheduled
// cleanup in the health payload.
func NewServer(addr string, collector *Collector, nextRun func() *time.Time) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := HealthStatus{Status: "ok"}
		if nextRun != nil {
			status.NextRun = nextRun()
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(status)
	})

	return &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		logger: slog.Default().With("component", "telemetry.server"),
	}
}

// Start begins serving until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("telemetry listener started", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("telemetry listener stopping")
		return s.server.Shutdown(shutdownCtx)
	}
}
