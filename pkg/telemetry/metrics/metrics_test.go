package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"deckhand-hq/deckhand/pkg/config"
)

func newTestCollector() *Collector {
	return NewCollector(&config.MetricsConfig{Namespace: "deckhand"}, prometheus.NewRegistry())
}

// counterValue extracts a counter value from the registry by name and
// label pairs.
func counterValue(t *testing.T, c *Collector, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if !labelsMatch(m, labels) {
				continue
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}

func labelsMatch(m *dto.Metric, labels map[string]string) bool {
	got := map[string]string{}
	for _, lp := range m.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range labels {
		if got[k] != v {
			return false
		}
	}
	return true
}

func TestCollector_RecordRun(t *testing.T) {
	c := newTestCollector()

	c.RecordRun("success", 2*time.Second)
	c.RecordRun("success", time.Second)
	c.RecordRun("partial", time.Second)

	if got := counterValue(t, c, "deckhand_runs_total", map[string]string{"status": "success"}); got != 2 {
		t.Errorf("runs_total{success} = %v, want 2", got)
	}
	if got := counterValue(t, c, "deckhand_runs_total", map[string]string{"status": "partial"}); got != 1 {
		t.Errorf("runs_total{partial} = %v, want 1", got)
	}
}

func TestCollector_RecordEnvironment(t *testing.T) {
	c := newTestCollector()

	c.RecordEnvironment("production", 5, 3)
	c.RecordEnvironment("production", 2, 1)
	c.RecordEnvironment("preview", 7, 0)

	if got := counterValue(t, c, "deckhand_deployments_deleted_total", map[string]string{"environment": "production"}); got != 4 {
		t.Errorf("deleted_total{production} = %v, want 4", got)
	}
	if got := counterValue(t, c, "deckhand_deployments_kept_total", map[string]string{"environment": "preview"}); got != 7 {
		t.Errorf("kept_total{preview} = %v, want 7", got)
	}
}

func TestCollector_RecordDeletionErrors(t *testing.T) {
	c := newTestCollector()

	c.RecordDeletionErrors(0)
	c.RecordDeletionErrors(3)

	if got := counterValue(t, c, "deckhand_deletion_errors_total", nil); got != 3 {
		t.Errorf("deletion_errors_total = %v, want 3", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := newTestCollector()
	c.RecordRun("success", time.Second)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "deckhand_runs_total") {
		t.Error("exposition output missing deckhand_runs_total")
	}
}

func TestServer_Healthz(t *testing.T) {
	c := newTestCollector()
	next := time.Date(2025, 7, 1, 3, 0, 0, 0, time.UTC)
	srv := NewServer("127.0.0.1:0", c, func() *time.Time { return &next })

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("health body = %q", body)
	}
	if !strings.Contains(body, "2025-07-01T03:00:00Z") {
		t.Errorf("health body missing next run: %q", body)
	}
}
