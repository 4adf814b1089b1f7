package cleanup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"deckhand-hq/deckhand/pkg/config"
	"deckhand-hq/deckhand/pkg/deploy"
	"deckhand-hq/deckhand/pkg/history"
	"deckhand-hq/deckhand/pkg/platform"
	"deckhand-hq/deckhand/pkg/report"
)

// fakeAPI is an in-memory platform collaborator.
type fakeAPI struct {
	deployments map[deploy.Environment][]deploy.Deployment
	activeID    string

	listErr   error
	deleteErr map[string]error

	deleted []string
}

func (f *fakeAPI) ListDeployments(_ context.Context, env deploy.Environment) ([]deploy.Deployment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.deployments[env], nil
}

func (f *fakeAPI) DeleteDeployment(_ context.Context, id string) error {
	if err, ok := f.deleteErr[id]; ok {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) ActiveProductionID(context.Context) (string, error) {
	return f.activeID, nil
}

// fakeStore records history calls.
type fakeStore struct {
	recorded []*report.Report
	pruned   []time.Time
}

func (f *fakeStore) Record(_ context.Context, r *report.Report) error {
	f.recorded = append(f.recorded, r)
	return nil
}

func (f *fakeStore) List(context.Context, int) ([]history.Run, error) { return nil, nil }

func (f *fakeStore) Get(context.Context, string) (*history.Run, error) {
	return nil, history.ErrRunNotFound
}

func (f *fakeStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.pruned = append(f.pruned, cutoff)
	return 0, nil
}

func (f *fakeStore) Close() error { return nil }

// makeDeployments produces n records for env, newest first, one hour
// apart starting an hour ago.
func makeDeployments(env deploy.Environment, n int) []deploy.Deployment {
	now := time.Now().UTC()
	out := make([]deploy.Deployment, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, deploy.Deployment{
			ID:          fmt.Sprintf("%s-%d", env, i),
			CreatedAt:   now.Add(-time.Duration(i+1) * time.Hour),
			Environment: env,
			BuildStatus: "success",
		})
	}
	return out
}

func basePolicy() config.RetentionConfig {
	return config.RetentionConfig{
		Environment:        string(deploy.EnvProduction),
		MinKeep:            2,
		MaxKeep:            2,
		MaxDeletionsPerRun: 100,
		FailOnError:        true,
	}
}

func TestRunner_DeletesBeyondWindow(t *testing.T) {
	api := &fakeAPI{
		deployments: map[deploy.Environment][]deploy.Deployment{
			deploy.EnvProduction: makeDeployments(deploy.EnvProduction, 5),
		},
	}
	r, err := NewRunner(Options{Client: api, Project: "my-site", Retention: basePolicy()})
	if err != nil {
		t.Fatalf("NewRunner() failed: %v", err)
	}

	rep, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	// Window keeps the newest 2, the other 3 go.
	if len(api.deleted) != 3 {
		t.Errorf("deleted %v, want 3 deletions", api.deleted)
	}
	if rep.Totals.Kept != 2 || rep.Totals.Deleted != 3 || rep.Totals.Considered != 3 {
		t.Errorf("totals = %+v", rep.Totals)
	}
	if rep.Totals.Errors != 0 {
		t.Errorf("unexpected errors: %+v", rep.DeletionErrors)
	}
}

func TestRunner_DryRunDeletesNothing(t *testing.T) {
	api := &fakeAPI{
		deployments: map[deploy.Environment][]deploy.Deployment{
			deploy.EnvProduction: makeDeployments(deploy.EnvProduction, 5),
		},
	}
	pol := basePolicy()
	pol.DryRun = true
	r, _ := NewRunner(Options{Client: api, Retention: pol})

	rep, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if len(api.deleted) != 0 {
		t.Errorf("dry run deleted %v", api.deleted)
	}
	// The report still shows what would have been deleted.
	if !rep.DryRun || rep.Totals.Deleted != 3 {
		t.Errorf("report = dry_run:%v totals:%+v", rep.DryRun, rep.Totals)
	}
}

func TestRunner_CapSpansEnvironments(t *testing.T) {
	api := &fakeAPI{
		deployments: map[deploy.Environment][]deploy.Deployment{
			deploy.EnvProduction: makeDeployments(deploy.EnvProduction, 6),
			deploy.EnvPreview:    makeDeployments(deploy.EnvPreview, 6),
		},
	}
	pol := basePolicy()
	pol.Environment = "all"
	pol.MaxDeletionsPerRun = 5
	r, _ := NewRunner(Options{Client: api, Retention: pol})

	rep, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	// 4 candidates per environment; production takes 4 of the cap,
	// preview gets the remaining 1.
	if rep.Totals.Deleted != 5 {
		t.Errorf("totals.Deleted = %d, want 5", rep.Totals.Deleted)
	}
	if len(api.deleted) != 5 {
		t.Errorf("deleted %v, want 5 deletions", api.deleted)
	}
	if rep.Environments[0].Deleted != 4 || rep.Environments[1].Deleted != 1 {
		t.Errorf("per-environment deletions = %d, %d", rep.Environments[0].Deleted, rep.Environments[1].Deleted)
	}
}

func TestRunner_DeletionFailureContinuesBatch(t *testing.T) {
	api := &fakeAPI{
		deployments: map[deploy.Environment][]deploy.Deployment{
			deploy.EnvProduction: makeDeployments(deploy.EnvProduction, 5),
		},
		deleteErr: map[string]error{
			"production-3": &platform.NotFoundError{ID: "production-3"},
		},
	}
	r, _ := NewRunner(Options{Client: api, Retention: basePolicy()})

	rep, err := r.Run(context.Background())
	if !errors.Is(err, ErrDeletionsFailed) {
		t.Fatalf("expected ErrDeletionsFailed, got %v", err)
	}

	// The two other candidates are still attempted.
	if len(api.deleted) != 2 {
		t.Errorf("deleted %v, want the 2 healthy candidates", api.deleted)
	}
	if rep.Totals.Errors != 1 || len(rep.DeletionErrors) != 1 {
		t.Fatalf("errors = %+v", rep.DeletionErrors)
	}
	if e := rep.DeletionErrors[0]; e.ID != "production-3" || e.StatusCode != 404 {
		t.Errorf("deletion error = %+v", e)
	}
}

func TestRunner_FailOnErrorDisabled(t *testing.T) {
	api := &fakeAPI{
		deployments: map[deploy.Environment][]deploy.Deployment{
			deploy.EnvProduction: makeDeployments(deploy.EnvProduction, 3),
		},
		deleteErr: map[string]error{
			"production-2": errors.New("boom"),
		},
	}
	pol := basePolicy()
	pol.FailOnError = false
	r, _ := NewRunner(Options{Client: api, Retention: pol})

	rep, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() should tolerate failures: %v", err)
	}
	if rep.Totals.Errors != 1 {
		t.Errorf("totals.Errors = %d, want 1", rep.Totals.Errors)
	}
}

func TestRunner_ListFailureAbortsRun(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("api down")}
	r, _ := NewRunner(Options{Client: api, Retention: basePolicy()})

	if _, err := r.Run(context.Background()); err == nil {
		t.Fatal("expected listing failure to surface")
	}
}

func TestRunner_WritesReportArtifact(t *testing.T) {
	api := &fakeAPI{
		deployments: map[deploy.Environment][]deploy.Deployment{
			deploy.EnvProduction: makeDeployments(deploy.EnvProduction, 3),
		},
	}
	path := filepath.Join(t.TempDir(), "out", "report.json")
	r, _ := NewRunner(Options{Client: api, Retention: basePolicy(), ReportPath: path})

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report artifact missing: %v", err)
	}
	if len(data) == 0 {
		t.Error("report artifact is empty")
	}
}

func TestRunner_ActiveProductionIsProtected(t *testing.T) {
	records := makeDeployments(deploy.EnvProduction, 5)
	api := &fakeAPI{
		deployments: map[deploy.Environment][]deploy.Deployment{
			deploy.EnvProduction: records,
		},
		// The oldest record is the live one.
		activeID: records[4].ID,
	}
	r, _ := NewRunner(Options{Client: api, Retention: basePolicy()})

	rep, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	for _, id := range api.deleted {
		if id == records[4].ID {
			t.Fatal("live production deployment was deleted")
		}
	}
	if rep.Totals.SkippedProtected != 1 {
		t.Errorf("totals.SkippedProtected = %d, want 1", rep.Totals.SkippedProtected)
	}
}

func TestRunner_RecordsAndPrunesHistory(t *testing.T) {
	api := &fakeAPI{
		deployments: map[deploy.Environment][]deploy.Deployment{
			deploy.EnvProduction: makeDeployments(deploy.EnvProduction, 3),
		},
	}
	store := &fakeStore{}
	r, _ := NewRunner(Options{
		Client:               api,
		Retention:            basePolicy(),
		History:              store,
		HistoryRetentionDays: 30,
	})

	rep, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if len(store.recorded) != 1 || store.recorded[0].RunID != rep.RunID {
		t.Errorf("history recorded %d runs", len(store.recorded))
	}
	if len(store.pruned) != 1 {
		t.Fatalf("prune called %d times, want 1", len(store.pruned))
	}
	wantCutoff := time.Now().AddDate(0, 0, -30)
	if diff := store.pruned[0].Sub(wantCutoff); diff < -time.Minute || diff > time.Minute {
		t.Errorf("prune cutoff = %v, want about %v", store.pruned[0], wantCutoff)
	}
}

func TestRunner_RequiresClient(t *testing.T) {
	if _, err := NewRunner(Options{}); err == nil {
		t.Fatal("expected an error for missing client")
	}
}
