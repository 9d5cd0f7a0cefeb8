package maintenance

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"trailsroc/pkg/db"
	"trailsroc/pkg/model"
	"trailsroc/pkg/store"
)

func TestMaintenance(t *testing.T) {
	tempDir := t.TempDir()
	d, err := db.Init(filepath.Join(tempDir, "maint_test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	s := store.NewSQLiteStore(d)
	ctx := context.Background()
	now := time.Now()

	runs := []*model.Run{
		{ID: "ancient", Command: "build", StartedAt: now.Add(-40 * 24 * time.Hour)},
		{ID: "crashed", Command: "build", StartedAt: now.Add(-2 * 24 * time.Hour)},
		{ID: "active", Command: "migrate", StartedAt: now.Add(-time.Minute)},
	}
	for _, r := range runs {
		if err := s.StartRun(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	runs[0].Status = model.RunSucceeded
	if err := s.FinishRun(ctx, runs[0]); err != nil {
		t.Fatal(err)
	}

	if err := s.SetState(ctx, store.LastRunKey("build"), "ancient"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetState(ctx, store.LastRunKey("migrate"), "active"); err != nil {
		t.Fatal(err)
	}

	if err := Run(ctx, s, d, 30*24*time.Hour); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, ok := s.GetState(ctx, store.LastRunKey("build")); ok {
		t.Error("Expected last build state of a pruned run to be cleared")
	}
	if id, ok := s.GetState(ctx, store.LastRunKey("migrate")); !ok || id != "active" {
		t.Errorf("Expected last migrate state to be kept, got %q", id)
	}

	got, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	status := map[string]string{}
	for _, r := range got {
		status[r.ID] = r.Status
	}
	if _, ok := status["ancient"]; ok {
		t.Error("Expected old finished run to be pruned")
	}
	if status["crashed"] != model.RunFailed {
		t.Errorf("Expected crashed run to be failed, got %q", status["crashed"])
	}
	if status["active"] != model.RunRunning {
		t.Errorf("Expected active run to stay running, got %q", status["active"])
	}
	if _, ok := s.GetState(ctx, lastRunStateKey); !ok {
		t.Error("Expected maintenance state to be recorded")
	}

	// A second pass within the interval is skipped
	stale := &model.Run{ID: "stale", Command: "build", StartedAt: now.Add(-3 * 24 * time.Hour)}
	if err := s.StartRun(ctx, stale); err != nil {
		t.Fatal(err)
	}
	if err := Run(ctx, s, d, 30*24*time.Hour); err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	got, _ = s.ListRuns(ctx, 0)
	for _, r := range got {
		if r.ID == "stale" && r.Status != model.RunRunning {
			t.Errorf("Expected second pass to be skipped, stale run is %q", r.Status)
		}
	}
}
