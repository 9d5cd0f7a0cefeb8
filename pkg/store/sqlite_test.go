package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"trailsroc/pkg/db"
	"trailsroc/pkg/model"
)

func TestSQLiteStore(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	// Init DB
	d, err := db.Init(dbPath)
	if err != nil {
		t.Fatalf("Failed to init DB: %v", err)
	}
	defer d.Close()

	store := NewSQLiteStore(d)
	ctx := context.Background()

	testRuns(t, ctx, store)
	testRunFiles(t, ctx, store)
	testState(t, ctx, store)
}

func testRuns(t *testing.T, ctx context.Context, store *SQLiteStore) {
	t.Run("Runs", func(t *testing.T) {
		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		first := &model.Run{ID: "run-1", Command: "build", SourceDir: "src", DestDir: "out", StartedAt: base}
		second := &model.Run{ID: "run-2", Command: "migrate", DryRun: true, StartedAt: base.Add(time.Hour)}

		for _, r := range []*model.Run{first, second} {
			if err := store.StartRun(ctx, r); err != nil {
				t.Fatalf("StartRun(%s) failed: %v", r.ID, err)
			}
		}
		if first.Status != model.RunRunning {
			t.Errorf("StartRun did not mark run as running: %s", first.Status)
		}

		first.Status = model.RunSucceeded
		first.Features = 42
		first.Warnings = 3
		first.FinishedAt = base.Add(time.Minute)
		if err := store.FinishRun(ctx, first); err != nil {
			t.Fatalf("FinishRun failed: %v", err)
		}

		runs, err := store.ListRuns(ctx, 0)
		if err != nil {
			t.Fatalf("ListRuns failed: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("Expected 2 runs, got %d", len(runs))
		}
		if runs[0].ID != "run-2" {
			t.Errorf("Expected newest run first, got %s", runs[0].ID)
		}
		if !runs[0].DryRun || runs[0].Status != model.RunRunning || !runs[0].FinishedAt.IsZero() {
			t.Errorf("Unexpected running entry: %+v", runs[0])
		}

		got := runs[1]
		if got.Status != model.RunSucceeded || got.Features != 42 || got.Warnings != 3 {
			t.Errorf("Finished run mismatch: %+v", got)
		}
		if !got.StartedAt.Equal(base) {
			t.Errorf("StartedAt mismatch: %v", got.StartedAt)
		}
		if got.FinishedAt.Sub(got.StartedAt) != time.Minute {
			t.Errorf("FinishedAt mismatch: %v", got.FinishedAt)
		}
		if got.SourceDir != "src" || got.DestDir != "out" {
			t.Errorf("Dirs mismatch: %q %q", got.SourceDir, got.DestDir)
		}

		limited, err := store.ListRuns(ctx, 1)
		if err != nil {
			t.Fatalf("ListRuns(1) failed: %v", err)
		}
		if len(limited) != 1 {
			t.Errorf("Expected 1 run with limit, got %d", len(limited))
		}
	})
}

func testRunFiles(t *testing.T, ctx context.Context, store *SQLiteStore) {
	t.Run("RunFiles", func(t *testing.T) {
		files := []*model.RunFile{
			{RunID: "run-1", File: "abe", Outcome: "built", Features: 12, Output: "out/abe.geojson", Digest: "00ff"},
			{RunID: "run-1", File: "vht", Outcome: "skipped"},
		}
		for _, f := range files {
			if err := store.RecordFile(ctx, f); err != nil {
				t.Fatalf("RecordFile(%s) failed: %v", f.File, err)
			}
		}

		got, err := store.GetRunFiles(ctx, "run-1")
		if err != nil {
			t.Fatalf("GetRunFiles failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 files, got %d", len(got))
		}
		if *got[0] != *files[0] {
			t.Errorf("File mismatch: %+v", got[0])
		}
		if got[1].Output != "" || got[1].Outcome != "skipped" {
			t.Errorf("Skipped file mismatch: %+v", got[1])
		}

		none, err := store.GetRunFiles(ctx, "run-missing")
		if err != nil || len(none) != 0 {
			t.Errorf("Expected no files, got %v (%v)", none, err)
		}
	})
}

func testState(t *testing.T, ctx context.Context, store *SQLiteStore) {
	t.Run("State", func(t *testing.T) {
		if err := store.SetState(ctx, "last_run:build", "run-1"); err != nil {
			t.Errorf("SetState failed: %v", err)
		}
		sVal, sHit := store.GetState(ctx, "last_run:build")
		if !sHit {
			t.Error("Expected state hit")
		}
		if sVal != "run-1" {
			t.Errorf("Expected 'run-1', got '%s'", sVal)
		}
		if err := store.DeleteState(ctx, "last_run:build"); err != nil {
			t.Errorf("DeleteState failed: %v", err)
		}
		if _, hit := store.GetState(ctx, "last_run:build"); hit {
			t.Error("Expected state miss after delete")
		}
	})
}
