package db_test

import (
	"path/filepath"
	"testing"
	"time"

	"trailsroc/pkg/db"
)

func TestDB(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "nested", "ledger.db")

	d, err := db.Init(path)
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if d == nil {
		t.Fatal("Init() returned nil DB")
	}
	defer d.Close()

	// Re-running migrations on an existing schema is a no-op
	d.Close()
	d, err = db.Init(path)
	if err != nil {
		t.Fatalf("second Init() failed: %v", err)
	}
}

func TestPruneRuns(t *testing.T) {
	d, err := db.Init(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer d.Close()

	old := time.Now().Add(-48 * time.Hour).UTC().Format("2006-01-02 15:04:05")
	recent := time.Now().UTC().Format("2006-01-02 15:04:05")
	rows := []struct{ id, status, started string }{
		{"old-done", "succeeded", old},
		{"old-running", "running", old},
		{"new-done", "succeeded", recent},
	}
	for _, r := range rows {
		if _, err := d.Exec("INSERT INTO runs (id, command, status, started_at) VALUES (?, 'build', ?, ?)", r.id, r.status, r.started); err != nil {
			t.Fatalf("insert %s: %v", r.id, err)
		}
	}
	if _, err := d.Exec("INSERT INTO run_files (run_id, file, outcome) VALUES ('old-done', 'abe', 'built')"); err != nil {
		t.Fatalf("insert file: %v", err)
	}

	n, err := d.PruneRuns(24 * time.Hour)
	if err != nil {
		t.Fatalf("PruneRuns() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d runs, want 1", n)
	}

	var files int
	if err := d.QueryRow("SELECT count(*) FROM run_files").Scan(&files); err != nil {
		t.Fatal(err)
	}
	if files != 0 {
		t.Errorf("file records of pruned runs remain: %d", files)
	}
}
