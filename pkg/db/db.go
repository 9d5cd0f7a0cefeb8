package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Register driver
)

// DB wraps the sql.DB connection.
type DB struct {
	*sql.DB
}

// Init opens the ledger database and runs migrations.
func Init(path string) (*DB, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=30000;"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	d := &DB{db}
	db.SetMaxOpenConns(1)

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return d, nil
}

// TimeFormat is how ledger timestamps are stored, always in UTC.
const TimeFormat = "2006-01-02 15:04:05"

// PruneRuns removes finished runs, and their file records, that started
// more than olderThan ago. It returns the number of runs removed.
func (d *DB) PruneRuns(olderThan time.Duration) (int64, error) {
	deadline := time.Now().Add(-olderThan).UTC().Format(TimeFormat)
	const stale = "started_at < ? AND status != 'running'"
	if _, err := d.Exec("DELETE FROM run_files WHERE run_id IN (SELECT id FROM runs WHERE "+stale+")", deadline); err != nil {
		return 0, err
	}
	res, err := d.Exec("DELETE FROM runs WHERE "+stale, deadline)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (d *DB) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			command TEXT NOT NULL,
			source_dir TEXT,
			dest_dir TEXT,
			dry_run BOOLEAN DEFAULT 0,
			status TEXT NOT NULL,
			error TEXT,
			features INTEGER DEFAULT 0,
			warnings INTEGER DEFAULT 0,
			started_at DATETIME NOT NULL,
			finished_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_files (
			run_id TEXT NOT NULL REFERENCES runs(id),
			file TEXT NOT NULL,
			outcome TEXT NOT NULL,
			features INTEGER DEFAULT 0,
			output TEXT,
			digest TEXT,
			PRIMARY KEY (run_id, file)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);`,
		`CREATE TABLE IF NOT EXISTS persistent_state (
			key TEXT PRIMARY KEY,
			value TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	}

	for _, q := range queries {
		if _, err := d.Exec(q); err != nil {
			return fmt.Errorf("exec error: %w query: %s", err, q)
		}
	}

	// Ledgers created before digests were recorded
	var colCount int
	err := d.QueryRow("SELECT count(*) FROM pragma_table_info('run_files') WHERE name='digest'").Scan(&colCount)
	if err == nil && colCount == 0 {
		if _, err := d.Exec("ALTER TABLE run_files ADD COLUMN digest TEXT"); err != nil {
			return fmt.Errorf("failed to add digest column: %w", err)
		}
	}

	return nil
}
