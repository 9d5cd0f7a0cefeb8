package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"trailsroc/pkg/db"
	"trailsroc/pkg/model"
)

// Store composes all sub-interfaces.
// Consumers should depend on specific sub-interfaces when possible.
type Store interface {
	RunStore
	StateStore

	// Close closes the store connection.
	Close() error
}

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Runs ---

func (s *SQLiteStore) StartRun(ctx context.Context, r *model.Run) error {
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	r.Status = model.RunRunning
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, command, source_dir, dest_dir, dry_run, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Command, r.SourceDir, r.DestDir, r.DryRun, r.Status, formatTime(r.StartedAt))
	return err
}

func (s *SQLiteStore) RecordFile(ctx context.Context, f *model.RunFile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO run_files (run_id, file, outcome, features, output, digest)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.RunID, f.File, f.Outcome, f.Features, f.Output, f.Digest)
	return err
}

// FinishRun stores the run's final status and counters.
func (s *SQLiteStore) FinishRun(ctx context.Context, r *model.Run) error {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error = ?, features = ?, warnings = ?, finished_at = ? WHERE id = ?`,
		r.Status, r.Error, r.Features, r.Warnings, formatTime(r.FinishedAt), r.ID)
	return err
}

// ListRuns returns the most recent runs first. A limit of 0 returns all.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*model.Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, command, source_dir, dest_dir, dry_run, status, error, features, warnings, started_at, finished_at
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Run
	for rows.Next() {
		var r model.Run
		var source, dest, errMsg sql.NullString
		var started, finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.Command, &source, &dest, &r.DryRun, &r.Status, &errMsg,
			&r.Features, &r.Warnings, &started, &finished); err != nil {
			return nil, err
		}
		r.SourceDir, r.DestDir, r.Error = source.String, dest.String, errMsg.String
		if started.Valid {
			r.StartedAt = started.Time
		}
		if finished.Valid {
			r.FinishedAt = finished.Time
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetRunFiles(ctx context.Context, runID string) ([]*model.RunFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, file, outcome, features, output, digest FROM run_files WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.RunFile
	for rows.Next() {
		var f model.RunFile
		var output, digest sql.NullString
		if err := rows.Scan(&f.RunID, &f.File, &f.Outcome, &f.Features, &output, &digest); err != nil {
			return nil, err
		}
		f.Output, f.Digest = output.String, digest.String
		out = append(out, &f)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(db.TimeFormat)
}

// --- State ---

func (s *SQLiteStore) GetState(ctx context.Context, key string) (string, bool) {
	var val string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM persistent_state WHERE key = ?", key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	return val, err == nil
}

func (s *SQLiteStore) SetState(ctx context.Context, key, val string) error {
	query := `INSERT OR REPLACE INTO persistent_state (key, value, created_at) VALUES (?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, key, val, formatTime(time.Now()))
	return err
}

func (s *SQLiteStore) DeleteState(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM persistent_state WHERE key = ?", key)
	return err
}
