// Package pipeline runs build and migrate passes over the configured source
// files, and imports park directories into source files.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"trailsroc/pkg/config"
	"trailsroc/pkg/diff"
	"trailsroc/pkg/logging"
	"trailsroc/pkg/model"
	"trailsroc/pkg/run"
	"trailsroc/pkg/store"
)

// File outcomes recorded in the ledger.
const (
	OutcomeBuilt    = "built"
	OutcomeMigrated = "migrated"
	OutcomeImported = "imported"
	OutcomeSkipped  = "skipped"
)

// Runner executes one run. Nothing is written until every file has been
// processed, so a fatal error leaves the destination untouched.
type Runner struct {
	cfg    *config.Config
	rc     *run.Context
	ledger store.Store // may be nil
	out    io.Writer

	record   *model.Run
	features int
}

// NewRunner creates a runner. Dry-run output and stdout collections go to out.
func NewRunner(cfg *config.Config, rc *run.Context, ledger store.Store, out io.Writer) *Runner {
	if out == nil {
		out = os.Stdout
	}
	return &Runner{cfg: cfg, rc: rc, ledger: ledger, out: out}
}

// output is one file produced by a run.
type output struct {
	file     string
	path     string // empty for files that are only reported
	data     []byte
	preview  []byte // printed instead of writing in dry runs
	outcome  string
	features int
}

func (r *Runner) sourcePath(file, ext string) string {
	return filepath.Join(r.cfg.SourceDir, file+ext)
}

func (r *Runner) destPath(file, ext string) string {
	return filepath.Join(r.cfg.DestDir, file+ext)
}

// begin checks the destination and opens the ledger record.
func (r *Runner) begin(ctx context.Context, command string, needDest bool) error {
	if r.cfg.DryRun {
		logging.EnableTrace = true
	} else if needDest || r.cfg.DestDir != "" {
		if err := CheckDestination(r.cfg.SourceDir, r.cfg.DestDir); err != nil {
			return err
		}
	}

	r.record = &model.Run{
		ID:        r.rc.ID,
		Command:   command,
		SourceDir: r.cfg.SourceDir,
		DestDir:   r.cfg.DestDir,
		DryRun:    r.cfg.DryRun,
		Status:    model.RunRunning,
		StartedAt: time.Now(),
	}
	if r.ledger != nil {
		if err := r.ledger.StartRun(ctx, r.record); err != nil {
			r.rc.Logger.Warn("Failed to record run", "error", err)
		}
	}
	r.rc.Logger.Info("Run started", "command", command, "files", len(r.cfg.Files), "dry_run", r.cfg.DryRun)
	return nil
}

// commit writes, or in dry runs prints, every output and records it.
func (r *Runner) commit(ctx context.Context, outputs []output) error {
	for _, o := range outputs {
		if o.path != "" {
			if r.cfg.DryRun {
				if o.preview != nil {
					fmt.Fprintf(r.out, "%s\n", o.preview)
				}
				logging.Trace(r.rc.Logger, "Would write", "path", o.path, "bytes", len(o.data))
			} else if err := os.WriteFile(o.path, o.data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", o.path, err)
			}
		}
		r.features += o.features
		r.recordFile(ctx, o)
	}
	return nil
}

func (r *Runner) recordFile(ctx context.Context, o output) {
	if r.ledger == nil {
		return
	}
	f := &model.RunFile{
		RunID:    r.rc.ID,
		File:     o.file,
		Outcome:  o.outcome,
		Features: o.features,
		Output:   o.path,
	}
	if o.data != nil {
		f.Digest = diff.Digest(o.data)
	}
	if err := r.ledger.RecordFile(ctx, f); err != nil {
		r.rc.Logger.Warn("Failed to record file", "file", o.file, "error", err)
	}
}

// finish closes the ledger record and writes metrics. It returns runErr,
// or the metrics error when the run itself succeeded.
func (r *Runner) finish(ctx context.Context, runErr error) error {
	r.rc.Metrics.RegisteredIDs(r.rc.IDs.Len())

	if r.record != nil {
		r.record.Status = model.RunSucceeded
		if runErr != nil {
			r.record.Status = model.RunFailed
			r.record.Error = runErr.Error()
		}
		r.record.Features = r.features
		r.record.Warnings = r.rc.Warnings()
		r.record.FinishedAt = time.Now()

		if r.ledger != nil {
			if err := r.ledger.FinishRun(ctx, r.record); err != nil {
				r.rc.Logger.Warn("Failed to record run", "error", err)
			}
			if runErr == nil {
				if err := r.ledger.SetState(ctx, store.LastRunKey(r.record.Command), r.rc.ID); err != nil {
					r.rc.Logger.Warn("Failed to save state", "error", err)
				}
			}
		}
	}

	if err := r.rc.Metrics.WriteTextfile(r.cfg.Metrics.Textfile); err != nil && runErr == nil {
		return err
	}
	if runErr == nil {
		r.rc.Logger.Info("Run finished", "summary", r.rc.Summary().String())
	}
	return runErr
}
