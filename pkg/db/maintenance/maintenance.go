package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trailsroc/pkg/db"
	"trailsroc/pkg/model"
	"trailsroc/pkg/store"
)

const lastRunStateKey = "maintenance_last_run"

// interval is the minimum time between two maintenance passes.
const interval = 24 * time.Hour

// trackedCommands record their last successful run in state.
var trackedCommands = []string{"build", "migrate", "import"}

// Run tidies the ledger: runs left "running" by a crashed process are
// marked failed and finished runs older than retention are pruned. It does
// nothing when the previous pass was less than a day ago. A zero retention
// keeps all runs.
func Run(ctx context.Context, s store.Store, d *db.DB, retention time.Duration) error {
	now := time.Now()
	if last, ok := s.GetState(ctx, lastRunStateKey); ok {
		if t, err := time.Parse(time.RFC3339, last); err == nil && now.Sub(t) < interval {
			return nil
		}
	}

	slog.Debug("Starting ledger maintenance...")

	n, err := failInterrupted(ctx, s, now)
	if err != nil {
		return fmt.Errorf("failed to close interrupted runs: %w", err)
	}
	if n > 0 {
		slog.Info("Marked interrupted runs as failed", "count", n)
	}

	if retention > 0 {
		pruned, err := d.PruneRuns(retention)
		if err != nil {
			return fmt.Errorf("failed to prune runs: %w", err)
		}
		dropped, err := dropPrunedLastRuns(ctx, s)
		if err != nil {
			return fmt.Errorf("failed to clear last run state: %w", err)
		}
		slog.Debug("Ledger pruning completed", "pruned", pruned, "cleared_state", dropped)
	}

	if err := s.SetState(ctx, lastRunStateKey, now.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to update state: %w", err)
	}
	return nil
}

// failInterrupted closes runs that have been "running" for longer than the
// maintenance interval.
func failInterrupted(ctx context.Context, s store.Store, now time.Time) (int, error) {
	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range runs {
		if r.Status != model.RunRunning || now.Sub(r.StartedAt) < interval {
			continue
		}
		r.Status = model.RunFailed
		r.Error = "interrupted"
		r.FinishedAt = now
		if err := s.FinishRun(ctx, r); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// dropPrunedLastRuns deletes last run state that points at runs no longer
// in the ledger.
func dropPrunedLastRuns(ctx context.Context, s store.Store) (int, error) {
	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		return 0, err
	}
	known := make(map[string]bool, len(runs))
	for _, r := range runs {
		known[r.ID] = true
	}
	count := 0
	for _, cmd := range trackedCommands {
		key := store.LastRunKey(cmd)
		id, ok := s.GetState(ctx, key)
		if !ok || known[id] {
			continue
		}
		if err := s.DeleteState(ctx, key); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
