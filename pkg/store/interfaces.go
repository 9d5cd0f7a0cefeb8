package store

import (
	"context"

	"trailsroc/pkg/model"
)

// RunStore records build and migrate runs.
type RunStore interface {
	StartRun(ctx context.Context, run *model.Run) error
	RecordFile(ctx context.Context, f *model.RunFile) error
	FinishRun(ctx context.Context, run *model.Run) error
	ListRuns(ctx context.Context, limit int) ([]*model.Run, error)
	GetRunFiles(ctx context.Context, runID string) ([]*model.RunFile, error)
}

// LastRunKey is the state key holding the id of the last successful run
// of command.
func LastRunKey(command string) string {
	return "last_run:" + command
}

// StateStore handles persistent tool state.
type StateStore interface {
	GetState(ctx context.Context, key string) (string, bool)
	SetState(ctx context.Context, key, val string) error
	DeleteState(ctx context.Context, key string) error
}
