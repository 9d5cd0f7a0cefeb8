package model

import "time"

// Run statuses.
const (
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// Run is one ledger entry: a build or migrate invocation.
type Run struct {
	ID         string
	Command    string
	SourceDir  string
	DestDir    string
	DryRun     bool
	Status     string
	Error      string
	Features   int
	Warnings   int
	StartedAt  time.Time
	FinishedAt time.Time // zero while running
}

// RunFile records what a run did with one source basename.
type RunFile struct {
	RunID    string
	File     string
	Outcome  string // built, migrated, skipped
	Features int
	Output   string // written path, empty on dry runs
	Digest   string // xxhash of the written bytes
}
