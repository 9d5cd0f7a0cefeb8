package migrate

import "errors"

var (
	// ErrOutdated indicates a document older than the step's input version.
	ErrOutdated = errors.New("outdated document")
	// ErrAlreadyMigrated indicates a document at or past the step's output version.
	// Callers skip the document and its GPX companion.
	ErrAlreadyMigrated = errors.New("document has already been processed")
	// ErrNoStep indicates no registered step produces the requested version.
	ErrNoStep = errors.New("no migration step")
	// ErrParentless indicates a POI with neither a park nor a trail reference.
	ErrParentless = errors.New("POI without park ID or trail ID")
	// ErrInlinePoints indicates a document that still lists POIs after they
	// were moved to GPX waypoints.
	ErrInlinePoints = errors.New("document should not have POI")
	// ErrHiddenFlag indicates a hideInListView flag on a record that cannot carry one.
	ErrHiddenFlag = errors.New("hideInListView is not supported here")
)
