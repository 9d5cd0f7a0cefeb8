package importer

import "errors"

// ErrNoPark indicates a park.json without a park record.
var ErrNoPark = errors.New("park.json has no park record")
