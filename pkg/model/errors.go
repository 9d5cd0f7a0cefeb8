package model

import "errors"

var (
	// ErrUnknownAttribute indicates a record key outside the known schema.
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrMalformed indicates a document or sidecar that is not valid JSON for its record type.
	ErrMalformed = errors.New("malformed record")
)
