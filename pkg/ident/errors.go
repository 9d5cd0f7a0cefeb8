package ident

import "errors"

var (
	// ErrDuplicateID indicates an identifier was registered twice in one run.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrUnknownID indicates a referenced identifier was never registered.
	ErrUnknownID = errors.New("id does not exist")
	// ErrInvalidName indicates a track or waypoint name that cannot be parsed.
	ErrInvalidName = errors.New("invalid id format")
)
