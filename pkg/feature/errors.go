package feature

import "errors"

var (
	// ErrIncompatibleVersion indicates a document at a data version the builder cannot read.
	ErrIncompatibleVersion = errors.New("incompatible data version")
	// ErrMissingMainPin indicates a park or trail system without a map pin.
	ErrMissingMainPin = errors.New("missing mainPin")
	// ErrUnknownTrack indicates a route or track whose name has an unrecognized tag.
	ErrUnknownTrack = errors.New("GPX track with invalid ID")
)
