package gpx

import "errors"

var (
	// ErrTooFewPoints indicates a route or track with fewer than two points.
	ErrTooFewPoints = errors.New("fewer than two coords")
	// ErrNoRoot indicates a file without a root element.
	ErrNoRoot = errors.New("gpx document has no root element")
	// ErrBadCoordinate indicates a lat/lon attribute that is not a number.
	ErrBadCoordinate = errors.New("invalid coordinate")
)
