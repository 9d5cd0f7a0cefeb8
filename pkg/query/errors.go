package query

import "errors"

var (
	// ErrBadQuery indicates a query string that does not parse.
	ErrBadQuery = errors.New("bad query string")
	// ErrNotGeoJSON indicates input without a features array.
	ErrNotGeoJSON = errors.New("unable to parse GeoJSON file")
)
