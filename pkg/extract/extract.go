// Package extract pulls authoring helpers out of GPX files: bounds to paste
// into documents and waypoints rendered as POI records.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/paulmach/orb"

	"trailsroc/pkg/geo"
	"trailsroc/pkg/gpx"
	"trailsroc/pkg/ident"
	"trailsroc/pkg/normalize"
)

// Extent holds the bounds found in one GPX file.
type Extent struct {
	Parks  map[string]geo.Bounds `json:"parks"`
	Trails map[string]geo.Bounds `json:"trails"`
}

// Bounds folds every route and track into per-park bounds (border tracks)
// and per-trail bounds (segments, once per referenced trail). Tracks
// without a name or without points are ignored.
func Bounds(g *gpx.File) (*Extent, error) {
	e := &Extent{Parks: map[string]geo.Bounds{}, Trails: map[string]geo.Bounds{}}
	for _, track := range g.Tracks() {
		name, ok := track.Name()
		if !ok {
			continue
		}
		c, err := ident.ParseTrackName(name)
		if err != nil {
			return nil, err
		}
		pts, err := track.Points()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		switch c.Kind {
		case ident.KindBorder, ident.KindInnerBorder:
			fold(e.Parks, c.ParentRef, pts)
		case ident.KindSegment:
			for _, id := range c.TrailIDs() {
				fold(e.Trails, id, pts)
			}
		}
	}
	return e, nil
}

func fold(m map[string]geo.Bounds, key string, pts []orb.Point) {
	var existing *geo.Bounds
	if b, ok := m[key]; ok {
		existing = &b
	}
	if b, ok := geo.BoundsOf(pts, existing); ok {
		m[key] = b
	}
}

// POIs renders every waypoint as a JSON POI record: type and name from the
// label tokens, loc as [lat, lng], then the sidecar attributes, which win
// on conflict.
func POIs(g *gpx.File) ([]json.RawMessage, error) {
	var out []json.RawMessage
	for _, w := range g.Waypoints() {
		rec := map[string]any{}
		if name, ok := w.Name(); ok {
			tokens := strings.Split(name, ":")
			rec["type"] = tokens[0]
			rec["name"] = ""
			if len(tokens) > 1 {
				rec["name"] = tokens[1]
			}
		}
		pt, err := w.Point()
		if err != nil {
			return nil, err
		}
		rec["loc"] = []float64{pt.Lat(), pt.Lon()}

		if desc := w.Desc(); !normalize.Blank(desc) {
			var attrs map[string]any
			if err := json.Unmarshal([]byte(desc), &attrs); err != nil {
				name, _ := w.Name()
				return nil, fmt.Errorf("waypoint %s: invalid sidecar: %w", name, err)
			}
			for k, v := range attrs {
				rec[k] = v
			}
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}
