package feature

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"trailsroc/pkg/border"
	"trailsroc/pkg/gpx"
	"trailsroc/pkg/ident"
	"trailsroc/pkg/logging"
	"trailsroc/pkg/model"
	"trailsroc/pkg/normalize"
)

// GPX builds segment, park border and POI features from one GPX file, in
// that order.
func (b *Builder) GPX(file string, g *gpx.File) ([]*geojson.Feature, error) {
	logging.Trace(b.rc.Logger, "Parsing GPX", "file", file)

	var out []*geojson.Feature
	borders := border.NewAssembler()

	for _, track := range g.Tracks() {
		name, ok := track.Name()
		if !ok {
			b.rc.Warn("Route or track with no name", "file", file, "points", track.PointCount())
			continue
		}
		c, err := ident.ParseTrackName(name)
		if err != nil {
			return nil, fmt.Errorf("%s.gpx: %w: %v", file, ErrUnknownTrack, err)
		}
		ls, err := track.Coordinates()
		if err != nil {
			return nil, fmt.Errorf("%s.gpx: %w", file, err)
		}

		switch c.Kind {
		case ident.KindBorder, ident.KindInnerBorder:
			if err := b.rc.IDs.Require(c.ParentRef, c.Tag); err != nil {
				return nil, fmt.Errorf("%s.gpx: %w", file, err)
			}
			if c.Kind == ident.KindBorder {
				borders.AddOuter(c.ParentRef, ls)
			} else {
				borders.AddInner(c.ParentRef, ls)
			}
		case ident.KindSegment:
			f, err := b.segment(c, ls)
			if err != nil {
				return nil, fmt.Errorf("%s.gpx: %w", file, err)
			}
			out = append(out, f)
		}
	}

	for _, parkID := range borders.Orphans() {
		b.rc.Warn("Inner border without outer border", "file", file, "park", parkID)
	}
	for _, poly := range borders.Polygons() {
		suffix, err := b.rc.IDs.RandomID()
		if err != nil {
			return nil, err
		}
		f, err := b.newFeature(TypeParkBorder, ident.BorderFeatureID(poly.ParkID, suffix), "border", poly.Polygon)
		if err != nil {
			return nil, err
		}
		b.set(f, "parkID", poly.ParkID)
		out = append(out, f)
	}

	v := b.version(file)
	for _, wpt := range g.Waypoints() {
		f, err := b.poi(file, wpt, v)
		if err != nil {
			return nil, fmt.Errorf("%s.gpx: %w", file, err)
		}
		if f != nil {
			out = append(out, f)
		}
	}
	return out, nil
}

func (b *Builder) segment(c ident.Composite, ls orb.LineString) (*geojson.Feature, error) {
	trailIDs := c.TrailIDs()
	trails := make([]*model.Trail, 0, len(trailIDs))
	for _, id := range trailIDs {
		t, ok := b.rc.Trails[id]
		if !ok {
			return nil, fmt.Errorf("%w (segment trail): %s", ident.ErrUnknownID, id)
		}
		trails = append(trails, t)
	}

	id := c.String()
	if c.Legacy {
		suffix, err := b.rc.IDs.RandomID()
		if err != nil {
			return nil, err
		}
		id = ident.SegmentName(trailIDs, suffix)
	}

	f, err := b.newFeature(TypeTrailSegment, id, "segment", ls)
	if err != nil {
		return nil, err
	}
	b.set(f, "trailIDs", c.ParentRef)
	if len(trails) == 1 {
		b.setText(f, "name", trails[0].Name)
		b.setText(f, "shortName", shortOrName(trails[0].ShortName, trails[0].Name))
	}
	b.set(f, "surface", b.surfaceOf(trailIDs[0]))

	colorKeys := []string{"color", "color2", "color3"}
	for i, t := range trails {
		if i >= b.opts.MaxColors || i >= len(colorKeys) {
			break
		}
		b.setText(f, colorKeys[i], t.Color)
	}
	return f, nil
}

func (b *Builder) poi(file string, wpt *gpx.Waypoint, v int) (*geojson.Feature, error) {
	id, ok := wpt.Name()
	if !ok || !strings.Contains(id, ":") {
		return nil, nil
	}
	desc := wpt.Desc()
	if strings.TrimSpace(desc) == "" {
		logging.Trace(b.rc.Logger, "Waypoint without sidecar", "file", file, "id", id)
		return nil, nil
	}
	var p model.Point
	if err := model.DecodeStrict([]byte(desc), &p); err != nil {
		if errors.Is(err, model.ErrUnknownAttribute) {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		b.rc.Warn("Waypoint sidecar is not valid JSON", "file", file, "id", id, "error", err)
		return nil, nil
	}

	poiType := p.Type
	if poiType == "" {
		c, _ := ident.ParseWaypointName(id)
		poiType = c.Tag
	}
	if !normalize.IsPOIType(poiType) {
		logging.Trace(b.rc.Logger, "Waypoint is not a POI", "file", file, "id", id)
		return nil, nil
	}
	b.rc.AddPOIType(poiType)

	pt, err := wpt.Point()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	f, err := b.newFeature(poiType, id, "waypoint", pt)
	if err != nil {
		return nil, err
	}
	b.warnUnnamed(file, poiType, id, p.Name)

	b.setText(f, "name", p.Name)
	b.setText(f, "shortName", shortOrName(p.ShortName, p.Name))
	if len(p.ParentIDs) > 0 {
		for _, parent := range p.ParentIDs {
			if err := b.rc.IDs.Require(parent, "waypoint parentID"); err != nil {
				return nil, fmt.Errorf("%s: %w", id, err)
			}
		}
		b.set(f, "parentIDs", strings.Join(p.ParentIDs, ","))
	}
	b.setText(f, "url", p.URL)

	var dflt *bool
	if b.allowsDirections(poiType) {
		dflt = boolPtr(true)
	}
	b.setBool(f, "allowsDirections", p.AllowsDirections, dflt)
	if p.DirectionsCoordinate != nil {
		b.set(f, "directionsCoordinate", p.DirectionsCoordinate.Reversed())
	}
	b.setRaw(f, "visibilityConstraint", p.VisibilityConstraint)
	b.setRaw(f, "keywords", p.Keywords)
	b.setBool(f, "isSearchable", p.IsSearchable, nil)
	if v < 5 {
		b.setBool(f, "hideInListView", p.HideInListView, nil)
	}
	return f, nil
}
