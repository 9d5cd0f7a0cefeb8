package migrate

import (
	"fmt"
	"slices"
	"strings"

	"trailsroc/pkg/gpx"
	"trailsroc/pkg/ident"
	"trailsroc/pkg/model"
	"trailsroc/pkg/normalize"
)

// rawPOITypes are the first name tokens that mark a v1 waypoint as a POI.
var rawPOITypes = []string{
	"admin", "boat_launch", "campsite", "intersection", "lodge", "parking",
	"poi", "restroom", "scenic", "shelter", "sports",
}

// standardizeDocument prefixes and registers park and trail ids, folds the
// trail prototype into every trail and moves inline points out of the
// document. Points are queued for the GPX companion unless that file
// already carries them as waypoints.
func standardizeDocument(m *Migrator, file string, doc *model.Document) (*model.Document, error) {
	out := &model.Document{}
	ids := m.rc.IDs

	if doc.Parks != nil {
		out.Parks = model.NewCollection[model.Park]()
		err := doc.Parks.Each(func(oldID string, park *model.Park) error {
			id, err := ids.Register(normalize.ParkID(oldID), "park")
			if err != nil {
				return err
			}
			out.Parks.Set(id, park)
			m.rc.Parks[id] = park
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	defaultPark := ""
	if out.Parks.Len() == 1 {
		defaultPark = out.Parks.Keys()[0]
		m.rc.DefaultPark[file] = defaultPark
	}

	if doc.Trails != nil {
		proto, _ := doc.Trails.Get(model.PrototypeKey)
		out.Trails = model.NewCollection[model.Trail]()
		err := doc.Trails.Each(func(oldID string, trail *model.Trail) error {
			if oldID == model.PrototypeKey {
				return nil
			}
			id, err := ids.Register(normalize.TrailID(oldID), "trail")
			if err != nil {
				return err
			}
			trail.MergeDefaults(proto)
			if trail.LegacyParkID != "" {
				trail.ParkID = normalize.ParkID(trail.LegacyParkID)
				trail.LegacyParkID = ""
			}
			out.Trails.Set(id, trail)
			m.rc.Trails[id] = trail
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if doc.Points != nil {
		carried := slices.Contains(m.tables.GPXWithPOIWaypoints, file)
		for i, p := range doc.Points.Items {
			if normalize.Blank(p.Type) {
				return nil, fmt.Errorf("%w: points[%d] has no type", model.ErrMalformed, i)
			}
			p.Type = normalize.POIType(p.Type)
			m.rc.AddPOIType(p.Type)
			suffix, err := ids.RandomID()
			if err != nil {
				return nil, err
			}
			p.ID = ident.POIID(p.Type, file, suffix)
			p.Name = normalize.POIName(p.Name, p.Type)
			if err := m.standardizeParents(p, defaultPark); err != nil {
				return nil, fmt.Errorf("%s: %w", p.ID, err)
			}
			if p.Name == "" {
				m.rc.Warn("POI without name", "file", file, "id", p.ID)
			}
			if !carried {
				m.rc.PendingPOIs[file] = append(m.rc.PendingPOIs[file], p)
			}
		}
	}
	return out, nil
}

// standardizeParents moves the v1 parkId/trailId pair onto parkID/trailID,
// falling back to the file's only park.
func (m *Migrator) standardizeParents(p *model.Point, defaultPark string) error {
	park := p.ParkID
	if p.LegacyParkID != "" {
		park = normalize.ParkID(p.LegacyParkID)
	}
	if park == "" {
		park = defaultPark
	}
	trail := p.TrailID
	if p.LegacyTrailID != "" {
		trail = normalize.TrailID(p.LegacyTrailID)
	}
	p.LegacyParkID, p.LegacyTrailID = "", ""
	p.ParkID, p.TrailID = park, trail
	if park == "" && trail == "" {
		return ErrParentless
	}
	return nil
}

// standardizeGPX renames borders and segments to composite names, turns
// recognized waypoints into POIs and appends the points queued by
// standardizeDocument.
func standardizeGPX(m *Migrator, file string, g *gpx.File) error {
	ids := m.rc.IDs

	for _, track := range g.Tracks() {
		name, ok := track.Name()
		if !ok {
			continue
		}
		c, err := ident.ParseTrackName(name)
		if err != nil {
			return err
		}
		switch c.Kind {
		case ident.KindBorder, ident.KindInnerBorder:
			park := normalize.ParkID(c.ParentRef)
			if err := ids.Require(park, "border park"); err != nil {
				return fmt.Errorf("park not found for %s: %w", name, err)
			}
			track.SetName(ident.BorderName(park, c.Kind == ident.KindInnerBorder))
		case ident.KindSegment:
			trailIDs := c.TrailIDs()
			for i, id := range trailIDs {
				trailIDs[i] = normalize.TrailID(id)
				if err := ids.Require(trailIDs[i], "segment trail"); err != nil {
					return fmt.Errorf("trail not found in track %s: %w", name, err)
				}
			}
			suffix := c.Discriminator
			if suffix == "" {
				if suffix, err = ids.RandomID(); err != nil {
					return err
				}
			}
			track.SetName(ident.SegmentName(trailIDs, suffix))
		}
	}

	defaultPark := m.rc.DefaultPark[file]
	for _, w := range g.Waypoints() {
		name, ok := w.Name()
		if !ok {
			continue
		}
		tokens := strings.Split(name, ":")
		if !slices.Contains(rawPOITypes, tokens[0]) {
			continue
		}
		p, err := readSidecar(w)
		if err != nil {
			return fmt.Errorf("waypoint %s: %w", name, err)
		}

		poiType := normalize.POIType(tokens[0])
		m.rc.AddPOIType(poiType)
		suffix, err := ids.RandomID()
		if err != nil {
			return err
		}
		id := ident.POIID(poiType, file, suffix)

		if normalize.Blank(p.Name) {
			raw := ""
			if len(tokens) > 1 {
				raw = tokens[1]
			}
			p.Name = normalize.POIName(raw, poiType)
		}
		if err := m.standardizeParents(p, defaultPark); err != nil {
			return fmt.Errorf("waypoint %s: %w", name, err)
		}
		if p.Name == "" {
			m.rc.Warn("POI without name", "file", file+".gpx", "waypoint", name)
		}

		w.SetName(id)
		if err := writeSidecar(w, p, true); err != nil {
			return err
		}
	}

	for _, p := range m.rc.PendingPOIs[file] {
		if p.Loc == nil {
			return fmt.Errorf("%w: POI %s has no loc", model.ErrMalformed, p.ID)
		}
		loc := *p.Loc
		p.Loc = nil
		data, err := encodeSidecar(p, true)
		if err != nil {
			return err
		}
		g.AddWaypoint(loc.Lat(), loc.Lng(), p.ID, string(data))
	}
	delete(m.rc.PendingPOIs, file)
	return nil
}
