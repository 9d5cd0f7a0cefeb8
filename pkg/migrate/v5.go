package migrate

import (
	"fmt"
	"slices"

	"trailsroc/pkg/gpx"
	"trailsroc/pkg/ident"
	"trailsroc/pkg/model"
	"trailsroc/pkg/normalize"
)

const styleTrailSystem = "trailSystem"

// trailSystemsDocument promotes the configured parks to trail systems,
// rewires trail parents and replaces hideInListView with isSearchable.
func trailSystemsDocument(m *Migrator, file string, doc *model.Document) (*model.Document, error) {
	ts := m.tables.TrailSystems
	out := &model.Document{TrailSystems: model.NewCollection[model.TrailSystem]()}

	if doc.Parks != nil {
		out.Parks = model.NewCollection[model.Park]()
		err := doc.Parks.Each(func(id string, park *model.Park) error {
			if park.HideInListView != nil {
				park.IsSearchable = model.BoolPtr(!*park.HideInListView)
			}
			park.HideInListView = nil
			park.VisibilityConstraint = nil
			if systemID, ok := ts.Promote[id]; ok {
				park.IsSearchable = model.BoolPtr(true)
				out.TrailSystems.Set(systemID, park)
				m.rc.TrailSystems[systemID] = park
				return nil
			}
			out.Parks.Set(id, park)
			m.rc.Parks[id] = park
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if doc.Trails != nil {
		out.Trails = model.NewCollection[model.Trail]()
		err := doc.Trails.Each(func(id string, trail *model.Trail) error {
			if trail.HideInListView != nil {
				return fmt.Errorf("%w: trail %s", ErrHiddenFlag, id)
			}
			trail.VisibilityConstraint = nil

			parent, reassigned := ts.Reassign[id]
			if reassigned {
				if !slices.Contains(ts.Blazed, id) {
					trail.Blazes = "none"
				}
			} else {
				parent = trail.ParkID
				if systemID, ok := ts.Promote[parent]; ok {
					parent = systemID
				}
			}
			styled := slices.Contains(ts.Styled, id)
			if styled {
				trail.Style = styleTrailSystem
				if trail.IsPrimary == nil {
					trail.IsPrimary = model.BoolPtr(!normalize.Blank(trail.Name))
				}
			}
			trail.ParkID = ""
			trail.ParentID = parent
			out.Trails.Set(id, trail)
			m.rc.Trails[id] = trail
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// trailSystemsGPX moves borders of promoted parks to their trail system and
// rewrites POI parents. A POI under a reassigned trail also gets the
// trail's system as a parent.
func trailSystemsGPX(m *Migrator, file string, g *gpx.File) error {
	ts := m.tables.TrailSystems

	for _, track := range g.Tracks() {
		name, ok := track.Name()
		if !ok {
			continue
		}
		c, err := ident.ParseTrackName(name)
		if err != nil {
			return err
		}
		if c.Kind != ident.KindBorder && c.Kind != ident.KindInnerBorder {
			continue
		}
		if systemID, ok := ts.Promote[c.ParentRef]; ok {
			track.SetName(ident.BorderName(systemID, c.Kind == ident.KindInnerBorder))
		}
	}

	for _, w := range poiWaypoints(g) {
		id, _ := w.Name()
		p, err := readSidecar(w)
		if err != nil {
			return fmt.Errorf("waypoint %s: %w", id, err)
		}
		if p.HideInListView != nil {
			return fmt.Errorf("%w: POI %s", ErrHiddenFlag, id)
		}
		if p.ParentIDs != nil {
			p.ParentIDs = reparent(p.ParentIDs, ts.Promote, ts.Reassign)
		}
		if err := writeSidecar(w, p, false); err != nil {
			return err
		}
	}
	return nil
}

// reparent maps promoted parks to their system and appends the system of
// every reassigned trail, once.
func reparent(parents []string, promote, reassign map[string]string) []string {
	out := make([]string, 0, len(parents)+1)
	for _, id := range parents {
		if systemID, ok := promote[id]; ok {
			id = systemID
		}
		out = append(out, id)
	}
	for _, id := range out[:len(parents)] {
		if systemID, ok := reassign[id]; ok && !slices.Contains(out, systemID) {
			out = append(out, systemID)
		}
	}
	return out
}
