package migrate

import (
	"fmt"

	"trailsroc/pkg/gpx"
	"trailsroc/pkg/model"
)

// parentIDsDocument drops trail trailheads. Inline points must already
// have moved to the GPX companion.
func parentIDsDocument(m *Migrator, file string, doc *model.Document) (*model.Document, error) {
	if doc.Points.Len() > 0 {
		return nil, ErrInlinePoints
	}
	doc.Points = nil
	err := doc.Trails.Each(func(_ string, trail *model.Trail) error {
		trail.Trailheads = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// parentIDsGPX folds parkID and trailID into parentIDs on every POI waypoint.
func parentIDsGPX(m *Migrator, file string, g *gpx.File) error {
	for _, w := range poiWaypoints(g) {
		p, err := readSidecar(w)
		if err != nil {
			name, _ := w.Name()
			return fmt.Errorf("waypoint %s: %w", name, err)
		}
		if p.ParkID != "" {
			p.ParentIDs = append(p.ParentIDs, p.ParkID)
		}
		if p.TrailID != "" {
			p.ParentIDs = append(p.ParentIDs, p.TrailID)
		}
		p.ParkID, p.TrailID = "", ""
		if err := writeSidecar(w, p, true); err != nil {
			return err
		}
	}
	return nil
}
