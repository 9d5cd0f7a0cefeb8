package migrate

import (
	"errors"
	"fmt"
	"strings"

	"trailsroc/pkg/gpx"
	"trailsroc/pkg/model"
	"trailsroc/pkg/normalize"
)

func shortNamesDocument(m *Migrator, file string, doc *model.Document) (*model.Document, error) {
	return doc, nil
}

// shortNamesGPX derives a shortName for named POIs that lack one.
func shortNamesGPX(m *Migrator, file string, g *gpx.File) error {
	for _, w := range poiWaypoints(g) {
		id, _ := w.Name()
		p, err := readSidecar(w)
		if err != nil {
			return fmt.Errorf("waypoint %s: %w", id, err)
		}
		if !normalize.Blank(p.Name) && normalize.Blank(p.ShortName) {
			poiType, _, _ := strings.Cut(id, ":")
			short, ok, err := normalize.ShortName(p.Name, poiType)
			switch {
			case errors.Is(err, normalize.ErrShortNameManual):
				m.rc.Warn("Check name", "name", p.Name, "id", id, "file", file)
			case err != nil:
				m.rc.Warn("Failed to generate shortName", "error", err, "id", id, "file", file)
			case ok:
				p.ShortName = short
			}
		}
		if err := writeSidecar(w, p, false); err != nil {
			return err
		}
	}
	return nil
}
