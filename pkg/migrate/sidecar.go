package migrate

import (
	"encoding/json"
	"strings"

	"trailsroc/pkg/gpx"
	"trailsroc/pkg/model"
)

// readSidecar decodes a waypoint's desc. A missing or blank desc yields an
// empty record.
func readSidecar(w *gpx.Waypoint) (*model.Point, error) {
	p := new(model.Point)
	desc := w.Desc()
	if strings.TrimSpace(desc) == "" {
		return p, nil
	}
	if err := model.DecodeStrict([]byte(desc), p); err != nil {
		return nil, err
	}
	return p, nil
}

// writeSidecar stores p as the waypoint's desc.
func writeSidecar(w *gpx.Waypoint, p *model.Point, pretty bool) error {
	data, err := encodeSidecar(p, pretty)
	if err != nil {
		return err
	}
	w.SetDesc(string(data))
	return nil
}

func encodeSidecar(p *model.Point, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(p, "", "  ")
	}
	return json.Marshal(p)
}

// poiWaypoints yields waypoints whose name is a composite POI id.
func poiWaypoints(g *gpx.File) []*gpx.Waypoint {
	var out []*gpx.Waypoint
	for _, w := range g.Waypoints() {
		if name, ok := w.Name(); ok && strings.Contains(name, ":") {
			out = append(out, w)
		}
	}
	return out
}
