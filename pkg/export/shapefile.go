package export

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"trailsroc/pkg/geo"
)

// Shapefile attribute columns. dBASE limits names to 10 characters.
var shapeFields = []shp.Field{
	shp.StringField("ID", 80),
	shp.StringField("TYPE", 40),
	shp.StringField("NAME", 80),
}

type shapeLayer struct {
	suffix string
	kind   shp.ShapeType
	shape  func(orb.Geometry) (shp.Shape, bool)
}

var shapeLayers = []shapeLayer{
	{suffix: "points", kind: shp.POINT, shape: pointShape},
	{suffix: "lines", kind: shp.POLYLINE, shape: lineShape},
	{suffix: "polygons", kind: shp.POLYGON, shape: polygonShape},
}

// Shapefiles writes fc as up to three shapefiles in dir, one per geometry
// kind present: <base>_points, <base>_lines and <base>_polygons. It
// returns the .shp paths written.
func Shapefiles(dir, base string, fc *geojson.FeatureCollection, namespace string) ([]string, error) {
	var written []string
	for _, layer := range shapeLayers {
		var feats []*geojson.Feature
		var shapes []shp.Shape
		for _, f := range fc.Features {
			if s, ok := layer.shape(f.Geometry); ok {
				feats = append(feats, f)
				shapes = append(shapes, s)
			}
		}
		if len(shapes) == 0 {
			continue
		}

		path := filepath.Join(dir, base+"_"+layer.suffix+".shp")
		if err := writeLayer(path, layer.kind, feats, shapes, namespace); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeLayer(path string, kind shp.ShapeType, feats []*geojson.Feature, shapes []shp.Shape, namespace string) error {
	w, err := shp.Create(path, kind)
	if err != nil {
		return fmt.Errorf("failed to create shapefile: %w", err)
	}
	defer w.Close()

	if err := w.SetFields(shapeFields); err != nil {
		return fmt.Errorf("failed to set fields: %w", err)
	}
	for i, s := range shapes {
		row := int(w.Write(s))
		props := feats[i].Properties
		values := []string{
			geo.StringProp(props, namespace+"-id"),
			geo.StringProp(props, namespace+"-type"),
			geo.StringProp(props, namespace+"-name"),
		}
		for col, v := range values {
			if err := w.WriteAttribute(row, col, truncate(v, int(shapeFields[col].Size))); err != nil {
				return fmt.Errorf("failed to write attribute: %w", err)
			}
		}
	}
	return nil
}

func pointShape(g orb.Geometry) (shp.Shape, bool) {
	p, ok := g.(orb.Point)
	if !ok {
		return nil, false
	}
	return &shp.Point{X: p.Lon(), Y: p.Lat()}, true
}

func lineShape(g orb.Geometry) (shp.Shape, bool) {
	switch g := g.(type) {
	case orb.LineString:
		return shp.NewPolyLine([][]shp.Point{shpPoints(g)}), true
	case orb.MultiLineString:
		parts := make([][]shp.Point, 0, len(g))
		for _, ls := range g {
			parts = append(parts, shpPoints(ls))
		}
		return shp.NewPolyLine(parts), true
	}
	return nil, false
}

func polygonShape(g orb.Geometry) (shp.Shape, bool) {
	poly, ok := g.(orb.Polygon)
	if !ok || len(poly) == 0 {
		return nil, false
	}
	parts := make([][]shp.Point, 0, len(poly))
	for _, ring := range poly {
		parts = append(parts, shpPoints(ring))
	}
	s := shp.Polygon(*shp.NewPolyLine(parts))
	return &s, true
}

func shpPoints[T ~[]orb.Point](pts T) []shp.Point {
	out := make([]shp.Point, 0, len(pts))
	for _, p := range pts {
		out = append(out, shp.Point{X: p.Lon(), Y: p.Lat()})
	}
	return out
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
