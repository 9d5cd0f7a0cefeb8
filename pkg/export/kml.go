// Package export writes built feature collections in formats other than
// GeoJSON.
package export

import (
	"fmt"
	"image/color"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-kml"

	"trailsroc/pkg/bundle"
	"trailsroc/pkg/geo"
)

// DefaultLineColor draws segments whose color is not in the bundle.
var DefaultLineColor = color.RGBA{R: 0x8d, G: 0x8d, B: 0x8d, A: 0xff}

// KMLOptions configure KML output.
type KMLOptions struct {
	Name      string
	Namespace string
	Bundle    *bundle.Bundle // may be nil
	LineWidth float64
}

// KML writes fc as a KML document with one folder per feature type.
// Segments are styled with their first color; polygons carry a label
// point at the center of their outer ring.
func KML(w io.Writer, fc *geojson.FeatureCollection, opts KMLOptions) error {
	if opts.LineWidth <= 0 {
		opts.LineWidth = 3
	}
	prop := func(f *geojson.Feature, key string) string {
		return geo.StringProp(f.Properties, opts.Namespace+"-"+key)
	}

	doc := kml.Document(kml.Name(opts.Name))
	styles := map[string]bool{}
	folders := map[string]*kml.CompoundElement{}
	var order []string

	for _, f := range fc.Features {
		geom, err := kmlGeometry(f.Geometry)
		if err != nil {
			return fmt.Errorf("%s: %w", prop(f, "id"), err)
		}

		name := prop(f, "name")
		if name == "" {
			name = prop(f, "id")
		}
		pm := kml.Placemark(kml.Name(name), kml.Description(prop(f, "id")))

		if c := prop(f, "color"); c != "" {
			styleID := "color-" + c
			if !styles[styleID] {
				styles[styleID] = true
				rgba := opts.Bundle.RGBA(c, DefaultLineColor)
				doc.Add(kml.SharedStyle(styleID, kml.LineStyle(kml.Color(rgba), kml.Width(opts.LineWidth))))
			}
			pm.Add(kml.StyleURL("#" + styleID))
		}
		pm.Add(geom)

		typ := prop(f, "type")
		folder, ok := folders[typ]
		if !ok {
			folder = kml.Folder(kml.Name(typ))
			folders[typ] = folder
			order = append(order, typ)
		}
		folder.Add(pm)
	}

	for _, typ := range order {
		doc.Add(folders[typ])
	}
	return kml.KML(doc).WriteIndent(w, "", "  ")
}

func kmlGeometry(g orb.Geometry) (kml.Element, error) {
	switch g := g.(type) {
	case orb.Point:
		return kml.Point(kml.Coordinates(coord(g))), nil
	case orb.LineString:
		return kml.LineString(kml.Coordinates(coords(g)...)), nil
	case orb.MultiLineString:
		lines := make([]kml.Element, 0, len(g))
		for _, ls := range g {
			lines = append(lines, kml.LineString(kml.Coordinates(coords(ls)...)))
		}
		return kml.MultiGeometry(lines...), nil
	case orb.Polygon:
		if len(g) == 0 {
			return nil, fmt.Errorf("empty polygon")
		}
		poly := kml.Polygon(kml.OuterBoundaryIs(kml.LinearRing(kml.Coordinates(coords(g[0])...))))
		for _, inner := range g[1:] {
			poly.Add(kml.InnerBoundaryIs(kml.LinearRing(kml.Coordinates(coords(inner)...))))
		}
		label := kml.Point(kml.Coordinates(coord(geo.CenterOfList(g[0]))))
		return kml.MultiGeometry(poly, label), nil
	default:
		return nil, fmt.Errorf("unsupported geometry %T", g)
	}
}

func coord(p orb.Point) kml.Coordinate {
	return kml.Coordinate{Lon: p.Lon(), Lat: p.Lat()}
}

func coords[T ~[]orb.Point](pts T) []kml.Coordinate {
	out := make([]kml.Coordinate, 0, len(pts))
	for _, p := range pts {
		out = append(out, coord(p))
	}
	return out
}
