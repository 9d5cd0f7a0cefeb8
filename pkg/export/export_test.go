package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailsroc/pkg/bundle"
)

func testCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	border := geojson.NewFeature(orb.Polygon{
		{{-77.7, 43.1}, {-77.6, 43.1}, {-77.6, 43.2}, {-77.7, 43.2}, {-77.7, 43.1}},
	})
	border.Properties["trailsroc-id"] = "park-abc"
	border.Properties["trailsroc-type"] = "park"
	border.Properties["trailsroc-name"] = "Abbott Park"
	fc.Append(border)

	seg := geojson.NewFeature(orb.LineString{{-77.68, 43.12}, {-77.65, 43.15}})
	seg.Properties["trailsroc-id"] = "seg:trail-a:abcd1234"
	seg.Properties["trailsroc-type"] = "trailSegment"
	seg.Properties["trailsroc-color"] = "red"
	fc.Append(seg)

	poi := geojson.NewFeature(orb.Point{-77.66, 43.13})
	poi.Properties["trailsroc-id"] = "point-parking:lot:1a2b3c4d"
	poi.Properties["trailsroc-type"] = "point-parking"
	poi.Properties["trailsroc-name"] = strings.Repeat("P", 100)
	fc.Append(poi)

	return fc
}

func TestKML(t *testing.T) {
	b, err := bundle.Parse([]byte(`{"appConfig":{"colors":{"red":{"hex":"#ff0000"}}}}`))
	require.NoError(t, err)

	var buf bytes.Buffer
	err = KML(&buf, testCollection(), KMLOptions{Name: "abc", Namespace: "trailsroc", Bundle: b})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `<Style id="color-red">`)
	assert.Contains(t, out, "<color>ff0000ff</color>")
	assert.Contains(t, out, "<styleUrl>#color-red</styleUrl>")
	assert.Contains(t, out, "<name>Abbott Park</name>")
	assert.Contains(t, out, "<name>seg:trail-a:abcd1234</name>", "unnamed features use their id")
	assert.Equal(t, 3, strings.Count(out, "<Folder>"))
	assert.Less(t, strings.Index(out, "<name>park</name>"), strings.Index(out, "<name>trailSegment</name>"))
}

func TestKML_UnsupportedGeometry(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.MultiPoint{{0, 0}}))
	err := KML(&bytes.Buffer{}, fc, KMLOptions{Namespace: "trailsroc"})
	assert.Error(t, err)
}

func TestShapefiles(t *testing.T) {
	dir := t.TempDir()
	paths, err := Shapefiles(dir, "abc", testCollection(), "trailsroc")
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "abc_points.shp"),
		filepath.Join(dir, "abc_lines.shp"),
		filepath.Join(dir, "abc_polygons.shp"),
	}, paths)

	r, err := shp.Open(paths[0])
	require.NoError(t, err)
	defer r.Close()

	require.True(t, r.Next())
	_, s := r.Shape()
	p, ok := s.(*shp.Point)
	require.True(t, ok)
	assert.InDelta(t, -77.66, p.X, 1e-9)
	assert.Equal(t, "point-parking:lot:1a2b3c4d", strings.TrimRight(r.ReadAttribute(0, 0), "\x00 "))
	assert.Len(t, strings.TrimRight(r.ReadAttribute(0, 2), "\x00 "), 80)
	assert.False(t, r.Next())
}

func TestShapefiles_SkipsEmptyLayers(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	f := geojson.NewFeature(orb.MultiLineString{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}}})
	f.Properties["trailsroc-id"] = "seg:trail-a:1"
	fc.Append(f)

	dir := t.TempDir()
	paths, err := Shapefiles(dir, "x", fc, "trailsroc")
	require.NoError(t, err)
	require.Len(t, paths, 1)

	r, err := shp.Open(paths[0])
	require.NoError(t, err)
	defer r.Close()
	require.True(t, r.Next())
	_, s := r.Shape()
	line, ok := s.(*shp.PolyLine)
	require.True(t, ok)
	assert.EqualValues(t, 2, line.NumParts)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Parking", 10, "Parking"},
		{"Parking", 4, "Park"},
		{"Côte", 2, "C"},
		{"Côte", 3, "Cô"},
		{"日本", 4, "日"},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		assert.Equal(t, tt.want, got, "truncate(%q, %d)", tt.in, tt.n)
		assert.True(t, utf8.ValidString(got))
	}
}
