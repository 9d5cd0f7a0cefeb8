package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailsroc/pkg/ident"
	"trailsroc/pkg/model"
	"trailsroc/pkg/run"
)

var testColors = []string{"blue", "red"}

const (
	tryonPark     = `{"park-tryon": {"name": "Tryon Park", "mainPin": [43.1, -77.5], "url": "https://example.org/tryon"}}`
	tryonBoundary = `<gpx><trk><name>border:park-tryon</name><trkseg>
		<trkpt lat="0" lon="0"><ele>5</ele></trkpt><trkpt lat="1" lon="0"/><trkpt lat="1" lon="1"/>
	</trkseg></trk></gpx>`
	tryonPOI = `<gpx><wpt lat="0.5" lon="0.5"><name>point-parking:tryon:0a0b0c0d</name><desc>{"name":"Lot"}</desc></wpt></gpx>`
	redLoop  = `<gpx>
		<trk><name>Tryon - Red Loop</name><trkseg><trkpt lat="0" lon="0"><ele>10</ele></trkpt><trkpt lat="1" lon="0"/></trkseg></trk>
		<trk><trkseg><trkpt lat="0" lon="0"/><trkpt lat="1" lon="0"/></trkseg></trk>
	</gpx>`
	blueLine = `<gpx><trk><name>Blue</name><trkseg><trkpt lat="0.2" lon="0.1"/><trkpt lat="0.3" lon="0.4"/></trkseg></trk></gpx>`
)

func writePark(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "Tryon")
	for name, data := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	}
	return dir
}

func tryonFiles() map[string]string {
	return map[string]string{
		"park.json":        tryonPark,
		"Boundary.gpx":     tryonBoundary,
		"POI.gpx":          tryonPOI,
		"Red/loop.gpx":     redLoop,
		"Blue/blue.gpx":    blueLine,
		"Sketches/old.gpx": blueLine,
	}
}

func TestPark(t *testing.T) {
	rc := run.New(nil, nil)
	res, err := Park(rc, writePark(t, tryonFiles()), Options{Colors: testColors})
	require.NoError(t, err)

	assert.Equal(t, "tryon", res.Name)
	assert.Equal(t, 5, res.Doc.Version)
	assert.Equal(t, 0, res.Doc.TrailSystems.Len())
	assert.Equal(t, []string{"park-tryon"}, res.Doc.Parks.Keys())
	assert.Equal(t, []string{"trails-tryon-blue", "trails-tryon-red_loop"}, res.Doc.Trails.Keys())

	red, _ := res.Doc.Trails.Get("trails-tryon-red_loop")
	assert.Equal(t, "Tryon - Red Loop", red.Name)
	assert.Equal(t, "red", red.Color)
	assert.Equal(t, "park-tryon", red.ParentID)
	assert.Equal(t, "https://example.org/tryon", red.URL)
	assert.Equal(t, model.LatLng{0, 0}, *red.SW)
	assert.Equal(t, model.LatLng{1, 0}, *red.NE)
	require.NotNil(t, red.Length)
	assert.InDelta(t, 69.1, *red.Length, 0.15, "one degree of latitude in miles")

	tracks := res.GPX.Tracks()
	require.Len(t, tracks, 3)
	name, _ := tracks[0].Name()
	assert.Equal(t, "border:park-tryon", name)
	name, _ = tracks[2].Name()
	assert.Regexp(t, `^seg:trails-tryon-red_loop:[0-9a-f]{8}$`, name)
	c, err := ident.ParseTrackName(name)
	require.NoError(t, err)
	assert.True(t, rc.IDs.Exists(c.Discriminator))

	require.Len(t, res.GPX.Waypoints(), 1)
	data, err := res.GPX.Bytes()
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "<ele>"))

	assert.Equal(t, 1, rc.Warnings(), "the unnamed track is skipped")
}

func TestPark_Errors(t *testing.T) {
	tests := []struct {
		name  string
		patch map[string]string
		want  error
	}{
		{
			name:  "no park record",
			patch: map[string]string{"park.json": `{"trailhead-x": {"mainPin": [0, 0]}}`},
			want:  ErrNoPark,
		},
		{
			name:  "park id does not match directory",
			patch: map[string]string{"park.json": `{"park-other": {"mainPin": [0, 0]}}`},
			want:  ident.ErrUnknownID,
		},
		{
			name:  "duplicate trail key",
			patch: map[string]string{"Red/again.gpx": `<gpx><trk><name>Red Loop</name><trkseg><trkpt lat="0" lon="0"/><trkpt lat="1" lon="1"/></trkseg></trk></gpx>`},
			want:  ident.ErrDuplicateID,
		},
		{
			name:  "unknown park attribute",
			patch: map[string]string{"park.json": `{"park-tryon": {"mainPin": [0, 0], "acres": 5}}`},
			want:  model.ErrUnknownAttribute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := tryonFiles()
			for k, v := range tt.patch {
				files[k] = v
			}
			_, err := Park(run.New(nil, nil), writePark(t, files), Options{Colors: testColors})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTrackKey(t *testing.T) {
	tests := map[string]string{
		"Tryon - Red Loop":   "red_loop",
		"Blue":               "blue",
		"Park - Main - East": "main",
		"Lake Trail":         "lake_trail",
	}
	for in, want := range tests {
		assert.Equal(t, want, TrackKey(in), in)
	}
}
