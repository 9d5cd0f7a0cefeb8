package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailsroc/pkg/config"
	"trailsroc/pkg/db"
	"trailsroc/pkg/logging"
	"trailsroc/pkg/metrics"
	"trailsroc/pkg/model"
	"trailsroc/pkg/run"
	"trailsroc/pkg/store"
)

const abcDoc = `{
  "version": 5,
  "parks": {"park-abc": {"name": "ABC Park", "mainPin": [43.1, -77.5]}},
  "trails": {
    "trail-a": {"name": "Red Loop", "color": "red", "parentID": "park-abc", "SW": [43.0, -78.0], "NE": [44.0, -77.0]}
  }
}`

const abcGPX = `<gpx>
  <trk><name>border:park-abc</name><trkseg>
    <trkpt lat="0" lon="10"/><trkpt lat="1" lon="10"/><trkpt lat="1" lon="11"/><trkpt lat="0" lon="11"/>
  </trkseg></trk>
  <trk><name>seg:trail-a:0a0b0c0d</name><trkseg><trkpt lat="43" lon="-77"/><trkpt lat="43.1" lon="-77.1"/></trkseg></trk>
</gpx>`

const abcDocV4 = `{
  "version": 4,
  "parks": {"park-abc": {"name": "ABC Park", "mainPin": [43.1, -77.5], "hideInListView": true}},
  "trails": {"trail-a": {"name": "Red Loop", "color": "red", "parkID": "park-abc"}}
}`

const abcGPXV4 = `<gpx>
  <wpt lat="43.2" lon="-77.6"><name>point-parking:abc:01020304</name><desc>{"name":"Parking (North)","parentIDs":["park-abc"]}</desc></wpt>
  <trk><name>border:park-abc</name><trkseg><trkpt lat="0" lon="10"/><trkpt lat="1" lon="10"/></trkseg></trk>
</gpx>`

func writeSource(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644))
	}
	return dir
}

func testConfig(source, dest string, files ...string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.SourceDir = source
	cfg.DestDir = dest
	cfg.Files = files
	cfg.Bundle = ""
	return cfg
}

func openLedger(t *testing.T) store.Store {
	t.Helper()
	d, err := db.Init(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	s := store.NewSQLiteStore(d)
	t.Cleanup(func() { s.Close() })
	return s
}

func resetTrace(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { logging.EnableTrace = false })
}

func TestCheckDestination(t *testing.T) {
	source := t.TempDir()

	empty := t.TempDir()
	assert.NoError(t, CheckDestination(source, empty))

	macOS := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(macOS, ".DS_Store"), nil, 0o644))
	assert.NoError(t, CheckDestination(source, macOS))

	full := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(full, "abc.geojson"), nil, 0o644))
	assert.ErrorIs(t, CheckDestination(source, full), ErrDestNotEmpty)

	assert.ErrorIs(t, CheckDestination(source, filepath.Join(empty, "missing")), ErrDestMissing)
	assert.ErrorIs(t, CheckDestination(source, ""), ErrDestMissing)
	assert.ErrorIs(t, CheckDestination(source, source+string(filepath.Separator)), ErrDestIsSource)
}

func TestBuild_PerFile(t *testing.T) {
	source := writeSource(t, map[string]string{"abc.json": abcDoc, "abc.gpx": abcGPX})
	dest := t.TempDir()
	cfg := testConfig(source, dest, "abc")
	cfg.Metrics.Textfile = filepath.Join(t.TempDir(), "trailsroc.prom")
	ledger := openLedger(t)
	rc := run.New(nil, metrics.New("build", "test"))

	var out bytes.Buffer
	require.NoError(t, NewRunner(cfg, rc, ledger, &out).Build(context.Background()))
	assert.Empty(t, out.String())

	fc, err := geojson.UnmarshalFeatureCollection(mustRead(t, filepath.Join(dest, "abc.geojson")))
	require.NoError(t, err)
	var types []string
	for _, f := range fc.Features {
		types = append(types, f.Properties.MustString("trailsroc-type"))
	}
	assert.Equal(t, []string{"park", "trail", "trailSegment", "parkBorder"}, types)

	prom := string(mustRead(t, cfg.Metrics.Textfile))
	assert.Contains(t, prom, `trailsroc_documents_total{outcome="built"} 1`)
	assert.Contains(t, prom, `trailsroc_features_built_total{type="trailSegment"} 1`)

	ctx := context.Background()
	runs, err := ledger.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, rc.ID, runs[0].ID)
	assert.Equal(t, model.RunSucceeded, runs[0].Status)
	assert.Equal(t, 4, runs[0].Features)

	files, err := ledger.GetRunFiles(ctx, rc.ID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dest, "abc.geojson"), files[0].Output)
	assert.Len(t, files[0].Digest, 16)

	last, ok := ledger.GetState(ctx, store.LastRunKey("build"))
	assert.True(t, ok)
	assert.Equal(t, rc.ID, last)
}

func TestBuild_Stdout(t *testing.T) {
	source := writeSource(t, map[string]string{"abc.json": abcDoc, "abc.gpx": abcGPX})
	cfg := testConfig(source, "", "abc")
	cfg.Pretty = false

	var out bytes.Buffer
	require.NoError(t, NewRunner(cfg, run.New(nil, nil), nil, &out).Build(context.Background()))

	fc, err := geojson.UnmarshalFeatureCollection(bytes.TrimSpace(out.Bytes()))
	require.NoError(t, err)
	assert.Len(t, fc.Features, 4)
}

func TestBuild_DryRun(t *testing.T) {
	resetTrace(t)
	source := writeSource(t, map[string]string{"abc.json": abcDoc, "abc.gpx": abcGPX})
	dest := filepath.Join(t.TempDir(), "not-created")
	cfg := testConfig(source, dest, "abc")
	cfg.DryRun = true

	var out bytes.Buffer
	require.NoError(t, NewRunner(cfg, run.New(nil, nil), nil, &out).Build(context.Background()))
	assert.Equal(t, filepath.Join(dest, "abc.geojson")+"\n", out.String())
	assert.NoDirExists(t, dest)
	assert.True(t, logging.EnableTrace)

	cfg.DestDir = ""
	out.Reset()
	require.NoError(t, NewRunner(cfg, run.New(nil, nil), nil, &out).Build(context.Background()))
	assert.Contains(t, out.String(), `"parks": [`)
	assert.Contains(t, out.String(), `"park-abc"`)
}

func TestBuild_DryRunTraceAtDefaultLevel(t *testing.T) {
	resetTrace(t)
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var logs bytes.Buffer
	logCfg := config.DefaultConfig().Log
	logCfg.Path = ""
	cleanup, err := logging.Init(&logCfg, &logs)
	require.NoError(t, err)
	defer cleanup()

	source := writeSource(t, map[string]string{"abc.json": abcDoc, "abc.gpx": abcGPX})
	dest := filepath.Join(t.TempDir(), "out")
	cfg := testConfig(source, dest, "abc")
	cfg.DryRun = true

	var out bytes.Buffer
	require.NoError(t, NewRunner(cfg, run.New(nil, nil), nil, &out).Build(context.Background()))
	assert.Equal(t, "INFO", logCfg.Level)
	assert.Contains(t, logs.String(), `msg="Parsing JSON"`)
	assert.Contains(t, logs.String(), `msg="Parsing GPX"`)
	assert.Contains(t, logs.String(), `msg="Would write"`)
}

func TestBuild_FatalWritesNothing(t *testing.T) {
	source := writeSource(t, map[string]string{
		"abc.json": abcDoc,
		"abc.gpx":  abcGPX,
		"bad.json": `{"version": 5, "trails": {"trail-x": {"parentID": "park-missing"}}}`,
		"bad.gpx":  `<gpx/>`,
	})
	dest := t.TempDir()
	ledger := openLedger(t)
	rc := run.New(nil, nil)

	err := NewRunner(testConfig(source, dest, "abc", "bad"), rc, ledger, nil).Build(context.Background())
	require.Error(t, err)

	entries, readErr := os.ReadDir(dest)
	require.NoError(t, readErr)
	assert.Empty(t, entries)

	runs, listErr := ledger.ListRuns(context.Background(), 1)
	require.NoError(t, listErr)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunFailed, runs[0].Status)
	assert.Contains(t, runs[0].Error, "park-missing")
}

func TestBuild_DestinationGuard(t *testing.T) {
	source := writeSource(t, map[string]string{"abc.json": abcDoc, "abc.gpx": abcGPX})
	err := NewRunner(testConfig(source, source, "abc"), run.New(nil, nil), nil, nil).Build(context.Background())
	assert.ErrorIs(t, err, ErrDestIsSource)
}

func TestMigrate(t *testing.T) {
	source := writeSource(t, map[string]string{"abc.json": abcDocV4, "abc.gpx": abcGPXV4})
	dest := t.TempDir()
	ledger := openLedger(t)

	require.NoError(t, NewRunner(testConfig(source, dest, "abc"), run.New(nil, nil), ledger, nil).Migrate(context.Background(), 0))

	doc, err := model.LoadDocument(filepath.Join(dest, "abc.json"))
	require.NoError(t, err)
	assert.Equal(t, 5, doc.Version)
	park, ok := doc.Parks.Get("park-abc")
	require.True(t, ok)
	require.NotNil(t, park.IsSearchable)
	assert.False(t, *park.IsSearchable)
	trail, _ := doc.Trails.Get("trail-a")
	assert.Equal(t, "park-abc", trail.ParentID)
	assert.Empty(t, trail.ParkID)
	assert.FileExists(t, filepath.Join(dest, "abc.gpx"))

	// Feeding the output back is reported as skipped and writes nothing.
	again := t.TempDir()
	rc := run.New(nil, nil)
	require.NoError(t, NewRunner(testConfig(dest, again, "abc"), rc, ledger, nil).Migrate(context.Background(), 0))
	assert.True(t, rc.Skipped["abc"])
	assert.Equal(t, 1, rc.Warnings())
	entries, err := os.ReadDir(again)
	require.NoError(t, err)
	assert.Empty(t, entries)

	files, err := ledger.GetRunFiles(context.Background(), rc.ID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, OutcomeSkipped, files[0].Outcome)
}

func TestMigrate_DryRunPrintsDocuments(t *testing.T) {
	resetTrace(t)
	source := writeSource(t, map[string]string{"abc.json": abcDocV4, "abc.gpx": abcGPXV4})
	cfg := testConfig(source, "", "abc")
	cfg.DryRun = true

	var out bytes.Buffer
	require.NoError(t, NewRunner(cfg, run.New(nil, nil), nil, &out).Migrate(context.Background(), 5))
	assert.True(t, strings.HasPrefix(out.String(), "{"))
	assert.Contains(t, out.String(), `"version": 5`)
	assert.NotContains(t, out.String(), "<gpx")
}

func TestMigrate_Errors(t *testing.T) {
	source := writeSource(t, map[string]string{"abc.json": abcDocV4, "abc.gpx": abcGPXV4})

	err := NewRunner(testConfig(source, "", "abc"), run.New(nil, nil), nil, nil).Migrate(context.Background(), 0)
	assert.ErrorIs(t, err, ErrDestMissing)

	err = NewRunner(testConfig(source, t.TempDir(), "abc"), run.New(nil, nil), nil, nil).Migrate(context.Background(), 9)
	assert.Error(t, err)
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestImport_ThenBuild(t *testing.T) {
	park := filepath.Join(t.TempDir(), "Tryon")
	for name, data := range map[string]string{
		"park.json":    `{"park-tryon": {"name": "Tryon Park", "mainPin": [43.1, -77.5], "url": "https://example.org/tryon"}}`,
		"Boundary.gpx": `<gpx><trk><name>border:park-tryon</name><trkseg><trkpt lat="43" lon="-77"/><trkpt lat="43.2" lon="-77"/><trkpt lat="43.2" lon="-77.2"/></trkseg></trk></gpx>`,
		"POI.gpx":      `<gpx><wpt lat="43.1" lon="-77.1"><name>point-parking:tryon:0a0b0c0d</name><desc>{"name":"Lot","parentIDs":["park-tryon"]}</desc></wpt></gpx>`,
		"Red/red.gpx":  `<gpx><trk><name>Tryon - Red</name><trkseg><trkpt lat="43" lon="-77"><ele>90</ele></trkpt><trkpt lat="43.1" lon="-77.1"/></trkseg></trk></gpx>`,
	} {
		path := filepath.Join(park, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	}

	dest := t.TempDir()
	cfg := testConfig(t.TempDir(), dest)
	ledger := openLedger(t)
	rc := run.New(nil, nil)
	require.NoError(t, NewRunner(cfg, rc, ledger, nil).Import(context.Background(), []string{park}))
	assert.FileExists(t, filepath.Join(dest, "tryon.json"))
	assert.FileExists(t, filepath.Join(dest, "tryon.gpx"))

	files, err := ledger.GetRunFiles(context.Background(), rc.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, OutcomeImported, files[0].Outcome)
	assert.Equal(t, 1, files[0].Features)

	var out bytes.Buffer
	build := testConfig(dest, "", "tryon")
	require.NoError(t, NewRunner(build, run.New(nil, nil), nil, &out).Build(context.Background()))
	fc, err := geojson.UnmarshalFeatureCollection(bytes.TrimSpace(out.Bytes()))
	require.NoError(t, err)

	byType := map[string]*geojson.Feature{}
	for _, f := range fc.Features {
		byType[f.Properties.MustString("trailsroc-type")] = f
	}
	require.Contains(t, byType, "trail")
	assert.Equal(t, "red", byType["trail"].Properties.MustString("trailsroc-color"))
	assert.Greater(t, byType["trail"].Properties.MustFloat64("trailsroc-length"), 0.0)
	assert.Equal(t, "trails-tryon-red", byType["trailSegment"].Properties.MustString("trailsroc-trailIDs"))
	assert.Contains(t, byType, "parkBorder")
	assert.Contains(t, byType, "point-parking")
}
