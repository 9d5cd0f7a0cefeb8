package run

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailsroc/pkg/metrics"
	"trailsroc/pkg/model"
)

func TestContext_Warn(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	rec := metrics.New("build", "test")

	c := New(logger, rec)
	c.Warn("route or track with no name", "file", "abe")
	c.Warn("POI without name", "file", "abe", "id", "point-poi:abe:01020304")

	assert.Equal(t, 2, c.Warnings())
	assert.Contains(t, buf.String(), "route or track with no name")
	assert.Contains(t, buf.String(), "run="+c.ID[:8])

	n, err := testutil.GatherAndCount(rec.Registry(), "trailsroc_warnings_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestContext_Summary(t *testing.T) {
	c := New(nil, nil)
	c.Parks["park-b"] = &model.Park{}
	c.Parks["park-a"] = &model.Park{}
	c.Trails["trail-a"] = &model.Trail{}
	c.AddPOIType("point-parking")
	c.AddPOIType("point-parking")
	c.AddPOIType("point-shelter")
	c.Skipped["abe"] = true
	_, _ = c.IDs.Register("park-a", "test")

	s := c.Summary()
	assert.Equal(t, []string{"park-a", "park-b"}, s.Parks)
	assert.Nil(t, s.TrailSystems)
	assert.Equal(t, []string{"point-parking", "point-shelter"}, s.POITypes)
	assert.Equal(t, []string{"abe"}, s.Skipped)
	assert.Equal(t, 1, s.IDs)
	assert.True(t, strings.HasPrefix(s.String(), "2 parks, 0 trail systems, 1 trails"))
}

func TestNew_FreshRegistryPerRun(t *testing.T) {
	a := New(nil, nil)
	b := New(nil, nil)
	_, err := a.IDs.Register("park-a", "test")
	require.NoError(t, err)
	assert.False(t, b.IDs.Exists("park-a"))
	assert.NotEqual(t, a.ID, b.ID)
}
