// Package feature turns parsed source records into namespaced GeoJSON
// features.
package feature

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"trailsroc/pkg/normalize"
	"trailsroc/pkg/run"
)

// Feature types.
const (
	TypePark         = "park"
	TypeTrailSystem  = "trailSystem"
	TypeTrail        = "trail"
	TypeTrailSegment = "trailSegment"
	TypeParkBorder   = "parkBorder"
)

// Options tune the builder.
type Options struct {
	Namespace        string
	DataVersion      int // newest accepted document version
	Surfaces         map[string]string
	DefaultSurface   string
	AllowsDirections []string
	MaxColors        int
	Precision        int // output coordinate decimals, 0 keeps authored values
}

// Builder converts one run's documents and GPX files into features.
// Documents must go through Containers before Trails, and all documents
// before any GPX file, so every parent is registered before it is referenced.
type Builder struct {
	rc       *run.Context
	opts     Options
	versions map[string]int
}

// NewBuilder creates a builder bound to rc.
func NewBuilder(rc *run.Context, opts Options) *Builder {
	if opts.Namespace == "" {
		opts.Namespace = "trailsroc"
	}
	if opts.MaxColors <= 0 {
		opts.MaxColors = 3
	}
	if opts.DefaultSurface == "" {
		opts.DefaultSurface = "singletrack"
	}
	return &Builder{rc: rc, opts: opts, versions: make(map[string]int)}
}

// Key returns the namespaced property key for short.
func (b *Builder) Key(short string) string {
	return b.opts.Namespace + "-" + short
}

// version returns the data version recorded for file, defaulting to the
// newest accepted version for GPX files without a document.
func (b *Builder) version(file string) int {
	if v, ok := b.versions[file]; ok {
		return v
	}
	return b.opts.DataVersion
}

func (b *Builder) checkVersion(file string, v int) error {
	if v != 4 && v != b.opts.DataVersion {
		return fmt.Errorf("%w for %s.json: %d", ErrIncompatibleVersion, file, v)
	}
	b.versions[file] = v
	return nil
}

// newFeature registers id and creates a feature with its type and id set.
func (b *Builder) newFeature(typ, id, ctx string, geom orb.Geometry) (*geojson.Feature, error) {
	if _, err := b.rc.IDs.Register(id, ctx); err != nil {
		return nil, err
	}
	if geom != nil && b.opts.Precision > 0 {
		geom = orb.Round(geom, int(math.Pow10(b.opts.Precision)))
	}
	f := geojson.NewFeature(geom)
	f.Properties[b.Key("type")] = typ
	f.Properties[b.Key("id")] = id
	b.rc.Metrics.Feature(typ)
	return f, nil
}

// set stores a namespaced property.
func (b *Builder) set(f *geojson.Feature, short string, v any) {
	f.Properties[b.Key(short)] = v
}

// setText stores a namespaced string property unless it is blank.
func (b *Builder) setText(f *geojson.Feature, short, v string) {
	if !normalize.Blank(v) {
		b.set(f, short, v)
	}
}

// setBool stores an explicit flag, or dflt when the flag is unset.
func (b *Builder) setBool(f *geojson.Feature, short string, v *bool, dflt *bool) {
	switch {
	case v != nil:
		b.set(f, short, *v)
	case dflt != nil:
		b.set(f, short, *dflt)
	}
}

// warnUnnamed reports a park, trail or POI that has no name.
func (b *Builder) warnUnnamed(file, typ, id, name string) {
	if normalize.Blank(name) {
		b.rc.Warn("Feature has no name", "file", file, "type", typ, "id", id)
	}
}

// setRaw stores an opaque JSON value when present.
func (b *Builder) setRaw(f *geojson.Feature, short string, raw []byte) {
	if len(raw) > 0 && string(raw) != "null" {
		b.set(f, short, json.RawMessage(raw))
	}
}

func (b *Builder) surfaceOf(trailID string) string {
	if s, ok := b.opts.Surfaces[trailID]; ok {
		return s
	}
	return b.opts.DefaultSurface
}

func (b *Builder) allowsDirections(poiType string) bool {
	return slices.Contains(b.opts.AllowsDirections, poiType)
}

func shortOrName(short, name string) string {
	if normalize.Blank(short) {
		return name
	}
	return short
}

func boolPtr(v bool) *bool { return &v }
