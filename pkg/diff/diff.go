// Package diff compares two feature collections by feature id.
package diff

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/geojson"
)

// GeometryDecimals is the precision at which geometries are compared.
// Coordinates that differ by less than about 1e-6 count as equal.
const GeometryDecimals = 6

// Change lists what differs between two features sharing an id.
type Change struct {
	ID       string
	Keys     []string // property keys added, removed or changed
	Geometry bool
}

// Report is the result of comparing collection A with collection B.
type Report struct {
	OnlyA   []string
	OnlyB   []string
	Changed []Change
}

// Empty reports whether the collections matched.
func (r Report) Empty() bool {
	return len(r.OnlyA) == 0 && len(r.OnlyB) == 0 && len(r.Changed) == 0
}

// Compare matches features by their namespaced id property. Features
// without an id are ignored; when an id repeats, the first feature wins.
func Compare(a, b *geojson.FeatureCollection, namespace string) Report {
	idKey := namespace + "-id"
	ia, orderA := index(a, idKey)
	ib, orderB := index(b, idKey)

	var r Report
	for _, id := range orderA {
		fb, ok := ib[id]
		if !ok {
			r.OnlyA = append(r.OnlyA, id)
			continue
		}
		fa := ia[id]
		c := Change{ID: id, Keys: changedKeys(fa.Properties, fb.Properties)}
		c.Geometry = Fingerprint(fa.Geometry) != Fingerprint(fb.Geometry)
		if len(c.Keys) > 0 || c.Geometry {
			r.Changed = append(r.Changed, c)
		}
	}
	for _, id := range orderB {
		if _, ok := ia[id]; !ok {
			r.OnlyB = append(r.OnlyB, id)
		}
	}
	return r
}

func index(fc *geojson.FeatureCollection, idKey string) (map[string]*geojson.Feature, []string) {
	m := make(map[string]*geojson.Feature)
	var order []string
	if fc == nil {
		return m, order
	}
	for _, f := range fc.Features {
		id, ok := f.Properties[idKey].(string)
		if !ok || id == "" {
			continue
		}
		if _, dup := m[id]; dup {
			continue
		}
		m[id] = f
		order = append(order, id)
	}
	return m, order
}

func changedKeys(a, b geojson.Properties) []string {
	var keys []string
	for k, va := range a {
		vb, ok := b[k]
		if !ok || !reflect.DeepEqual(va, vb) {
			keys = append(keys, k)
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Fingerprint hashes a geometry after rounding it to GeometryDecimals.
// A nil geometry hashes to 0.
func Fingerprint(g orb.Geometry) uint64 {
	if g == nil {
		return 0
	}
	rounded := orb.Round(orb.Clone(g), 1_000_000)
	data, err := wkb.Marshal(rounded)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}

// Digest returns the hex xxhash of serialized output.
func Digest(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// Write prints the report in a line-oriented form.
func (r Report) Write(w io.Writer, nameA, nameB string) error {
	for _, id := range r.OnlyA {
		if _, err := fmt.Fprintf(w, "only in %s: %s\n", nameA, id); err != nil {
			return err
		}
	}
	for _, id := range r.OnlyB {
		if _, err := fmt.Fprintf(w, "only in %s: %s\n", nameB, id); err != nil {
			return err
		}
	}
	for _, c := range r.Changed {
		what := slices.Clone(c.Keys)
		if c.Geometry {
			what = append(what, "geometry")
		}
		if _, err := fmt.Fprintf(w, "changed %s: %v\n", c.ID, what); err != nil {
			return err
		}
	}
	return nil
}
