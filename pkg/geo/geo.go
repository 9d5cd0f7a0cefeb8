package geo

import (
	"github.com/paulmach/orb"

	"trailsroc/pkg/model"
)

// Bounds is the minimal box covering a set of points, in [lat, lng] corners.
type Bounds struct {
	SW model.LatLng `json:"SW"`
	NE model.LatLng `json:"NE"`
}

// Bound converts to an orb bound.
func (b Bounds) Bound() orb.Bound {
	return orb.Bound{Min: b.SW.Point(), Max: b.NE.Point()}
}

func fromBound(b orb.Bound) Bounds {
	return Bounds{
		SW: model.LatLng{b.Min.Lat(), b.Min.Lon()},
		NE: model.LatLng{b.Max.Lat(), b.Max.Lon()},
	}
}

// BoundsOf folds points into existing (may be nil). ok is false when there is
// neither a point nor an existing box.
func BoundsOf(points []orb.Point, existing *Bounds) (Bounds, bool) {
	var (
		b   orb.Bound
		has bool
	)
	if existing != nil {
		b, has = existing.Bound(), true
	}
	for _, p := range points {
		if !has {
			b, has = p.Bound(), true
			continue
		}
		b = b.Extend(p)
	}
	if !has {
		return Bounds{}, false
	}
	return fromBound(b), true
}

// CenterOf is the midpoint of a SW/NE box as [lng, lat]. ok is false when a
// corner is missing.
func CenterOf(sw, ne *model.LatLng) (orb.Point, bool) {
	if sw == nil || ne == nil {
		return orb.Point{}, false
	}
	return orb.Point{
		0.5 * (sw.Lng() + ne.Lng()),
		0.5 * (sw.Lat() + ne.Lat()),
	}, true
}

// CenterOfList is the arithmetic mean of coords; the origin when empty.
func CenterOfList(coords []orb.Point) orb.Point {
	if len(coords) == 0 {
		return orb.Point{0, 0}
	}
	var sx, sy float64
	for _, c := range coords {
		sx += c[0]
		sy += c[1]
	}
	n := float64(len(coords))
	return orb.Point{sx / n, sy / n}
}

// CloseRing returns coords as a ring whose last point equals its first,
// appending the first point only when the sequence is open.
func CloseRing(coords []orb.Point) orb.Ring {
	ring := make(orb.Ring, len(coords), len(coords)+1)
	copy(ring, coords)
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}
