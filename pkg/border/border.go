// Package border assembles park polygons from separately authored outer and
// inner border records.
package border

import (
	"github.com/paulmach/orb"

	"trailsroc/pkg/geo"
)

// Polygon is one assembled park border.
type Polygon struct {
	ParkID  string
	Polygon orb.Polygon
}

// Assembler collects border records per park until Polygons is called.
type Assembler struct {
	order  []string
	outers map[string][]orb.LineString
	inners map[string][]orb.LineString
}

// NewAssembler returns an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{
		outers: make(map[string][]orb.LineString),
		inners: make(map[string][]orb.LineString),
	}
}

func (a *Assembler) see(parkID string) {
	if _, ok := a.outers[parkID]; ok {
		return
	}
	if _, ok := a.inners[parkID]; ok {
		return
	}
	a.order = append(a.order, parkID)
}

// AddOuter records an outer border for parkID.
func (a *Assembler) AddOuter(parkID string, ls orb.LineString) {
	a.see(parkID)
	a.outers[parkID] = append(a.outers[parkID], ls)
}

// AddInner records an inner border (hole) for parkID.
func (a *Assembler) AddInner(parkID string, ls orb.LineString) {
	a.see(parkID)
	a.inners[parkID] = append(a.inners[parkID], ls)
}

// Polygons builds one polygon per outer border, in the order parks were
// first seen. Every inner border of a park is attached to each of the park's
// outer borders, so a park with two outers repeats its holes on both.
func (a *Assembler) Polygons() []Polygon {
	var out []Polygon
	for _, parkID := range a.order {
		for _, outer := range a.outers[parkID] {
			poly := orb.Polygon{geo.CloseRing(outer)}
			for _, inner := range a.inners[parkID] {
				poly = append(poly, geo.CloseRing(inner))
			}
			out = append(out, Polygon{ParkID: parkID, Polygon: poly})
		}
	}
	return out
}

// Orphans lists parks that have inner borders but no outer border; their
// inner rings never reach the output.
func (a *Assembler) Orphans() []string {
	var out []string
	for _, parkID := range a.order {
		if len(a.inners[parkID]) > 0 && len(a.outers[parkID]) == 0 {
			out = append(out, parkID)
		}
	}
	return out
}
