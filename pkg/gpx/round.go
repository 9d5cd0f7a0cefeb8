package gpx

import (
	"math"
	"strconv"

	"github.com/beevik/etree"
)

// ElevationDecimals is the precision kept for track point elevations.
const ElevationDecimals = 2

// Round truncates waypoint, route and track coordinates to decimals places.
// Waypoint elevations use the same precision; track point elevations keep
// ElevationDecimals. It returns the number of points touched.
func (f *File) Round(decimals int) int {
	n := 0
	for _, wpt := range f.doc.Root().FindElements(".//wpt") {
		roundPoint(wpt, decimals, decimals)
		n++
	}
	for _, tag := range []string{"trkpt", "rtept"} {
		for _, pt := range f.doc.Root().FindElements(".//" + tag) {
			roundPoint(pt, decimals, ElevationDecimals)
			n++
		}
	}
	return n
}

func roundPoint(el *etree.Element, decimals, eleDecimals int) {
	for _, key := range []string{"lat", "lon"} {
		attr := el.SelectAttr(key)
		if attr == nil {
			continue
		}
		if v, err := strconv.ParseFloat(attr.Value, 64); err == nil {
			attr.Value = formatFloat(roundTo(v, decimals))
		}
	}
	if ele := el.SelectElement("ele"); ele != nil {
		if v, err := strconv.ParseFloat(ele.Text(), 64); err == nil && v != 0 {
			ele.SetText(formatFloat(roundTo(v, eleDecimals)))
		}
	}
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
