// Package gpx reads and edits GPX track, route and waypoint records in place.
package gpx

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/paulmach/orb"
)

// File is a parsed GPX document.
type File struct {
	doc *etree.Document
}

// Load reads the GPX file at path.
func Load(path string) (*File, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("failed to read gpx: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNoRoot)
	}
	return &File{doc: doc}, nil
}

// Parse reads a GPX document from memory.
func Parse(data []byte) (*File, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse gpx: %w", err)
	}
	if doc.Root() == nil {
		return nil, ErrNoRoot
	}
	return &File{doc: doc}, nil
}

// Tracks returns every route followed by every track.
func (f *File) Tracks() []*Track {
	var out []*Track
	for _, tag := range []string{"rte", "trk"} {
		for _, el := range f.doc.Root().FindElements(".//" + tag) {
			out = append(out, &Track{el: el})
		}
	}
	return out
}

// Waypoints returns every waypoint in document order.
func (f *File) Waypoints() []*Waypoint {
	var out []*Waypoint
	for _, el := range f.doc.Root().FindElements(".//wpt") {
		out = append(out, &Waypoint{el: el})
	}
	return out
}

// AddWaypoint appends a waypoint ahead of the first route or track so the
// file keeps the GPX element order.
func (f *File) AddWaypoint(lat, lon float64, name, desc string) *Waypoint {
	el := etree.NewElement("wpt")
	el.CreateAttr("lat", formatFloat(lat))
	el.CreateAttr("lon", formatFloat(lon))
	el.CreateElement("name").SetText(name)
	if desc != "" {
		el.CreateElement("desc").SetText(desc)
	}
	f.insertWaypoint(el)
	return &Waypoint{el: el}
}

// AppendWaypoint copies w from another file into this one, after the
// existing waypoints.
func (f *File) AppendWaypoint(w *Waypoint) *Waypoint {
	el := w.el.Copy()
	f.insertWaypoint(el)
	return &Waypoint{el: el}
}

// AppendTrack copies t from another file to the end of this one and
// returns the copy.
func (f *File) AppendTrack(t *Track) *Track {
	el := t.el.Copy()
	f.doc.Root().AddChild(el)
	return &Track{el: el}
}

// StripElevation removes every ele element. It returns the number removed.
func (f *File) StripElevation() int {
	n := 0
	for _, el := range f.doc.Root().FindElements(".//ele") {
		if parent := el.Parent(); parent != nil {
			parent.RemoveChild(el)
			n++
		}
	}
	return n
}

func (f *File) insertWaypoint(el *etree.Element) {
	root := f.doc.Root()
	idx := len(root.Child)
	for _, child := range root.ChildElements() {
		if child.Tag == "rte" || child.Tag == "trk" {
			idx = child.Index()
			break
		}
	}
	root.InsertChildAt(idx, el)
}

// Bytes renders the document.
func (f *File) Bytes() ([]byte, error) {
	return f.doc.WriteToBytes()
}

// Save writes the document to path.
func (f *File) Save(path string) error {
	if err := f.doc.WriteToFile(path); err != nil {
		return fmt.Errorf("failed to write gpx: %w", err)
	}
	return nil
}

// Track is a route or track element.
type Track struct {
	el *etree.Element
}

// Name returns the track label and whether one is present.
func (t *Track) Name() (string, bool) {
	return childText(t.el, "name")
}

// SetName replaces the label, creating the element when absent.
func (t *Track) SetName(name string) {
	setChildText(t.el, "name", name, -1)
}

// PointCount returns the number of track or route points.
func (t *Track) PointCount() int {
	return len(t.points())
}

// Points returns the track or route points in order, possibly none.
func (t *Track) Points() ([]orb.Point, error) {
	pts := t.points()
	out := make([]orb.Point, 0, len(pts))
	for _, p := range pts {
		pt, err := readPoint(p)
		if err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	return out, nil
}

// Coordinates returns the points as a line, failing with ErrTooFewPoints
// when the line would be degenerate.
func (t *Track) Coordinates() (orb.LineString, error) {
	pts, err := t.Points()
	if err != nil {
		return nil, err
	}
	ls := orb.LineString(pts)
	if len(ls) < 2 {
		name, _ := t.Name()
		return nil, fmt.Errorf("%w: %q has %d", ErrTooFewPoints, name, len(ls))
	}
	return ls, nil
}

func (t *Track) points() []*etree.Element {
	out := t.el.FindElements(".//trkpt")
	return append(out, t.el.FindElements(".//rtept")...)
}

// Waypoint is a wpt element.
type Waypoint struct {
	el *etree.Element
}

// Name returns the waypoint label and whether one is present.
func (w *Waypoint) Name() (string, bool) {
	return childText(w.el, "name")
}

// SetName replaces the label.
func (w *Waypoint) SetName(name string) {
	setChildText(w.el, "name", name, 0)
}

// Desc returns the sidecar text; empty when absent.
func (w *Waypoint) Desc() string {
	s, _ := childText(w.el, "desc")
	return s
}

// SetDesc replaces the sidecar text, inserting it right after the name.
func (w *Waypoint) SetDesc(desc string) {
	after := -1
	if name := w.el.SelectElement("name"); name != nil {
		after = name.Index() + 1
	}
	setChildText(w.el, "desc", desc, after)
}

// Point returns the waypoint location.
func (w *Waypoint) Point() (orb.Point, error) {
	return readPoint(w.el)
}

func childText(el *etree.Element, tag string) (string, bool) {
	child := el.SelectElement(tag)
	if child == nil {
		return "", false
	}
	return child.Text(), true
}

// setChildText sets the text of the first tag child. A missing child is
// inserted at index at, or appended when at is negative.
func setChildText(el *etree.Element, tag, text string, at int) {
	child := el.SelectElement(tag)
	if child == nil {
		child = etree.NewElement(tag)
		if at < 0 || at > len(el.Child) {
			el.AddChild(child)
		} else {
			el.InsertChildAt(at, child)
		}
	}
	child.SetText(text)
}

func readPoint(el *etree.Element) (orb.Point, error) {
	lat, err := strconv.ParseFloat(el.SelectAttrValue("lat", ""), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("%w: lat: %v", ErrBadCoordinate, err)
	}
	lon, err := strconv.ParseFloat(el.SelectAttrValue("lon", ""), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("%w: lon: %v", ErrBadCoordinate, err)
	}
	return orb.Point{lon, lat}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
