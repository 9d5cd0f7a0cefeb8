package model

import (
	"bytes"
	"encoding/json"

	"github.com/paulmach/orb"
)

// LatLng is a coordinate pair as authored in source documents: [lat, lng].
type LatLng [2]float64

// Lat returns the latitude component.
func (c LatLng) Lat() float64 { return c[0] }

// Lng returns the longitude component.
func (c LatLng) Lng() float64 { return c[1] }

// Point returns the coordinate in orb's [lng, lat] order.
func (c LatLng) Point() orb.Point { return orb.Point{c[1], c[0]} }

// Reversed returns the coordinate as a [lng, lat] slice for output properties.
func (c LatLng) Reversed() []float64 { return []float64{c[1], c[0]} }

// Park is an authored park record.
type Park struct {
	Name                 string          `json:"name,omitempty"`
	ShortName            string          `json:"shortName,omitempty"`
	URL                  string          `json:"url,omitempty"`
	MainPin              *LatLng         `json:"mainPin,omitempty"`
	DirectionsCoordinate *LatLng         `json:"directionsCoordinate,omitempty"`
	AllowsDirections     *bool           `json:"allowsDirections,omitempty"`
	AnnotationIconName   string          `json:"annotationIconName,omitempty"`
	HideInListView       *bool           `json:"hideInListView,omitempty"`    // v1-v4
	IsSearchable         *bool           `json:"isSearchable,omitempty"`      // v5
	VisibilityConstraint json.RawMessage `json:"visibilityConstraint,omitempty"` // dropped in v5
	Keywords             json.RawMessage `json:"keywords,omitempty"`
	SW                   *LatLng         `json:"SW,omitempty"`
	NE                   *LatLng         `json:"NE,omitempty"`
}

// TrailSystem is a park promoted to own trails across several parks (v5).
type TrailSystem = Park

// Trail is an authored trail record.
type Trail struct {
	Name      string   `json:"name,omitempty"`
	ShortName string   `json:"shortName,omitempty"`
	URL       string   `json:"url,omitempty"`
	Color     string   `json:"color,omitempty"`
	Length    *float64 `json:"length,omitempty"` // miles
	SW        *LatLng  `json:"SW,omitempty"`
	NE        *LatLng  `json:"NE,omitempty"`

	// Parent references, by schema version
	LegacyParkID string `json:"parkId,omitempty"`   // v1
	ParkID       string `json:"parkID,omitempty"`   // v2-v4
	ParentID     string `json:"parentID,omitempty"` // v5

	Trailheads           json.RawMessage `json:"trailheads,omitempty"` // removed in v3
	HideInListView       *bool           `json:"hideInListView,omitempty"`
	IsSearchable         *bool           `json:"isSearchable,omitempty"`
	VisibilityConstraint json.RawMessage `json:"visibilityConstraint,omitempty"`
	Keywords             json.RawMessage `json:"keywords,omitempty"`
	Surface              *string         `json:"surface,omitempty"`

	// v5 display hints
	Style     string `json:"style,omitempty"`
	Blazes    string `json:"blazes,omitempty"`
	IsPrimary *bool  `json:"isPrimary,omitempty"`

	authored map[string]bool
}

type trailFields Trail

// UnmarshalJSON decodes the trail strictly and records which keys the
// source document set.
func (t *Trail) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var plain trailFields
	if err := dec.Decode(&plain); err != nil {
		return err
	}
	*t = Trail(plain)
	t.authored = make(map[string]bool, len(keys))
	for k := range keys {
		t.authored[k] = true
	}
	return nil
}

// explicit reports whether key was set on the trail. Trails built in code
// count non-empty values as set.
func (t *Trail) explicit(key, v string) bool {
	if t.authored != nil {
		return t.authored[key]
	}
	return v != ""
}

func (t *Trail) mergeString(dst *string, key, dflt string) {
	if !t.explicit(key, *dst) {
		*dst = dflt
	}
}

// MergeDefaults copies every field of proto that t leaves unset.
// Explicit values on t always win.
func (t *Trail) MergeDefaults(proto *Trail) {
	if proto == nil {
		return
	}
	t.mergeString(&t.Name, "name", proto.Name)
	t.mergeString(&t.ShortName, "shortName", proto.ShortName)
	t.mergeString(&t.URL, "url", proto.URL)
	t.mergeString(&t.Color, "color", proto.Color)
	t.mergeString(&t.LegacyParkID, "parkId", proto.LegacyParkID)
	t.mergeString(&t.ParkID, "parkID", proto.ParkID)
	t.mergeString(&t.ParentID, "parentID", proto.ParentID)
	t.mergeString(&t.Style, "style", proto.Style)
	t.mergeString(&t.Blazes, "blazes", proto.Blazes)
	if t.Length == nil {
		t.Length = proto.Length
	}
	if t.SW == nil {
		t.SW = proto.SW
	}
	if t.NE == nil {
		t.NE = proto.NE
	}
	if t.Trailheads == nil {
		t.Trailheads = proto.Trailheads
	}
	if t.HideInListView == nil {
		t.HideInListView = proto.HideInListView
	}
	if t.IsSearchable == nil {
		t.IsSearchable = proto.IsSearchable
	}
	if t.VisibilityConstraint == nil {
		t.VisibilityConstraint = proto.VisibilityConstraint
	}
	if t.Keywords == nil {
		t.Keywords = proto.Keywords
	}
	if t.Surface == nil {
		t.Surface = proto.Surface
	}
	if t.IsPrimary == nil {
		t.IsPrimary = proto.IsPrimary
	}
}

// Point is a point of interest. In v1 documents points are listed inline;
// from v2 on they live in GPX waypoint sidecars.
type Point struct {
	ID string `json:"-"`

	Type      string  `json:"type,omitempty"`
	Name      string  `json:"name,omitempty"`
	ShortName string  `json:"shortName,omitempty"`
	Loc       *LatLng `json:"loc,omitempty"` // v1 inline points only

	LegacyParkID  string   `json:"parkId,omitempty"`  // v1
	LegacyTrailID string   `json:"trailId,omitempty"` // v1
	ParkID        string   `json:"parkID,omitempty"`  // v2
	TrailID       string   `json:"trailID,omitempty"` // v2
	ParentIDs     []string `json:"parentIDs,omitempty"`

	URL                  string          `json:"url,omitempty"`
	AllowsDirections     *bool           `json:"allowsDirections,omitempty"`
	DirectionsCoordinate *LatLng         `json:"directionsCoordinate,omitempty"`
	VisibilityConstraint json.RawMessage `json:"visibilityConstraint,omitempty"`
	Keywords             json.RawMessage `json:"keywords,omitempty"`
	HideInListView       *bool           `json:"hideInListView,omitempty"`
	IsSearchable         *bool           `json:"isSearchable,omitempty"`
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }
