package ident

import (
	"fmt"
	"strings"
)

// Kind classifies a composite name found in a track/route or waypoint label.
type Kind int

const (
	KindUnknown Kind = iota
	KindBorder
	KindInnerBorder
	KindSegment
	KindPOI
)

func (k Kind) String() string {
	switch k {
	case KindBorder:
		return "border"
	case KindInnerBorder:
		return "innerBorder"
	case KindSegment:
		return "seg"
	case KindPOI:
		return "poi"
	default:
		return "unknown"
	}
}

const (
	tagBorder      = "border"
	tagInnerBorder = "innerBorder"
	tagSegment     = "seg"
)

// Composite is a colon-joined name parsed once at the source boundary.
//
//	border:<parkID>
//	innerBorder:<parkID>
//	seg:<trailID>[,<trailID>...]:<random>
//	<trailID>[,<trailID>...]              (legacy segment name)
//	<poiType>:<source>[:<random>]
type Composite struct {
	Kind Kind
	// Tag is the first token: the border tag, "seg", or the POI type.
	Tag string
	// ParentRef is the park id (borders), comma-joined trail ids (segments)
	// or the source token (POIs).
	ParentRef     string
	Discriminator string
	Legacy        bool
}

// ParseTrackName classifies a route/track name.
func ParseTrackName(name string) (Composite, error) {
	if !strings.Contains(name, ":") {
		if strings.TrimSpace(name) == "" {
			return Composite{}, fmt.Errorf("%w: empty track name", ErrInvalidName)
		}
		return Composite{Kind: KindSegment, Tag: tagSegment, ParentRef: name, Legacy: true}, nil
	}

	tokens := strings.Split(name, ":")
	switch tokens[0] {
	case tagBorder, tagInnerBorder:
		if len(tokens) != 2 || tokens[1] == "" {
			return Composite{}, fmt.Errorf("%w: %s", ErrInvalidName, name)
		}
		kind := KindBorder
		if tokens[0] == tagInnerBorder {
			kind = KindInnerBorder
		}
		return Composite{Kind: kind, Tag: tokens[0], ParentRef: tokens[1]}, nil
	case tagSegment:
		if len(tokens) < 2 || tokens[1] == "" {
			return Composite{}, fmt.Errorf("%w: %s", ErrInvalidName, name)
		}
		c := Composite{Kind: KindSegment, Tag: tagSegment, ParentRef: tokens[1]}
		if len(tokens) > 2 {
			c.Discriminator = strings.Join(tokens[2:], ":")
		}
		return c, nil
	default:
		return Composite{}, fmt.Errorf("%w: %s", ErrInvalidName, name)
	}
}

// ParseWaypointName splits a waypoint label. ok is false for labels that do
// not carry a type token (plain waypoints that are not POIs).
func ParseWaypointName(name string) (Composite, bool) {
	if !strings.Contains(name, ":") {
		return Composite{}, false
	}
	tokens := strings.SplitN(name, ":", 3)
	c := Composite{Kind: KindPOI, Tag: tokens[0]}
	if len(tokens) > 1 {
		c.ParentRef = tokens[1]
	}
	if len(tokens) > 2 {
		c.Discriminator = tokens[2]
	}
	return c, true
}

// TrailIDs returns the trail ids referenced by a segment, in reference order.
func (c Composite) TrailIDs() []string {
	if c.Kind != KindSegment || c.ParentRef == "" {
		return nil
	}
	return strings.Split(c.ParentRef, ",")
}

// String renders the composite back to its label form.
func (c Composite) String() string {
	switch c.Kind {
	case KindBorder, KindInnerBorder:
		return c.Tag + ":" + c.ParentRef
	case KindSegment:
		if c.Legacy {
			return c.ParentRef
		}
		if c.Discriminator == "" {
			return tagSegment + ":" + c.ParentRef
		}
		return tagSegment + ":" + c.ParentRef + ":" + c.Discriminator
	case KindPOI:
		parts := []string{c.Tag}
		if c.ParentRef != "" || c.Discriminator != "" {
			parts = append(parts, c.ParentRef)
		}
		if c.Discriminator != "" {
			parts = append(parts, c.Discriminator)
		}
		return strings.Join(parts, ":")
	}
	return ""
}

// BorderName builds the label of an outer or inner border track.
func BorderName(parkID string, inner bool) string {
	if inner {
		return tagInnerBorder + ":" + parkID
	}
	return tagBorder + ":" + parkID
}

// SegmentName builds a segment label from trail ids and a random suffix.
func SegmentName(trailIDs []string, suffix string) string {
	return Composite{Kind: KindSegment, Tag: tagSegment, ParentRef: strings.Join(trailIDs, ","), Discriminator: suffix}.String()
}

// BorderFeatureID builds the id of an assembled park border feature.
func BorderFeatureID(parkID, suffix string) string {
	return tagBorder + ":" + parkID + ":" + suffix
}

// POIID builds a POI id from its type, source name and random suffix.
func POIID(poiType, source, suffix string) string {
	return poiType + ":" + source + ":" + suffix
}
