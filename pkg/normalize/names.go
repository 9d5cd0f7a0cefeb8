package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrShortNameUnchanged indicates the stripping pattern did not match the name.
	ErrShortNameUnchanged = errors.New("failed to generate shortName")
	// ErrShortNameManual indicates a type whose short name must be checked by hand.
	ErrShortNameManual = errors.New("shortName needs manual check")
)

// DisplayNames maps a POI type to the name used when none was authored.
var DisplayNames = map[string]string{
	"point-admin":      "Administrative Building",
	"point-boatLaunch": "Boat Launch",
	"point-campsite":   "Campsite",
	"point-parking":    "Parking",
	"point-poi":        "Point of Interest",
	"point-restroom":   "Restroom",
	"point-scenic":     "Scenic Point",
	"point-sports":     "Sports Field",
}

// POIName applies type-specific text rules to a raw POI name. A blank name
// falls back to DisplayNames. Prefixes and suffixes are never doubled, but a
// synthesized fallback name is subject to the rules on a second pass.
func POIName(raw, poiType string) string {
	name := raw
	if Blank(name) {
		return DisplayNames[poiType]
	}
	switch poiType {
	case "point-intersection":
		if !strings.HasPrefix(name, "Intersection") {
			name = "Intersection " + name
		}
	case "point-shelter":
		if !strings.HasSuffix(name, "Shelter") {
			name += " Shelter"
		}
	case "point-lodge":
		if !strings.HasSuffix(name, "Lodge") {
			name += " Lodge"
		}
	}
	return name
}

var (
	reIntersection = regexp.MustCompile(`^Intersection `)
	reParking      = regexp.MustCompile(`^Parking \((.*)\)`)
	reLodge        = regexp.MustCompile(` Lodge$`)
	reShelter      = regexp.MustCompile(` Shelter$`)
)

// ShortName derives a short display name by stripping the type's fixed
// prefix or suffix. ok is false when the type has no derivation rule.
// A pattern that leaves the name unchanged yields ErrShortNameUnchanged.
func ShortName(name, poiType string) (short string, ok bool, err error) {
	var re *regexp.Regexp
	repl := ""
	switch poiType {
	case "point-intersection":
		re = reIntersection
	case "point-parking":
		if name == "Parking" {
			return name, true, nil
		}
		re, repl = reParking, "$1"
	case "point-smparking":
		return "", true, fmt.Errorf("%w: %s", ErrShortNameManual, name)
	case "point-lodge":
		re = reLodge
	case "point-shelter":
		re = reShelter
	default:
		return "", false, nil
	}

	cleaned := re.ReplaceAllString(name, repl)
	if cleaned == name {
		return "", true, fmt.Errorf("%w from %q", ErrShortNameUnchanged, name)
	}
	return cleaned, true, nil
}
