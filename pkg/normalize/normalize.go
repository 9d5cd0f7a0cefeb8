// Package normalize canonicalizes raw entity names into prefixed identifiers
// and derives display names for points of interest.
package normalize

import (
	"strings"
)

const (
	ParkPrefix        = "park-"
	TrailPrefix       = "trail-"
	TrailSystemPrefix = "tsystem-"
	POIPrefix         = "point-"
)

// RequirePrefix prepends prefix unless value already starts with it.
// Empty values are returned unchanged.
func RequirePrefix(value, prefix string) string {
	if value == "" || strings.HasPrefix(value, prefix) {
		return value
	}
	return prefix + value
}

// FixIDPunct rewrites underscores to hyphens.
func FixIDPunct(value string) string {
	return strings.ReplaceAll(value, "_", "-")
}

// ParkID standardizes a park identifier. Idempotent.
func ParkID(id string) string {
	return FixIDPunct(RequirePrefix(id, ParkPrefix))
}

// TrailID standardizes a comma-joined list of trail identifiers, member by
// member, preserving order. Idempotent.
func TrailID(ids string) string {
	if ids == "" {
		return ids
	}
	parts := strings.Split(ids, ",")
	for i, p := range parts {
		parts[i] = FixIDPunct(RequirePrefix(p, TrailPrefix))
	}
	return strings.Join(parts, ",")
}

// TrailSystemID standardizes a trail system identifier. Idempotent.
func TrailSystemID(id string) string {
	return FixIDPunct(RequirePrefix(id, TrailSystemPrefix))
}

// POIType standardizes a raw point type ("boat_launch" -> "point-boatLaunch").
// Idempotent.
func POIType(raw string) string {
	if raw == "boat_launch" {
		raw = "boatLaunch"
	}
	return FixIDPunct(RequirePrefix(raw, POIPrefix))
}

// IsPOIType reports whether t carries the point type prefix.
func IsPOIType(t string) bool {
	return strings.HasPrefix(t, POIPrefix)
}

// Blank reports whether s is empty after trimming whitespace.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
