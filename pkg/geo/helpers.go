package geo

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"
)

// StringProp extracts a property as text. Numbers and booleans are
// formatted; anything else yields "".
func StringProp(props geojson.Properties, key string) string {
	val, ok := props[key]
	if !ok {
		return ""
	}
	switch v := val.(type) {
	case string:
		return v
	case json.Number:
		return string(v)
	case float64, bool:
		return fmt.Sprint(v)
	}
	return ""
}
