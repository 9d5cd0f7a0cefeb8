package geo

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
)

// LoadCollection reads a GeoJSON feature collection from path.
func LoadCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read geojson %s: %w", path, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse geojson %s: %w", path, err)
	}
	return fc, nil
}

// EncodeCollection renders fc, indented when pretty is set.
func EncodeCollection(fc *geojson.FeatureCollection, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(fc, "", "  ")
	}
	return json.Marshal(fc)
}

// WriteCollection writes fc to path.
func WriteCollection(path string, fc *geojson.FeatureCollection, pretty bool) error {
	data, err := EncodeCollection(fc, pretty)
	if err != nil {
		return fmt.Errorf("failed to encode geojson: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write geojson %s: %w", path, err)
	}
	return nil
}
