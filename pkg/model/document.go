package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// PrototypeKey names the trail entry whose attributes are defaults for all
// other trails in a v1 document.
const PrototypeKey = "_prototype"

// Document is one version-tagged source document.
type Document struct {
	Version      int                     `json:"version"`
	Parks        *Collection[Park]        `json:"parks,omitempty"`
	TrailSystems *Collection[TrailSystem] `json:"trailSystems,omitempty"`
	Trails       *Collection[Trail]       `json:"trails,omitempty"`
	Points       *PointSet                `json:"points,omitempty"`

	// MisspelledTrailSystems is the "trailsSystems" key written by the park
	// importer. ParseDocument folds it into TrailSystems.
	MisspelledTrailSystems *Collection[TrailSystem] `json:"trailsSystems,omitempty"`
}

// EffectiveVersion treats an untagged document as version 1.
func (d *Document) EffectiveVersion() int {
	if d.Version < 1 {
		return 1
	}
	return d.Version
}

// PointSet holds inline points. v1 documents list them in an array;
// later documents key them by id.
type PointSet struct {
	Items []*Point
}

// Len returns the number of points.
func (s *PointSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// UnmarshalJSON accepts either an array of points or an object keyed by id.
func (s *PointSet) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return err
		}
		s.Items = make([]*Point, 0, len(raws))
		for i, raw := range raws {
			p := new(Point)
			if err := DecodeStrict(raw, p); err != nil {
				return fmt.Errorf("points[%d]: %w", i, err)
			}
			s.Items = append(s.Items, p)
		}
		return nil
	}

	keyed := NewCollection[Point]()
	if err := keyed.UnmarshalJSON(trimmed); err != nil {
		return err
	}
	s.Items = nil
	return keyed.Each(func(id string, p *Point) error {
		p.ID = id
		s.Items = append(s.Items, p)
		return nil
	})
}

// MarshalJSON encodes the points keyed by id.
func (s *PointSet) MarshalJSON() ([]byte, error) {
	keyed := NewCollection[Point]()
	for _, p := range s.Items {
		keyed.Set(p.ID, p)
	}
	return keyed.MarshalJSON()
}

// DecodeStrict unmarshals data into v, rejecting keys the record type does
// not declare.
func DecodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, ErrUnknownAttribute) || errors.Is(err, ErrMalformed) {
			return err
		}
		if strings.HasPrefix(err.Error(), "json: unknown field") {
			return fmt.Errorf("%w: %s", ErrUnknownAttribute, strings.TrimPrefix(err.Error(), "json: unknown field "))
		}
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// ParseDocument decodes a document strictly.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := DecodeStrict(data, &doc); err != nil {
		return nil, err
	}
	if alias := doc.MisspelledTrailSystems; alias != nil {
		if doc.TrailSystems.Len() > 0 && alias.Len() > 0 {
			return nil, fmt.Errorf("%w: both trailSystems and trailsSystems are set", ErrMalformed)
		}
		if doc.TrailSystems.Len() == 0 {
			doc.TrailSystems = alias
		}
		doc.MisspelledTrailSystems = nil
	}
	return &doc, nil
}

// LoadDocument reads and decodes the document at path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Encode renders the document as JSON, indented when pretty is set.
func (d *Document) Encode(pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(d, "", "  ")
	}
	return json.Marshal(d)
}
