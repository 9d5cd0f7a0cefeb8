package feature

import (
	"fmt"

	"github.com/paulmach/orb/geojson"

	"trailsroc/pkg/geo"
	"trailsroc/pkg/logging"
	"trailsroc/pkg/model"
	"trailsroc/pkg/normalize"
)

// Containers checks the document version, then registers and builds the
// parks and trail systems of one document.
func (b *Builder) Containers(file string, doc *model.Document) ([]*geojson.Feature, error) {
	if err := b.checkVersion(file, doc.EffectiveVersion()); err != nil {
		return nil, err
	}
	v := b.versions[file]
	logging.Trace(b.rc.Logger, "Parsing JSON", "file", file, "version", v)

	var out []*geojson.Feature
	err := doc.Parks.Each(func(id string, park *model.Park) error {
		b.rc.Parks[id] = park
		f, err := b.container(file, TypePark, id, park, v)
		if err != nil {
			return err
		}
		out = append(out, f)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if v < 5 && doc.TrailSystems.Len() > 0 {
		return nil, fmt.Errorf("%w for %s.json: trailSystems need version 5", ErrIncompatibleVersion, file)
	}
	err = doc.TrailSystems.Each(func(id string, sys *model.TrailSystem) error {
		b.rc.TrailSystems[id] = sys
		f, err := b.container(file, TypeTrailSystem, id, sys, v)
		if err != nil {
			return err
		}
		out = append(out, f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Builder) container(file, typ, id string, p *model.Park, v int) (*geojson.Feature, error) {
	if p.MainPin == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingMainPin, id)
	}
	f, err := b.newFeature(typ, id, "JSON "+typ, p.MainPin.Point())
	if err != nil {
		return nil, err
	}
	b.warnUnnamed(file, typ, id, p.Name)

	b.setText(f, "shortName", shortOrName(p.ShortName, p.Name))
	b.setText(f, "name", p.Name)
	b.setText(f, "url", p.URL)
	b.setBool(f, "allowsDirections", p.AllowsDirections, boolPtr(true))
	b.setText(f, "annotationIconName", p.AnnotationIconName)
	if v >= 5 {
		b.setBool(f, "isSearchable", p.IsSearchable, boolPtr(!normalize.Blank(p.Name)))
		b.setBool(f, "hideInListView", p.HideInListView, nil)
	} else {
		b.setBool(f, "hideInListView", p.HideInListView, boolPtr(normalize.Blank(p.Name)))
		b.setBool(f, "isSearchable", p.IsSearchable, nil)
	}
	b.setRaw(f, "visibilityConstraint", p.VisibilityConstraint)
	b.setRaw(f, "keywords", p.Keywords)
	if p.DirectionsCoordinate != nil {
		b.set(f, "directionsCoordinate", p.DirectionsCoordinate.Reversed())
	}
	return f, nil
}

// Trails registers and builds the trails of one document. Their parents
// must already be registered.
func (b *Builder) Trails(file string, doc *model.Document) ([]*geojson.Feature, error) {
	v, ok := b.versions[file]
	if !ok {
		if err := b.checkVersion(file, doc.EffectiveVersion()); err != nil {
			return nil, err
		}
		v = b.versions[file]
	}

	var out []*geojson.Feature
	err := doc.Trails.Each(func(id string, trail *model.Trail) error {
		b.rc.Trails[id] = trail
		f, err := b.trail(file, id, trail, v)
		if err != nil {
			return err
		}
		if f != nil {
			out = append(out, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Builder) trail(file, id string, t *model.Trail, v int) (*geojson.Feature, error) {
	parentKey, parentID := "parkID", t.ParkID
	if v >= 5 {
		parentKey, parentID = "parentID", t.ParentID
	}
	if parentID != "" {
		if err := b.rc.IDs.Require(parentID, "trail "+parentKey); err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
	}

	center, ok := geo.CenterOf(t.SW, t.NE)
	if !ok {
		// The id is still reserved so segments can reference the trail
		if _, err := b.rc.IDs.Register(id, "JSON trail"); err != nil {
			return nil, err
		}
		b.rc.Warn("No SW/NE data for trail center", "file", file, "id", id)
		return nil, nil
	}

	f, err := b.newFeature(TypeTrail, id, "JSON trail", center)
	if err != nil {
		return nil, err
	}
	b.warnUnnamed(file, TypeTrail, id, t.Name)
	if t.Color != "" && b.rc.Bundle.Len() > 0 {
		if _, ok := b.rc.Bundle.Hex(t.Color); !ok {
			b.rc.Warn("Trail color not in bundle", "file", file, "id", id, "color", t.Color)
		}
	}
	b.setText(f, parentKey, parentID)
	b.setText(f, "name", t.Name)
	b.setText(f, "url", t.URL)
	b.setText(f, "color", t.Color)
	b.setText(f, "shortName", shortOrName(t.ShortName, t.Name))
	if t.Length != nil {
		b.set(f, "length", *t.Length)
	}
	if v >= 5 {
		b.setBool(f, "isSearchable", t.IsSearchable, boolPtr(!normalize.Blank(t.Name)))
		b.setText(f, "style", t.Style)
		b.setText(f, "blazes", t.Blazes)
		b.setBool(f, "isPrimary", t.IsPrimary, nil)
	} else {
		b.setBool(f, "hideInListView", t.HideInListView, boolPtr(normalize.Blank(t.Name)))
	}
	b.setRaw(f, "visibilityConstraint", t.VisibilityConstraint)
	b.setRaw(f, "keywords", t.Keywords)
	return f, nil
}
