// Package importer assembles a park directory into a version 5 source
// document and its GPX companion.
//
// A park directory holds:
//
//	park.json       parks keyed by id; the first "park" key supplies the trail url
//	Boundary.gpx    border tracks, the base of the output GPX
//	POI.gpx         POI waypoints
//	<color>/*.gpx   one track per trail, colored by the directory name
package importer

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	orbgeo "github.com/paulmach/orb/geo"

	"trailsroc/pkg/geo"
	"trailsroc/pkg/gpx"
	"trailsroc/pkg/ident"
	"trailsroc/pkg/model"
	"trailsroc/pkg/run"
)

const metersPerMile = 1609.344

// Options tune an import.
type Options struct {
	Colors []string // accepted color directory names, lower case
}

// Result is one assembled park.
type Result struct {
	Name string // output basename
	Doc  *model.Document
	GPX  *gpx.File
}

// Park reads the park directory dir. Trails are keyed
// trails-<name>-<track id> and parented to park-<name>, where name is the
// lower-cased directory name. Their tracks are renamed to seg: labels.
func Park(rc *run.Context, dir string, opts Options) (*Result, error) {
	name := strings.ToLower(filepath.Base(filepath.Clean(dir)))

	parks, url, err := loadParks(rc, dir)
	if err != nil {
		return nil, err
	}

	out, err := gpx.Load(filepath.Join(dir, "Boundary.gpx"))
	if err != nil {
		return nil, err
	}
	poi, err := gpx.Load(filepath.Join(dir, "POI.gpx"))
	if err != nil {
		return nil, err
	}
	for _, w := range poi.Waypoints() {
		out.AppendWaypoint(w)
	}

	parentID := "park-" + name
	if err := rc.IDs.Require(parentID, "imported trail parentID"); err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}

	trails := model.NewCollection[model.Trail]()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list park directory: %w", err)
	}
	for _, e := range entries {
		color := strings.ToLower(e.Name())
		if !e.IsDir() || !slices.Contains(opts.Colors, color) {
			continue
		}
		files, err := filepath.Glob(filepath.Join(dir, e.Name(), "*gpx"))
		if err != nil {
			return nil, err
		}
		for _, path := range files {
			src, err := gpx.Load(path)
			if err != nil {
				return nil, err
			}
			t := trailTemplate{name: name, color: color, parentID: parentID, url: url}
			if err := t.addTracks(rc, path, src, out, trails); err != nil {
				return nil, err
			}
			for _, w := range src.Waypoints() {
				out.AppendWaypoint(w)
			}
		}
	}
	out.StripElevation()

	rc.Logger.Info("Imported park", "dir", dir, "parks", parks.Len(), "trails", trails.Len())
	return &Result{
		Name: name,
		Doc: &model.Document{
			Version:      5,
			Parks:        parks,
			TrailSystems: model.NewCollection[model.TrailSystem](),
			Trails:       trails,
		},
		GPX: out,
	}, nil
}

func loadParks(rc *run.Context, dir string) (*model.Collection[model.Park], string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "park.json"))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read park.json: %w", err)
	}
	parks := model.NewCollection[model.Park]()
	if err := parks.UnmarshalJSON(data); err != nil {
		return nil, "", fmt.Errorf("%s/park.json: %w", dir, err)
	}

	url, found := "", false
	err = parks.Each(func(id string, p *model.Park) error {
		if _, err := rc.IDs.Register(id, "park.json"); err != nil {
			return err
		}
		if !found && strings.Contains(id, "park") {
			url, found = p.URL, true
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	if !found {
		return nil, "", fmt.Errorf("%s: %w", dir, ErrNoPark)
	}
	return parks, url, nil
}

type trailTemplate struct {
	name, color, parentID, url string
}

// addTracks turns every named track of src into a trail and copies the
// track into out under its segment label.
func (t trailTemplate) addTracks(rc *run.Context, path string, src, out *gpx.File, trails *model.Collection[model.Trail]) error {
	for _, track := range src.Tracks() {
		label, ok := track.Name()
		if !ok || strings.TrimSpace(label) == "" {
			rc.Warn("Track has no name", "file", path)
			continue
		}
		ls, err := track.Coordinates()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		b, _ := geo.BoundsOf(ls, nil)

		id := "trails-" + t.name + "-" + TrackKey(label)
		if _, err := rc.IDs.Register(id, "imported track"); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		suffix, err := rc.IDs.RandomID()
		if err != nil {
			return err
		}

		length := math.Ceil(orbgeo.Length(ls)/metersPerMile*100) / 100
		sw, ne := b.SW, b.NE
		trails.Set(id, &model.Trail{
			Name:     label,
			Color:    t.color,
			Length:   &length,
			SW:       &sw,
			NE:       &ne,
			ParentID: t.parentID,
			URL:      t.url,
		})
		out.AppendTrack(track).SetName(ident.SegmentName([]string{id}, suffix))
	}
	return nil
}

// TrackKey derives the trail key from a track label: the text after the
// first '-' when there is one, with spaces as underscores, lower-cased.
func TrackKey(label string) string {
	if _, after, ok := strings.Cut(label, "-"); ok {
		label = after
		if before, _, ok := strings.Cut(label, "-"); ok {
			label = before
		}
	}
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(label), " ", "_"))
}
