package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"

	"trailsroc/pkg/feature"
	"trailsroc/pkg/geo"
	"trailsroc/pkg/gpx"
	"trailsroc/pkg/model"
)

// BuildOptions maps the configuration onto feature builder options.
func (r *Runner) BuildOptions() feature.Options {
	return feature.Options{
		Namespace:        r.cfg.Namespace,
		DataVersion:      r.cfg.Build.DataVersion,
		Surfaces:         r.cfg.Build.Surfaces,
		DefaultSurface:   r.cfg.Build.DefaultSurface,
		AllowsDirections: r.cfg.Build.AllowsDirections,
		MaxColors:        r.cfg.Build.MaxSegmentColors,
		Precision:        r.cfg.Precision,
	}
}

// Build converts every configured file into features. With a destination
// each file becomes <name>.geojson there; without one a single combined
// collection is written to the runner's output.
func (r *Runner) Build(ctx context.Context) (err error) {
	if err := r.begin(ctx, "build", false); err != nil {
		return err
	}
	defer func() { err = r.finish(ctx, err) }()

	perFile, err := r.buildFeatures()
	if err != nil {
		return err
	}

	outputs, err := r.buildOutputs(perFile)
	if err != nil {
		return err
	}
	return r.commit(ctx, outputs)
}

// buildFeatures runs the builder passes in dependency order: containers of
// every document, then trails, then GPX files.
func (r *Runner) buildFeatures() (map[string][]*geojson.Feature, error) {
	b := feature.NewBuilder(r.rc, r.BuildOptions())
	files := r.cfg.Files
	docs := make(map[string]*model.Document, len(files))
	perFile := make(map[string][]*geojson.Feature, len(files))

	for _, file := range files {
		doc, err := model.LoadDocument(r.sourcePath(file, ".json"))
		if err != nil {
			return nil, err
		}
		fs, err := b.Containers(file, doc)
		if err != nil {
			return nil, err
		}
		docs[file] = doc
		perFile[file] = append(perFile[file], fs...)
	}

	for _, file := range files {
		fs, err := b.Trails(file, docs[file])
		if err != nil {
			return nil, err
		}
		perFile[file] = append(perFile[file], fs...)
	}

	for _, file := range files {
		g, err := gpx.Load(r.sourcePath(file, ".gpx"))
		if err != nil {
			return nil, err
		}
		fs, err := b.GPX(file, g)
		if err != nil {
			return nil, err
		}
		perFile[file] = append(perFile[file], fs...)
		r.rc.Metrics.Document(OutcomeBuilt)
	}
	return perFile, nil
}

func (r *Runner) buildOutputs(perFile map[string][]*geojson.Feature) ([]output, error) {
	if r.cfg.DestDir == "" {
		return r.combinedOutput(perFile)
	}

	outputs := make([]output, 0, len(r.cfg.Files))
	for _, file := range r.cfg.Files {
		fc := geojson.NewFeatureCollection()
		fc.Features = perFile[file]
		data, err := geo.EncodeCollection(fc, r.cfg.Pretty)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", file, err)
		}
		path := r.destPath(file, ".geojson")
		outputs = append(outputs, output{
			file:     file,
			path:     path,
			data:     data,
			preview:  []byte(path),
			outcome:  OutcomeBuilt,
			features: len(fc.Features),
		})
	}
	return outputs, nil
}

// combinedOutput writes one collection to the runner's output. A dry run
// prints the run summary instead.
func (r *Runner) combinedOutput(perFile map[string][]*geojson.Feature) ([]output, error) {
	fc := geojson.NewFeatureCollection()
	outputs := make([]output, 0, len(r.cfg.Files))
	for _, file := range r.cfg.Files {
		fc.Features = append(fc.Features, perFile[file]...)
		outputs = append(outputs, output{file: file, outcome: OutcomeBuilt, features: len(perFile[file])})
	}

	var data []byte
	var err error
	if r.cfg.DryRun {
		data, err = json.MarshalIndent(r.rc.Summary(), "", "  ")
	} else {
		data, err = geo.EncodeCollection(fc, r.cfg.Pretty)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}
	if _, err := fmt.Fprintf(r.out, "%s\n", data); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	return outputs, nil
}
