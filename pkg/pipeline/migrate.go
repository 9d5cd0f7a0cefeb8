package pipeline

import (
	"context"
	"errors"
	"fmt"

	"trailsroc/pkg/gpx"
	"trailsroc/pkg/migrate"
	"trailsroc/pkg/model"
)

// Migrate applies the step producing version target (0 = latest) to every
// configured file and writes the results to the destination. Documents
// already at the target are skipped along with their GPX companion.
func (r *Runner) Migrate(ctx context.Context, target int) (err error) {
	m, err := migrate.New(r.rc, r.cfg.Migrate, target)
	if err != nil {
		return err
	}
	if err := r.begin(ctx, "migrate", true); err != nil {
		return err
	}
	defer func() { err = r.finish(ctx, err) }()
	r.rc.Logger.Info("Migrating", "step", m.Step.Name, "from", m.Step.From, "to", m.Step.To)

	var outputs []output
	for _, file := range r.cfg.Files {
		doc, err := model.LoadDocument(r.sourcePath(file, ".json"))
		if err != nil {
			return err
		}
		out, err := m.Document(file, doc)
		if errors.Is(err, migrate.ErrAlreadyMigrated) {
			outputs = append(outputs, output{file: file + ".json", outcome: OutcomeSkipped})
			continue
		}
		if err != nil {
			return err
		}
		data, err := out.Encode(r.cfg.Pretty)
		if err != nil {
			return fmt.Errorf("failed to encode %s.json: %w", file, err)
		}
		outputs = append(outputs, output{
			file:    file + ".json",
			path:    r.destPath(file, ".json"),
			data:    data,
			preview: data,
			outcome: OutcomeMigrated,
		})
	}

	for _, file := range r.cfg.Files {
		g, err := gpx.Load(r.sourcePath(file, ".gpx"))
		if err != nil {
			return err
		}
		err = m.GPX(file, g)
		if errors.Is(err, migrate.ErrAlreadyMigrated) {
			continue
		}
		if err != nil {
			return err
		}
		data, err := g.Bytes()
		if err != nil {
			return fmt.Errorf("failed to encode %s.gpx: %w", file, err)
		}
		outputs = append(outputs, output{
			file:    file + ".gpx",
			path:    r.destPath(file, ".gpx"),
			data:    data,
			outcome: OutcomeMigrated,
		})
	}

	return r.commit(ctx, outputs)
}
