package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"trailsroc/pkg/importer"
)

// Import assembles each park directory into <name>.json and <name>.gpx in
// the destination, or in the source directory when no destination is set.
func (r *Runner) Import(ctx context.Context, dirs []string) (err error) {
	if err := r.begin(ctx, "import", false); err != nil {
		return err
	}
	defer func() { err = r.finish(ctx, err) }()

	outDir := r.cfg.DestDir
	if outDir == "" {
		outDir = r.cfg.SourceDir
	}
	opts := importer.Options{Colors: r.cfg.Import.Colors}

	var outputs []output
	for _, dir := range dirs {
		res, err := importer.Park(r.rc, dir, opts)
		if err != nil {
			return err
		}
		doc, err := res.Doc.Encode(r.cfg.Pretty)
		if err != nil {
			return fmt.Errorf("failed to encode %s.json: %w", res.Name, err)
		}
		track, err := res.GPX.Bytes()
		if err != nil {
			return fmt.Errorf("failed to encode %s.gpx: %w", res.Name, err)
		}
		r.rc.Metrics.Document(OutcomeImported)
		outputs = append(outputs,
			output{
				file:     res.Name + ".json",
				path:     filepath.Join(outDir, res.Name+".json"),
				data:     doc,
				preview:  doc,
				outcome:  OutcomeImported,
				features: res.Doc.Trails.Len(),
			},
			output{
				file:    res.Name + ".gpx",
				path:    filepath.Join(outDir, res.Name+".gpx"),
				data:    track,
				outcome: OutcomeImported,
			},
		)
	}

	return r.commit(ctx, outputs)
}
