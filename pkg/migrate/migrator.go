package migrate

import (
	"fmt"

	"trailsroc/pkg/config"
	"trailsroc/pkg/gpx"
	"trailsroc/pkg/logging"
	"trailsroc/pkg/model"
	"trailsroc/pkg/run"
)

// Migrator applies one step to every file of a run.
type Migrator struct {
	Step   Step
	rc     *run.Context
	tables config.MigrateConfig
}

// New creates a migrator for the step producing version target.
func New(rc *run.Context, tables config.MigrateConfig, target int) (*Migrator, error) {
	step, err := Lookup(target)
	if err != nil {
		return nil, err
	}
	return &Migrator{Step: step, rc: rc, tables: tables}, nil
}

// Document migrates one document. A document already at the target version
// is recorded as skipped and ErrAlreadyMigrated is returned; the caller
// continues with the next file.
func (m *Migrator) Document(file string, doc *model.Document) (*model.Document, error) {
	logging.Trace(m.rc.Logger, "Parsing JSON", "file", file, "step", m.Step.Name)

	v := doc.EffectiveVersion()
	if v >= m.Step.To {
		m.rc.Skipped[file] = true
		m.rc.Metrics.Document("skipped")
		m.rc.Warn("File has already been processed", "file", file+".json", "version", v)
		return nil, fmt.Errorf("%s.json: %w", file, ErrAlreadyMigrated)
	}
	if v < m.Step.From {
		return nil, fmt.Errorf("%w: %s.json is at version %d, need %d", ErrOutdated, file, v, m.Step.From)
	}

	out, err := m.Step.Document(m, file, doc)
	if err != nil {
		return nil, fmt.Errorf("%s.json: %w", file, err)
	}
	out.Version = m.Step.To
	m.rc.Metrics.Document("migrated")
	return out, nil
}

// GPX migrates the companion of a document. It refuses files whose
// document was skipped.
func (m *Migrator) GPX(file string, g *gpx.File) error {
	if m.rc.Skipped[file] {
		m.rc.Logger.Warn("Skipping GPX because corresponding JSON file was skipped", "file", file+".gpx")
		return fmt.Errorf("%s.gpx: %w", file, ErrAlreadyMigrated)
	}
	logging.Trace(m.rc.Logger, "Parsing GPX", "file", file, "step", m.Step.Name)
	if err := m.Step.GPX(m, file, g); err != nil {
		return fmt.Errorf("%s.gpx: %w", file, err)
	}
	return nil
}
