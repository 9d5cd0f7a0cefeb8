// Package run holds the state owned by one processing run.
package run

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"trailsroc/pkg/bundle"
	"trailsroc/pkg/ident"
	"trailsroc/pkg/metrics"
	"trailsroc/pkg/model"
)

// Context is created per run and discarded afterwards. It owns the identifier
// registry and the metadata accumulated while documents are processed;
// nothing in it outlives the run.
type Context struct {
	ID      string
	IDs     *ident.Registry
	Logger  *slog.Logger
	Metrics *metrics.Recorder
	Bundle  *bundle.Bundle

	Parks        map[string]*model.Park
	TrailSystems map[string]*model.TrailSystem
	Trails       map[string]*model.Trail
	POITypes     []string

	// Migration bookkeeping
	DefaultPark map[string]string         // file -> its only park
	PendingPOIs map[string][]*model.Point // file -> inline points to append to the GPX
	Skipped     map[string]bool           // files whose document was already migrated

	warnings int
}

// New creates an empty run context. logger and rec may be nil.
func New(logger *slog.Logger, rec *metrics.Recorder) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Context{
		ID:           id,
		IDs:          ident.NewRegistry(),
		Logger:       logger.With("run", id[:8]),
		Metrics:      rec,
		Parks:        make(map[string]*model.Park),
		TrailSystems: make(map[string]*model.TrailSystem),
		Trails:       make(map[string]*model.Trail),
		DefaultPark:  make(map[string]string),
		PendingPOIs:  make(map[string][]*model.Point),
		Skipped:      make(map[string]bool),
	}
}

// Warn reports a non-fatal anomaly; processing continues.
func (c *Context) Warn(msg string, args ...any) {
	c.warnings++
	c.Metrics.Warning()
	c.Logger.Warn(msg, args...)
}

// Warnings returns the number of anomalies reported so far.
func (c *Context) Warnings() int {
	return c.warnings
}

// AddPOIType records a POI type the first time it is seen.
func (c *Context) AddPOIType(t string) {
	for _, known := range c.POITypes {
		if known == t {
			return
		}
	}
	c.POITypes = append(c.POITypes, t)
}

// Summary is the run metadata printed at the end of a dry run.
type Summary struct {
	Run          string            `json:"run"`
	Parks        []string          `json:"parks"`
	TrailSystems []string          `json:"trailSystems,omitempty"`
	Trails       []string          `json:"trails"`
	POITypes     []string          `json:"poiTypes"`
	IDs          int               `json:"idCount"`
	DefaultPark  map[string]string `json:"defaultParkPerFile,omitempty"`
	Skipped      []string          `json:"skipped,omitempty"`
	Warnings     int               `json:"warnings"`
}

// Summary collects what the run has seen so far.
func (c *Context) Summary() Summary {
	s := Summary{
		Run:         c.ID,
		Parks:       sortedKeys(c.Parks),
		Trails:      sortedKeys(c.Trails),
		POITypes:    append([]string(nil), c.POITypes...),
		IDs:         c.IDs.Len(),
		Warnings:    c.warnings,
		DefaultPark: c.DefaultPark,
	}
	if len(c.TrailSystems) > 0 {
		s.TrailSystems = sortedKeys(c.TrailSystems)
	}
	s.Skipped = sortedKeys(c.Skipped)
	return s
}

// String renders a one-line summary for logs.
func (s Summary) String() string {
	return fmt.Sprintf("%d parks, %d trail systems, %d trails, %d ids, %d warnings",
		len(s.Parks), len(s.TrailSystems), len(s.Trails), s.IDs, s.Warnings)
}
