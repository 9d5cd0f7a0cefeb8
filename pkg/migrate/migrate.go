// Package migrate upgrades source documents and their GPX companions one
// schema version at a time.
package migrate

import (
	"fmt"

	"trailsroc/pkg/gpx"
	"trailsroc/pkg/model"
)

// Step upgrades a document from version From to version To. GPX rewrites
// the companion file and runs only after every document went through
// Document.
type Step struct {
	From, To int
	Name     string
	Document func(m *Migrator, file string, doc *model.Document) (*model.Document, error)
	GPX      func(m *Migrator, file string, g *gpx.File) error
}

// Steps lists every migration in version order.
var Steps = []Step{
	{From: 1, To: 2, Name: "standardize", Document: standardizeDocument, GPX: standardizeGPX},
	{From: 2, To: 3, Name: "parent ids", Document: parentIDsDocument, GPX: parentIDsGPX},
	{From: 3, To: 4, Name: "short names", Document: shortNamesDocument, GPX: shortNamesGPX},
	{From: 4, To: 5, Name: "trail systems", Document: trailSystemsDocument, GPX: trailSystemsGPX},
}

// Latest returns the newest version a step produces.
func Latest() int {
	return Steps[len(Steps)-1].To
}

// Lookup returns the step producing version target. A target of 0 selects
// the latest step.
func Lookup(target int) (Step, error) {
	if target == 0 {
		target = Latest()
	}
	for _, s := range Steps {
		if s.To == target {
			return s, nil
		}
	}
	return Step{}, fmt.Errorf("%w to version %d", ErrNoStep, target)
}
