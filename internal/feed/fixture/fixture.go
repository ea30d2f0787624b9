// Package fixture bundles a small sample season so the kiosk can boot without
// any data files on disk.
package fixture

import (
	"context"
	_ "embed"
)

//go:embed schedule.json
var scheduleJSON []byte

//go:embed manifest.json
var manifestJSON []byte

// Document selects which bundled document a Source serves.
type Document string

const (
	Schedule Document = "schedule"
	Manifest Document = "manifest"
)

// Source serves one of the bundled documents.
type Source struct {
	doc Document
}

// New creates a fixture source for the given document.
func New(doc Document) *Source {
	return &Source{doc: doc}
}

// Name identifies the source in logs and metrics.
func (s *Source) Name() string {
	return "fixture:" + string(s.doc)
}

// Fetch returns a copy of the bundled document.
func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var src []byte
	switch s.doc {
	case Manifest:
		src = manifestJSON
	default:
		src = scheduleJSON
	}
	return append([]byte(nil), src...), nil
}
