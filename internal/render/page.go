package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/preston-bernstein/husker-kiosk/internal/layout"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed assets/*
var assetFS embed.FS

// Assets returns the page stylesheet and script, rooted at the assets directory.
func Assets() fs.FS {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page is everything the kiosk template needs.
type Page struct {
	Team          string
	Hero          *Hero
	Rows          []Row
	ActiveView    string // "hero" or "schedule"
	Lock          string // "", "next" or "all"
	Layout        *layout.Result
	Debug         bool
	LoadedAt      time.Time
	RotateSeconds int
	Generation    uint64
	Measure       bool
}

// DebugLine is the on-screen diagnostic shown with ?debug=1.
func (p Page) DebugLine() string {
	return fmt.Sprintf("Loaded %s • games=%d", p.LoadedAt.Format("1/2/2006, 3:04:05 PM"), len(p.Rows))
}

// HeroHidden reports whether the hero view starts hidden.
func (p Page) HeroHidden() bool { return p.ActiveView != "hero" }

// ScheduleHidden reports whether the schedule view starts hidden.
func (p Page) ScheduleHidden() bool { return p.ActiveView != "schedule" }

// Density is the density marker for the schedule view, empty for normal.
func (p Page) Density() string {
	if p.Measure || p.Layout == nil || p.Layout.Density == layout.DensityNormal {
		return ""
	}
	return string(p.Layout.Density)
}

// RowsStyle is the transform applied to the schedule block for continuous scaling.
func (p Page) RowsStyle() template.CSS {
	if p.Measure || p.Layout == nil || p.Layout.Strategy != layout.ScaleStrategyName {
		return ""
	}
	return template.CSS(fmt.Sprintf(
		"transform-origin: 0 0; transform: translate(%.2fpx, %.2fpx) scale(%.4f);",
		p.Layout.OffsetX, p.Layout.OffsetY, p.Layout.Scale,
	))
}

// Renderer executes the page template.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("page.html.tmpl").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the full page document.
func (r *Renderer) Render(w io.Writer, p Page) error {
	return r.tmpl.ExecuteTemplate(w, "page.html.tmpl", p)
}
