// Package layout fits the schedule content block into the kiosk stage, either
// by a uniform shrink factor or by stepping through density presets.
package layout

import (
	"context"
	"errors"
	"time"
)

// ErrNotReady means the content has no measurable size yet (or the stage has
// none). Nothing is applied; the next trigger retries.
var ErrNotReady = errors.New("layout: content not ready for measurement")

// Size is a width/height pair in CSS pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether either dimension is non-positive.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Density is a named visual-compactness preset.
type Density string

const (
	DensityNormal  Density = "normal"
	DensityCompact Density = "compact"
	DensityUltra   Density = "ultra"
)

// Densities lists presets from least to most compact.
var Densities = []Density{DensityNormal, DensityCompact, DensityUltra}

// ParseDensity maps a marker value back to a preset; unknown values are normal.
func ParseDensity(raw string) Density {
	for _, d := range Densities {
		if string(d) == raw {
			return d
		}
	}
	return DensityNormal
}

// Trigger names the event that asked for a recompute.
type Trigger string

const (
	TriggerRender      Trigger = "render"
	TriggerResize      Trigger = "resize"
	TriggerOrientation Trigger = "orientation"
	TriggerViewSwitch  Trigger = "view-switch"
	TriggerFontsLoaded Trigger = "fonts-loaded"
)

// MeasureRequest describes what to measure: the schedule with Rows rows,
// rendered unscaled at Density.
type MeasureRequest struct {
	Rows    int
	Density Density
}

// Measurer reports the natural (untransformed) size of the content block.
type Measurer interface {
	Measure(ctx context.Context, req MeasureRequest) (Size, error)
}

// Result is one layout decision.
type Result struct {
	Strategy   string    `json:"strategy"`
	Scale      float64   `json:"scale"`
	Density    Density   `json:"density"`
	Natural    Size      `json:"natural"`
	Stage      Size      `json:"stage"`
	OffsetX    float64   `json:"offsetX"`
	OffsetY    float64   `json:"offsetY"`
	Overflow   bool      `json:"overflow"`
	Trigger    Trigger   `json:"trigger,omitempty"`
	ComputedAt time.Time `json:"computedAt"`
}

// Strategy turns measurements into a Result.
type Strategy interface {
	Name() string
	Fit(ctx context.Context, m Measurer, rows int, stage Size) (Result, error)
}

// NewStrategy returns the strategy for a config name: "density" selects
// discrete density fitting, anything else continuous scaling centred on both axes.
func NewStrategy(name string) Strategy {
	if name == DensityStrategyName {
		return DiscreteDensity{}
	}
	return ContinuousScale{CenterX: true, CenterY: true}
}
