package layout

import "context"

// RowMetrics is the vertical footprint of one schedule row at a density.
type RowMetrics struct {
	RowHeight float64
	Gap       float64
}

// EstimateMeasurer models the schedule block arithmetically from the row count,
// using the same per-density tokens as the page stylesheet.
type EstimateMeasurer struct {
	Width   float64
	Metrics map[Density]RowMetrics
}

// DefaultRowMetrics mirrors the --row-h/--row-gap tokens in the page stylesheet.
var DefaultRowMetrics = map[Density]RowMetrics{
	DensityNormal:  {RowHeight: 96, Gap: 14},
	DensityCompact: {RowHeight: 74, Gap: 10},
	DensityUltra:   {RowHeight: 58, Gap: 6},
}

// DefaultContentWidth is the design width of the schedule block.
const DefaultContentWidth = 1600

// NewEstimateMeasurer returns a measurer using the default page metrics.
func NewEstimateMeasurer() *EstimateMeasurer {
	return &EstimateMeasurer{Width: DefaultContentWidth, Metrics: DefaultRowMetrics}
}

// Measure returns zero size for an empty schedule.
func (e *EstimateMeasurer) Measure(ctx context.Context, req MeasureRequest) (Size, error) {
	if err := ctx.Err(); err != nil {
		return Size{}, err
	}
	if req.Rows <= 0 {
		return Size{}, nil
	}
	m, ok := e.Metrics[req.Density]
	if !ok {
		m = e.Metrics[DensityNormal]
	}
	rows := float64(req.Rows)
	return Size{
		Width:  e.Width,
		Height: rows*m.RowHeight + (rows-1)*m.Gap,
	}, nil
}
