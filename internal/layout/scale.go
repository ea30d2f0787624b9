package layout

import (
	"context"
	"math"
)

// ScaleStrategyName identifies ContinuousScale in config and results.
const ScaleStrategyName = "scale"

// ComputeScale returns min(stageW/naturalW, stageH/naturalH, 1). It never
// scales up.
func ComputeScale(natural, stage Size) (float64, error) {
	if natural.Empty() || stage.Empty() {
		return 0, ErrNotReady
	}
	s := math.Min(stage.Width/natural.Width, stage.Height/natural.Height)
	return math.Min(s, 1), nil
}

// ContinuousScale shrinks the content uniformly until it fits.
type ContinuousScale struct {
	CenterX bool
	CenterY bool
}

func (ContinuousScale) Name() string { return ScaleStrategyName }

// Fit measures at normal density and derives the scale and centring offsets.
func (c ContinuousScale) Fit(ctx context.Context, m Measurer, rows int, stage Size) (Result, error) {
	natural, err := m.Measure(ctx, MeasureRequest{Rows: rows, Density: DensityNormal})
	if err != nil {
		return Result{}, err
	}
	scale, err := ComputeScale(natural, stage)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Strategy: ScaleStrategyName,
		Scale:    scale,
		Density:  DensityNormal,
		Natural:  natural,
		Stage:    stage,
	}
	if c.CenterX {
		res.OffsetX = math.Max(0, (stage.Width-natural.Width*scale)/2)
	}
	if c.CenterY {
		res.OffsetY = math.Max(0, (stage.Height-natural.Height*scale)/2)
	}
	return res, nil
}
