package layout

import "context"

// DensityStrategyName identifies DiscreteDensity in config and results.
const DensityStrategyName = "density"

// DiscreteDensity steps through Densities and keeps the first preset whose
// measured height fits. Text stays at defined sizes; when nothing fits the most
// compact preset is kept and Overflow is set.
type DiscreteDensity struct{}

func (DiscreteDensity) Name() string { return DensityStrategyName }

func (DiscreteDensity) Fit(ctx context.Context, m Measurer, rows int, stage Size) (Result, error) {
	if stage.Empty() {
		return Result{}, ErrNotReady
	}

	var res Result
	for i, level := range Densities {
		natural, err := m.Measure(ctx, MeasureRequest{Rows: rows, Density: level})
		if err != nil {
			return Result{}, err
		}
		if natural.Empty() {
			return Result{}, ErrNotReady
		}
		res = Result{
			Strategy: DensityStrategyName,
			Scale:    1,
			Density:  level,
			Natural:  natural,
			Stage:    stage,
		}
		if natural.Height <= stage.Height {
			return res, nil
		}
		if i == len(Densities)-1 {
			res.Overflow = true
		}
	}
	return res, nil
}
