package layout

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/husker-kiosk/internal/logging"
	"github.com/preston-bernstein/husker-kiosk/internal/metrics"
)

// Engine owns the stage size and the current layout result, and recomputes on
// triggers. Recomputes are serialized.
type Engine struct {
	strategy Strategy
	measurer Measurer
	logger   *slog.Logger
	metrics  *metrics.Recorder
	now      func() time.Time

	runMu sync.Mutex

	mu       sync.RWMutex
	viewport Size
	safePx   float64
	current  *Result
	pending  bool
}

// NewEngine constructs an Engine. The stage is the viewport minus safePx on every side.
func NewEngine(strategy Strategy, measurer Measurer, viewport Size, safePx float64, logger *slog.Logger, recorder *metrics.Recorder) *Engine {
	if strategy == nil {
		strategy = NewStrategy(ScaleStrategyName)
	}
	if measurer == nil {
		measurer = NewEstimateMeasurer()
	}
	return &Engine{
		strategy: strategy,
		measurer: measurer,
		logger:   logger,
		metrics:  recorder,
		now:      time.Now,
		viewport: viewport,
		safePx:   safePx,
		pending:  true,
	}
}

// StrategyName reports the configured strategy.
func (e *Engine) StrategyName() string {
	return e.strategy.Name()
}

// viewportAware measurers lay content out in a window of their own and need
// to track the page's size.
type viewportAware interface {
	SetViewport(v Size)
}

// SetViewport records a new viewport size. Callers follow up with Recompute.
func (e *Engine) SetViewport(v Size) {
	e.mu.Lock()
	e.viewport = v
	e.mu.Unlock()
	if m, ok := e.measurer.(viewportAware); ok {
		m.SetViewport(v)
	}
}

// Viewport returns the last known viewport.
func (e *Engine) Viewport() Size {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.viewport
}

// Stage returns the area available to content.
func (e *Engine) Stage() Size {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stageLocked()
}

func (e *Engine) stageLocked() Size {
	return Size{
		Width:  e.viewport.Width - 2*e.safePx,
		Height: e.viewport.Height - 2*e.safePx,
	}
}

// Current returns the applied result; ok is false until a fit succeeds or
// while a recompute has discarded the previous one.
func (e *Engine) Current() (Result, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.current == nil {
		return Result{}, false
	}
	return *e.current, true
}

// Pending reports whether a recompute is still owed (last attempt was not ready).
func (e *Engine) Pending() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pending
}

// Recompute discards the current result, measures afresh and stores the new
// result. ErrNotReady leaves the engine pending with no result applied.
func (e *Engine) Recompute(ctx context.Context, trigger Trigger, rows int) (Result, error) {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	e.mu.Lock()
	e.current = nil
	e.pending = true
	stage := e.stageLocked()
	e.mu.Unlock()

	start := e.now()
	res, err := e.strategy.Fit(ctx, e.measurer, rows, stage)
	e.metrics.RecordFit(e.strategy.Name(), res.Scale, time.Since(start), err)

	logger := logging.FromContext(ctx, e.logger)
	if err != nil {
		if errors.Is(err, ErrNotReady) {
			logging.Debug(logger, "layout not ready, deferring",
				slog.String(logging.FieldTrigger, string(trigger)),
				slog.Int(logging.FieldCount, rows),
			)
		} else {
			logging.Warn(logger, "layout measurement failed",
				slog.String(logging.FieldTrigger, string(trigger)),
				slog.Any("error", err),
			)
		}
		return Result{}, err
	}

	res.Trigger = trigger
	res.ComputedAt = e.now()

	e.mu.Lock()
	e.current = &res
	e.pending = false
	e.mu.Unlock()

	logging.Debug(logger, "layout fitted",
		slog.String(logging.FieldStrategy, res.Strategy),
		slog.String(logging.FieldTrigger, string(trigger)),
		slog.Float64("scale", res.Scale),
		slog.String("density", string(res.Density)),
		slog.Bool("overflow", res.Overflow),
	)
	return res, nil
}
