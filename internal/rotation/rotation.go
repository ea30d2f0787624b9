// Package rotation alternates the kiosk between the hero and schedule views on
// a fixed interval, unless a lock pins one view.
package rotation

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/preston-bernstein/husker-kiosk/internal/logging"
	"github.com/preston-bernstein/husker-kiosk/internal/metrics"
)

const defaultInterval = 15 * time.Second

// View is one of the two kiosk displays.
type View string

const (
	ViewHero     View = "hero"
	ViewSchedule View = "schedule"
)

// Lock selectors as accepted from config and the page query string.
const (
	LockNext = "next"
	LockAll  = "all"
)

// LockedView maps a lock selector to the view it pins; ok is false for no lock.
func LockedView(lock string) (View, bool) {
	switch strings.ToLower(strings.TrimSpace(lock)) {
	case LockNext:
		return ViewHero, true
	case LockAll:
		return ViewSchedule, true
	default:
		return "", false
	}
}

// Listener is notified after each visible transition.
type Listener func(ctx context.Context, from, to View)

// Status describes the controller's current state.
type Status struct {
	View           View      `json:"view"`
	Locked         bool      `json:"locked"`
	Ticks          int       `json:"ticks"`
	LastTransition time.Time `json:"lastTransition,omitempty"`
}

// Controller is the hero/schedule state machine. It has no terminal state and
// runs until its context is cancelled or Stop is called.
type Controller struct {
	interval time.Duration
	locked   bool
	logger   *slog.Logger
	metrics  *metrics.Recorder
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	mu        sync.RWMutex
	status    Status
	listeners []Listener
}

// New constructs a Controller. The initial view is hero unless lock pins schedule.
func New(interval time.Duration, lock string, logger *slog.Logger, recorder *metrics.Recorder) *Controller {
	if interval <= 0 {
		interval = defaultInterval
	}
	initial := ViewHero
	view, locked := LockedView(lock)
	if locked {
		initial = view
	}
	return &Controller{
		interval: interval,
		locked:   locked,
		logger:   logger,
		metrics:  recorder,
		now:      time.Now,
		done:     make(chan struct{}),
		status:   Status{View: initial, Locked: locked},
	}
}

// OnTransition registers a listener. Register before Start.
func (c *Controller) OnTransition(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Current returns the view being shown.
func (c *Controller) Current() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status.View
}

// Status returns a snapshot of the controller state.
func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Interval reports the rotation period.
func (c *Controller) Interval() time.Duration {
	return c.interval
}

// Start begins ticking until ctx is cancelled or Stop is called.
func (c *Controller) Start(ctx context.Context) {
	c.startMu.Lock()
	if c.started {
		c.startMu.Unlock()
		return
	}
	c.started = true
	c.startMu.Unlock()

	c.ticker = time.NewTicker(c.interval)
	go func() {
		logging.Info(c.logger, "rotation started",
			slog.Int64(logging.FieldDurationMS, c.interval.Milliseconds()),
			slog.String(logging.FieldView, string(c.Current())),
			slog.Bool("locked", c.locked),
		)
		for {
			select {
			case <-ctx.Done():
				c.ticker.Stop()
				logging.Info(c.logger, "rotation stopped")
				return
			case <-c.done:
				c.ticker.Stop()
				logging.Info(c.logger, "rotation stopped")
				return
			case <-c.ticker.C:
				c.Tick(ctx)
			}
		}
	}()
}

// Stop halts the rotation loop.
func (c *Controller) Stop(ctx context.Context) error {
	_ = ctx
	c.stopOnce.Do(func() {
		close(c.done)
	})
	return nil
}

// Tick advances the state machine by one interval. A locked controller counts
// the tick but keeps its view.
func (c *Controller) Tick(ctx context.Context) View {
	c.mu.Lock()
	c.status.Ticks++
	if c.locked {
		view := c.status.View
		c.mu.Unlock()
		return view
	}
	from := c.status.View
	to := ViewSchedule
	if from == ViewSchedule {
		to = ViewHero
	}
	c.status.View = to
	c.status.LastTransition = c.now()
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()

	c.metrics.RecordRotation(string(to))
	logging.Debug(c.logger, "view rotated",
		slog.String("from", string(from)),
		slog.String(logging.FieldView, string(to)),
	)
	for _, l := range listeners {
		l(ctx, from, to)
	}
	return to
}
