// Package kiosk owns the application state and coordinates loading, hero
// background resolution, layout fitting and view rotation.
package kiosk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/husker-kiosk/internal/feed"
	"github.com/preston-bernstein/husker-kiosk/internal/hub"
	"github.com/preston-bernstein/husker-kiosk/internal/imagery"
	"github.com/preston-bernstein/husker-kiosk/internal/layout"
	"github.com/preston-bernstein/husker-kiosk/internal/logging"
	"github.com/preston-bernstein/husker-kiosk/internal/render"
	"github.com/preston-bernstein/husker-kiosk/internal/rotation"
	"github.com/preston-bernstein/husker-kiosk/internal/store"
)

// Loader fetches both feed documents.
type Loader interface {
	Load(ctx context.Context) (feed.Bundle, error)
}

// Broadcaster pushes events to connected pages.
type Broadcaster interface {
	Broadcast(ev hub.Event)
}

// Options wires a Controller.
type Options struct {
	Team     string
	Loader   Loader
	Resolver *imagery.Resolver
	Engine   *layout.Engine
	Rotation *rotation.Controller
	Store    *store.MemoryStore
	Hub      Broadcaster
	Logger   *slog.Logger
	Now      func() time.Time
}

// Status summarises load health for readiness checks.
type Status struct {
	Loaded      bool      `json:"loaded"`
	Generation  uint64    `json:"generation"`
	LastError   string    `json:"lastError,omitempty"`
	LastAttempt time.Time `json:"lastAttempt,omitempty"`
}

// Controller is the single owner of kiosk state transitions.
type Controller struct {
	team     string
	loader   Loader
	resolver *imagery.Resolver
	engine   *layout.Engine
	rotation *rotation.Controller
	store    *store.MemoryStore
	hub      Broadcaster
	logger   *slog.Logger
	now      func() time.Time

	// probeCtx outlives individual requests; background probes run under it.
	probeCtx    context.Context
	probeCancel context.CancelFunc
	probes      sync.WaitGroup
	probeMu     sync.Mutex
	stopped     bool

	reloadMu sync.Mutex

	statusMu sync.RWMutex
	status   Status
}

// New constructs a Controller. Missing collaborators get defaults.
func New(opts Options) *Controller {
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.Engine == nil {
		opts.Engine = layout.NewEngine(nil, nil, layout.Size{Width: 1920, Height: 1080}, 0, opts.Logger, nil)
	}
	if opts.Rotation == nil {
		opts.Rotation = rotation.New(0, "", opts.Logger, nil)
	}
	if opts.Resolver == nil {
		opts.Resolver = imagery.NewResolver(nil, "", opts.Logger, nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	probeCtx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		team:        opts.Team,
		loader:      opts.Loader,
		resolver:    opts.Resolver,
		engine:      opts.Engine,
		rotation:    opts.Rotation,
		store:       opts.Store,
		hub:         opts.Hub,
		logger:      opts.Logger,
		now:         opts.Now,
		probeCtx:    probeCtx,
		probeCancel: cancel,
	}
	c.rotation.OnTransition(c.onTransition)
	return c
}

// Start begins view rotation. Call Reload separately for the initial load.
func (c *Controller) Start(ctx context.Context) {
	c.rotation.Start(ctx)
}

// Stop halts rotation, abandons in-flight probes and waits for them to return.
func (c *Controller) Stop(ctx context.Context) error {
	err := c.rotation.Stop(ctx)
	c.probeMu.Lock()
	c.stopped = true
	c.probeMu.Unlock()
	c.probeCancel()
	c.probes.Wait()
	return err
}

// Wait blocks until all background probes have finished.
func (c *Controller) Wait() {
	c.probes.Wait()
}

// Status returns the latest load status.
func (c *Controller) Status() Status {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.status
}

// Ready reports whether a feed load has ever succeeded.
func (c *Controller) Ready() bool {
	return c.Status().Loaded
}

// State returns the current application state.
func (c *Controller) State() (store.State, bool) {
	return c.store.Current()
}

// Engine exposes the layout engine.
func (c *Controller) Engine() *layout.Engine {
	return c.engine
}

// Rotation exposes the view rotation controller.
func (c *Controller) Rotation() *rotation.Controller {
	return c.rotation
}

// Reload fetches both feeds and, only if both succeed, replaces the state,
// starts hero background resolution and refits the schedule. On failure the
// previous state stays in place and nothing is retried.
func (c *Controller) Reload(ctx context.Context) (store.State, error) {
	if c.loader == nil {
		return store.State{}, errors.New("kiosk: no loader configured")
	}
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	logger := logging.FromContext(ctx, c.logger)
	attempt := c.now()
	bundle, err := c.loader.Load(ctx)
	if err != nil {
		c.recordStatus(func(s *Status) {
			s.LastError = err.Error()
			s.LastAttempt = attempt
		})
		logging.Error(logger, "feed reload failed", err)
		return store.State{}, fmt.Errorf("reload feeds: %w", err)
	}

	state := c.store.Replace(bundle.Games, bundle.Manifest, c.now())
	c.recordStatus(func(s *Status) {
		s.Loaded = true
		s.Generation = state.Generation
		s.LastError = ""
		s.LastAttempt = attempt
	})
	logging.Info(logger, "feeds loaded",
		slog.Int(logging.FieldCount, len(state.Games)),
		slog.Uint64(logging.FieldGeneration, state.Generation),
		slog.Int("manifest_items", state.Manifest.Len()),
	)
	c.broadcast(hub.Event{Type: hub.EventReloaded, Generation: state.Generation})

	c.startBackground(state)

	if _, err := c.Refit(ctx, layout.TriggerRender); err != nil && !errors.Is(err, layout.ErrNotReady) {
		logging.Warn(logger, "initial fit failed", slog.Any("error", err))
	}
	return state, nil
}

// startBackground resolves the hero background off the request path. The
// result is only applied if no reload happened in the meantime.
func (c *Controller) startBackground(state store.State) {
	next, ok := state.Next()
	if !ok {
		return
	}
	// No new probes once Stop has started waiting.
	c.probeMu.Lock()
	if c.stopped {
		c.probeMu.Unlock()
		return
	}
	c.probes.Add(1)
	c.probeMu.Unlock()
	go func() {
		defer c.probes.Done()
		res, err := c.resolver.Resolve(c.probeCtx, next, state.Manifest)
		if err != nil {
			logging.Debug(c.logger, "background resolution abandoned", slog.Any("error", err))
			return
		}
		if !c.store.SetBackground(state.Generation, res) {
			logging.Debug(c.logger, "discarding stale background",
				slog.Uint64(logging.FieldGeneration, state.Generation),
				slog.String(logging.FieldURL, res.URL),
			)
			return
		}
		logging.Debug(c.logger, "background resolved",
			slog.String(logging.FieldURL, res.URL),
			slog.String("outcome", string(res.Outcome)),
		)
		c.broadcast(hub.Event{Type: hub.EventBackground, URL: res.URL, Generation: state.Generation})
	}()
}

// Refit recomputes the schedule layout for the current rows and pushes it.
func (c *Controller) Refit(ctx context.Context, trigger layout.Trigger) (layout.Result, error) {
	rows := 0
	if state, ok := c.store.Current(); ok {
		rows = len(state.Games)
	}
	res, err := c.engine.Recompute(ctx, trigger, rows)
	if err != nil {
		return layout.Result{}, err
	}
	c.broadcast(hub.Event{Type: hub.EventLayout, Layout: &res})
	return res, nil
}

// SetViewport records the page's window size and refits.
func (c *Controller) SetViewport(ctx context.Context, size layout.Size, trigger layout.Trigger) (layout.Result, error) {
	if trigger == "" {
		trigger = layout.TriggerResize
	}
	c.engine.SetViewport(size)
	return c.Refit(ctx, trigger)
}

// FontsLoaded refits once web fonts have settled text metrics.
func (c *Controller) FontsLoaded(ctx context.Context) (layout.Result, error) {
	return c.Refit(ctx, layout.TriggerFontsLoaded)
}

func (c *Controller) onTransition(ctx context.Context, from, to rotation.View) {
	c.broadcast(hub.Event{Type: hub.EventView, View: string(to)})
	if to != rotation.ViewSchedule {
		return
	}
	// The schedule was hidden; lay it out again now that it is visible.
	if _, err := c.Refit(ctx, layout.TriggerViewSwitch); err != nil && !errors.Is(err, layout.ErrNotReady) {
		logging.Warn(c.logger, "view switch fit failed", slog.Any("error", err))
	}
}

// JoinEvents is the catch-up sequence for a newly connected page.
func (c *Controller) JoinEvents() []hub.Event {
	events := []hub.Event{{Type: hub.EventView, View: string(c.rotation.Current())}}
	if res, ok := c.engine.Current(); ok {
		events = append(events, hub.Event{Type: hub.EventLayout, Layout: &res})
	}
	if state, ok := c.store.Current(); ok && state.Background != nil {
		events = append(events, hub.Event{Type: hub.EventBackground, URL: state.Background.URL, Generation: state.Generation})
	}
	return events
}

// PageOptions are the per-request display switches.
type PageOptions struct {
	Lock    string
	Debug   bool
	Measure bool
}

// Page builds the page model for the current state.
func (c *Controller) Page(opts PageOptions) render.Page {
	page := render.Page{
		Team:          c.team,
		ActiveView:    string(c.rotation.Current()),
		Debug:         opts.Debug,
		RotateSeconds: int(c.rotation.Interval() / time.Second),
		Measure:       opts.Measure,
	}
	if view, ok := rotation.LockedView(opts.Lock); ok {
		page.Lock = opts.Lock
		page.ActiveView = string(view)
	}
	if opts.Measure {
		page.ActiveView = string(rotation.ViewSchedule)
	}

	state, ok := c.store.Current()
	if !ok {
		return page
	}
	page.LoadedAt = state.LoadedAt
	page.Generation = state.Generation
	page.Rows = render.BuildRows(state.Games)
	if next, ok := state.Next(); ok {
		bg := ""
		if state.Background != nil {
			bg = state.Background.URL
		}
		hero := render.BuildHero(c.team, next, bg)
		page.Hero = &hero
	}
	if res, ok := c.engine.Current(); ok {
		page.Layout = &res
	}
	return page
}

func (c *Controller) broadcast(ev hub.Event) {
	if c.hub != nil {
		c.hub.Broadcast(ev)
	}
}

func (c *Controller) recordStatus(fn func(*Status)) {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	fn(&c.status)
}
