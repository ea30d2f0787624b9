package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/preston-bernstein/husker-kiosk/internal/domain/schedule"
	"github.com/preston-bernstein/husker-kiosk/internal/imagery"
	"github.com/preston-bernstein/husker-kiosk/internal/kiosk"
	"github.com/preston-bernstein/husker-kiosk/internal/layout"
	"github.com/preston-bernstein/husker-kiosk/internal/logging"
	"github.com/preston-bernstein/husker-kiosk/internal/render"
	"github.com/preston-bernstein/husker-kiosk/internal/store"
)

const maxBodyBytes = 4 << 10

// Kiosk is the controller surface the HTTP layer drives.
type Kiosk interface {
	Status() kiosk.Status
	State() (store.State, bool)
	Page(opts kiosk.PageOptions) render.Page
	Reload(ctx context.Context) (store.State, error)
	SetViewport(ctx context.Context, size layout.Size, trigger layout.Trigger) (layout.Result, error)
	FontsLoaded(ctx context.Context) (layout.Result, error)
}

// Handler wires HTTP routes to the kiosk controller.
type Handler struct {
	kiosk    Kiosk
	renderer *render.Renderer
	logger   *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(k Kiosk, renderer *render.Renderer, logger *slog.Logger) *Handler {
	return &Handler{
		kiosk:    k,
		renderer: renderer,
		logger:   logger,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports 200 once a feed load has succeeded, 503 before that.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	status := h.kiosk.Status()
	if status.Loaded {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Page renders the kiosk page. Query switches: view=next|all locks the view,
// debug=1 shows the load line, measure=1 renders the bare schedule for the
// layout measurer.
func (h *Handler) Page(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.URL.Path != "/" {
		writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
		return
	}
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	q := r.URL.Query()
	page := h.kiosk.Page(kiosk.PageOptions{
		Lock:    q.Get("view"),
		Debug:   q.Get("debug") == "1",
		Measure: q.Get("measure") == "1",
	})

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page); err != nil {
		logging.Error(loggerFromContext(r, h.logger), "page render failed", err)
		writeError(w, r, nethttp.StatusInternalServerError, "render failed", h.logger)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(nethttp.StatusOK)
	_, _ = buf.WriteTo(w)
}

// StateResponse is the JSON view of the current kiosk state.
type StateResponse struct {
	Loaded     bool                `json:"loaded"`
	Generation uint64              `json:"generation"`
	LoadedAt   *time.Time          `json:"loadedAt,omitempty"`
	View       string              `json:"view"`
	Next       *schedule.Game      `json:"next,omitempty"`
	Background *imagery.Resolution `json:"background,omitempty"`
	Layout     *layout.Result      `json:"layout,omitempty"`
	Games      []schedule.Game     `json:"games"`
	LastError  string              `json:"lastError,omitempty"`
}

// State returns the loaded games and everything derived from them.
func (h *Handler) State(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	page := h.kiosk.Page(kiosk.PageOptions{})
	status := h.kiosk.Status()
	resp := StateResponse{
		View:      page.ActiveView,
		Layout:    page.Layout,
		Games:     []schedule.Game{},
		LastError: status.LastError,
	}
	if state, ok := h.kiosk.State(); ok {
		resp.Loaded = true
		resp.Generation = state.Generation
		loadedAt := state.LoadedAt
		resp.LoadedAt = &loadedAt
		resp.Games = state.Games
		resp.Background = state.Background
		if next, ok := state.Next(); ok {
			resp.Next = &next
		}
	}
	writeJSON(w, nethttp.StatusOK, resp, h.logger)
}

type viewportRequest struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Trigger string  `json:"trigger"`
}

// Viewport records the page's window size and refits the schedule.
func (h *Handler) Viewport(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodPost, h.logger) {
		return
	}
	var req viewportRequest
	dec := json.NewDecoder(nethttp.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, nethttp.StatusBadRequest, "invalid viewport body", h.logger)
		return
	}
	// A zero size would replace the stage every other refit depends on.
	if req.Width <= 0 || req.Height <= 0 {
		writeError(w, r, nethttp.StatusBadRequest, "viewport size must be positive", h.logger)
		return
	}
	trigger := layout.TriggerResize
	if layout.Trigger(req.Trigger) == layout.TriggerOrientation {
		trigger = layout.TriggerOrientation
	}
	res, err := h.kiosk.SetViewport(r.Context(), layout.Size{Width: req.Width, Height: req.Height}, trigger)
	h.writeFit(w, r, res, err)
}

// FontsLoaded refits once the page reports its web fonts are ready.
func (h *Handler) FontsLoaded(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodPost, h.logger) {
		return
	}
	res, err := h.kiosk.FontsLoaded(r.Context())
	h.writeFit(w, r, res, err)
}

func (h *Handler) writeFit(w nethttp.ResponseWriter, r *nethttp.Request, res layout.Result, err error) {
	switch {
	case errors.Is(err, layout.ErrNotReady):
		writeJSON(w, nethttp.StatusAccepted, map[string]string{"status": "pending"}, h.logger)
	case err != nil:
		logging.Warn(loggerFromContext(r, h.logger), "fit failed", slog.Any("error", err))
		writeError(w, r, nethttp.StatusInternalServerError, "fit failed", h.logger)
	default:
		writeJSON(w, nethttp.StatusOK, res, h.logger)
	}
}

func requireMethod(w nethttp.ResponseWriter, r *nethttp.Request, method string, logger *slog.Logger) bool {
	if r.Method == method || (method == nethttp.MethodGet && r.Method == nethttp.MethodHead) {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", logger)
	return false
}
