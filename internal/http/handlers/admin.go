package handlers

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/husker-kiosk/internal/http/requestutil"
	"github.com/preston-bernstein/husker-kiosk/internal/logging"
	"github.com/preston-bernstein/husker-kiosk/internal/store"
)

// Reloader re-fetches the feeds.
type Reloader interface {
	Reload(ctx context.Context) (store.State, error)
}

// AdminHandler exposes the manual reload endpoint.
type AdminHandler struct {
	kiosk  Reloader
	token  string
	logger *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. With an empty token the reload
// endpoint is open, which is what the on-screen reload key relies on.
func NewAdminHandler(k Reloader, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		kiosk:  k,
		token:  token,
		logger: logger,
	}
}

// Reload re-fetches both feeds. A failed load leaves the displayed state as is.
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	if !h.authorize(r) {
		logging.Warn(logger, "reload unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}

	state, err := h.kiosk.Reload(r.Context())
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "reload failed; previous data kept", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"generation": state.Generation,
		"games":      len(state.Games),
	}, h.logger)
	logging.Info(logger, "manual reload complete",
		slog.Uint64(logging.FieldGeneration, state.Generation),
		slog.Int(logging.FieldCount, len(state.Games)),
	)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return true
	}
	got := r.Header.Get("Authorization")
	want := "Bearer " + h.token
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
