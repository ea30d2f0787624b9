package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preston-bernstein/husker-kiosk/internal/testutil"
	"github.com/preston-bernstein/husker-kiosk/internal/teststubs"
)

func TestReloadRequiresTokenWhenConfigured(t *testing.T) {
	loader := teststubs.NewStubLoader(testutil.SampleBundle(testutil.SampleGame("Iowa")), nil)
	h := NewAdminHandler(newKiosk(t, loader), "secret", nil)

	req := httptest.NewRequest(http.MethodPost, "/reload", nil)
	rr := testutil.ServeRequest(http.HandlerFunc(h.Reload), req)
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	req = httptest.NewRequest(http.MethodPost, "/reload", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rr = testutil.ServeRequest(http.HandlerFunc(h.Reload), req)
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	if loader.Calls.Load() != 0 {
		t.Fatalf("expected no load without auth, got %d", loader.Calls.Load())
	}

	req = httptest.NewRequest(http.MethodPost, "/reload", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr = testutil.ServeRequest(http.HandlerFunc(h.Reload), req)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestReloadOpenWithoutToken(t *testing.T) {
	loader := teststubs.NewStubLoader(testutil.SampleBundle(testutil.SampleGame("Iowa")), nil)
	h := NewAdminHandler(newKiosk(t, loader), "", nil)

	rr := testutil.Serve(http.HandlerFunc(h.Reload), http.MethodPost, "/reload", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]any
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" || resp["generation"] != float64(1) || resp["games"] != float64(1) {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestReloadFailureKeepsState(t *testing.T) {
	loader := teststubs.NewStubLoader(testutil.SampleBundle(testutil.SampleGame("Iowa")), nil)
	k := newKiosk(t, loader)
	if _, err := k.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	loader.Set(testutil.SampleBundle(), errors.New("manifest timeout"))
	h := NewAdminHandler(k, "", nil)

	rr := testutil.Serve(http.HandlerFunc(h.Reload), http.MethodPost, "/reload", nil)
	testutil.AssertStatus(t, rr, http.StatusBadGateway)

	state, ok := k.State()
	if !ok || state.Generation != 1 || state.Games[0].Opponent != "Iowa" {
		t.Fatalf("expected previous state kept, got %+v", state)
	}
}

func TestReloadRejectsGet(t *testing.T) {
	h := NewAdminHandler(newKiosk(t, nil), "", nil)
	rr := testutil.Serve(http.HandlerFunc(h.Reload), http.MethodGet, "/reload", nil)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}
