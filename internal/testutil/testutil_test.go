package testutil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/husker-kiosk/internal/domain/schedule"
)

func TestClockHelpers(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := NowAt(now)(); !got.Equal(now) {
		t.Fatalf("expected fixed time, got %v", got)
	}
	if MustParseRFC3339(now.Format(time.RFC3339)) != now {
		t.Fatalf("expected parse round trip")
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on invalid RFC3339")
		}
	}()
	MustParseRFC3339("not-a-time")
}

func TestFixturesHelper(t *testing.T) {
	g := SampleGame("Colorado")
	if g.Opponent != "Colorado" || g.IsFinal() || g.VenueType() != schedule.VenueAway {
		t.Fatalf("unexpected game fixture %+v", g)
	}
	f := FinalGame("Akron", "W", "34-3")
	if !f.IsFinal() || f.VenueType() != schedule.VenueHome || f.Score != "34-3" {
		t.Fatalf("unexpected final fixture %+v", f)
	}
	b := SampleBundle(f, g)
	if len(b.Games) != 2 || !b.Manifest.Exists("Colorado") || !b.Manifest.Exists("Akron") {
		t.Fatalf("unexpected bundle %+v", b)
	}
}

func TestServeHelpers(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	rr := Serve(handler, http.MethodPost, "/test", strings.NewReader("{}"))
	AssertStatus(t, rr, http.StatusCreated)
	var body map[string]bool
	DecodeJSON(t, rr, &body)
	if !body["ok"] {
		t.Fatalf("expected ok=true")
	}

	req := httptest.NewRequest(http.MethodGet, "/req", nil)
	rr2 := ServeRequest(handler, req)
	AssertStatus(t, rr2, http.StatusCreated)
}

func TestServerStubs(t *testing.T) {
	sh := &StubHTTPServer{ListenErr: http.ErrServerClosed, ShutdownErr: errors.New("down")}
	if err := sh.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("expected configured listen error, got %v", err)
	}
	if err := sh.Shutdown(context.Background()); err == nil {
		t.Fatal("expected configured shutdown error")
	}
	if sh.ListenCalls != 1 || sh.ShutdownCalls != 1 || sh.Addr() != ":0" || sh.Handler() == nil {
		t.Fatalf("unexpected stub state %+v", sh)
	}

	b := &BlockingHTTPServer{Unblock: make(chan struct{})}
	done := make(chan error, 1)
	go func() { done <- b.Shutdown(context.Background()) }()
	close(b.Unblock)
	if err := <-done; err != nil {
		t.Fatalf("expected nil shutdown err, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (&BlockingHTTPServer{Unblock: make(chan struct{})}).Shutdown(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestLoggerAndMetricsHelpers(t *testing.T) {
	logger, buf := NewBufferLogger()
	logger.Info("hello", "k", "v")
	if buf.Len() == 0 {
		t.Fatalf("expected buffered log output")
	}
	rec, shutdown := NewRecorderWithShutdown()
	if rec == nil || shutdown == nil {
		t.Fatalf("expected recorder and shutdown")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil shutdown error, got %v", err)
	}
}
