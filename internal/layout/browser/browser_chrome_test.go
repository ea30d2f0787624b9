package browser

import (
	"bytes"
	"context"
	"flag"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/preston-bernstein/husker-kiosk/internal/domain/schedule"
	"github.com/preston-bernstein/husker-kiosk/internal/layout"
	"github.com/preston-bernstein/husker-kiosk/internal/render"
)

var withChromeDP = flag.String("with-chromedp", "", "The url of the remote debugging port")

// stalePage serves a kiosk page whose schedule block still carries an earlier
// scale transform and density marker, as a page mid-refit would.
func stalePage(t *testing.T) *httptest.Server {
	t.Helper()
	games := []schedule.Game{
		{Opponent: "Akron", Venue: "HOME", Status: schedule.StatusFinal, Outcome: "W", Score: "68-0", CityDisplay: "Lincoln, NE"},
		{Opponent: "Maryland", Divider: "at", Venue: "AWAY", KickoffDisplay: "11:00 AM", CityDisplay: "College Park, MD"},
		{Opponent: "Iowa", Venue: "HOME", KickoffDisplay: "TBD", CityDisplay: "Lincoln, NE"},
	}
	r, err := render.NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	var page bytes.Buffer
	stale := &layout.Result{Strategy: layout.ScaleStrategyName, Scale: 0.5, OffsetX: 40, OffsetY: 20}
	if err := r.Render(&page, render.Page{Team: "Nebraska", Rows: render.BuildRows(games), ActiveView: "schedule", Layout: stale}); err != nil {
		t.Fatalf("render: %v", err)
	}
	body := bytes.Replace(page.Bytes(), []byte(`id="view-all" class="view"`), []byte(`id="view-all" class="view" data-density="ultra"`), 1)

	mux := http.NewServeMux()
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(render.Assets()))))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(body)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestMeasureInChromeIgnoresStaleTransform(t *testing.T) {
	if *withChromeDP == "" {
		t.Skip("--with-chromedp not set")
	}
	srv := stalePage(t)

	m := New(Options{
		RemoteURL: *withChromeDP,
		PageURL:   srv.URL + "/",
		Viewport:  layout.Size{Width: 1920, Height: 1080},
		Timeout:   30 * time.Second,
	})
	defer m.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	normal, err := m.Measure(ctx, layout.MeasureRequest{Rows: 3, Density: layout.DensityNormal})
	if err != nil {
		t.Fatalf("measure normal: %v", err)
	}
	compact, err := m.Measure(ctx, layout.MeasureRequest{Rows: 3, Density: layout.DensityCompact})
	if err != nil {
		t.Fatalf("measure compact: %v", err)
	}

	// .rows is 1600px wide; the stale scale(0.5) would report 800.
	if math.Abs(normal.Width-1600) > 1 {
		t.Fatalf("expected unscaled width 1600, got %+v", normal)
	}
	want := 3*layout.DefaultRowMetrics[layout.DensityNormal].RowHeight + 2*layout.DefaultRowMetrics[layout.DensityNormal].Gap
	if math.Abs(normal.Height-want) > 1 {
		t.Fatalf("expected unscaled normal height %v with the stale marker cleared, got %+v", want, normal)
	}
	if !(compact.Height > 0 && compact.Height < normal.Height) {
		t.Fatalf("expected compact shorter than normal, got compact=%+v normal=%+v", compact, normal)
	}
}
