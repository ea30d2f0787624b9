package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/preston-bernstein/husker-kiosk/internal/domain/schedule"
	"github.com/preston-bernstein/husker-kiosk/internal/layout"
	"github.com/preston-bernstein/husker-kiosk/internal/testutil"
)

const rawScrape = `{
  "scraped_at": "2025-08-20T12:00:00Z",
  "games": [
    {"venue_type": "HOME", "date_text": "SEP 6", "divider_text": "vs.", "opponent_name": "Akron",
     "kickoff": "TBA", "location": "Lincoln, Neb.", "status": "upcoming"},
    {"venue_type": "AWAY", "date_text": "OCT 11", "divider_text": "at", "opponent_name": "Maryland",
     "kickoff": "11:00 AM", "location": "College Park, Md.", "status": "upcoming"}
  ]
}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	logger, _ := testutil.NewBufferLogger()
	cmd := newRootCmd(logger)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestNormalizeThenManifest(t *testing.T) {
	dir := t.TempDir()
	rawPath := writeFile(t, dir, "raw.json", rawScrape)
	overrides := writeFile(t, dir, "overrides.json", `{"overrides": {"2025-OCT-11 at Maryland": "Maryland-Capital One Field-MD"}}`)
	normalized := filepath.Join(dir, "data", "schedule.json")

	if _, err := run(t, "normalize", "--raw", rawPath, "--overrides", overrides, "--out", normalized); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	data, err := os.ReadFile(normalized)
	if err != nil {
		t.Fatalf("read normalized: %v", err)
	}
	games, err := schedule.Decode(data)
	if err != nil || len(games) != 2 {
		t.Fatalf("unexpected normalized output %v %s", err, data)
	}
	if games[0].BgKey != "Nebraska-Memorial Stadium-NE" || games[1].BgKey != "Maryland-Capital One Field-MD" {
		t.Fatalf("unexpected keys %q %q", games[0].BgKey, games[1].BgKey)
	}

	images := filepath.Join(dir, "images")
	if err := os.MkdirAll(images, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, images, "Nebraska-Memorial Stadium-NE.jpg", "jpg")

	out, err := run(t, "manifest", "--schedule", normalized, "--images", images)
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	m, err := schedule.DecodeManifest([]byte(out))
	if err != nil {
		t.Fatalf("decode manifest: %v\n%s", err, out)
	}
	if !m.Exists("Nebraska-Memorial Stadium-NE") || m.Exists("Maryland-Capital One Field-MD") || m.Len() != 2 {
		t.Fatalf("unexpected manifest %+v", m)
	}
}

func TestNormalizeIgnoresBrokenOverrides(t *testing.T) {
	dir := t.TempDir()
	rawPath := writeFile(t, dir, "raw.json", rawScrape)
	broken := writeFile(t, dir, "overrides.json", "{not json")

	out, err := run(t, "normalize", "--raw", rawPath, "--overrides", broken)
	if err != nil {
		t.Fatalf("expected run to continue past bad overrides, got %v", err)
	}
	if !strings.Contains(out, `"bg_key": "Maryland-SECU Stadium-MD"`) {
		t.Fatalf("expected computed key in output, got %s", out)
	}

	if _, err := run(t, "normalize", "--raw", rawPath, "--overrides", filepath.Join(dir, "missing.json")); err != nil {
		t.Fatalf("expected missing overrides to be tolerated, got %v", err)
	}
}

func TestNormalizeRequiresRaw(t *testing.T) {
	if _, err := run(t, "normalize"); err == nil {
		t.Fatal("expected error without --raw")
	}
	if _, err := run(t, "normalize", "--raw", filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for unreadable raw file")
	}
}

func TestFitPrintsResult(t *testing.T) {
	out, err := run(t, "fit", "--rows", "12", "--width", "1920", "--height", "1080", "--strategy", "density")
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	var res layout.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode result: %v\n%s", err, out)
	}
	if res.Strategy != layout.DensityStrategyName || res.Density != layout.DensityCompact || res.Scale != 1 {
		t.Fatalf("unexpected fit %+v", res)
	}

	if _, err := run(t, "fit", "--rows", "0"); err == nil {
		t.Fatal("expected error for empty schedule")
	}
	if _, err := run(t, "fit", "--height=-1"); err == nil {
		t.Fatal("expected error for negative viewport")
	}
}

func TestManifestDefaultsToServedImages(t *testing.T) {
	assets := t.TempDir()
	t.Setenv("ENV_FILE", filepath.Join(assets, "missing.env"))
	t.Setenv("ASSETS_DIR", assets)
	stadiums := filepath.Join(assets, "images", "stadiums")
	if err := os.MkdirAll(stadiums, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, stadiums, "Iowa.jpg", "jpg")
	schedulePath := writeFile(t, assets, "schedule.json", `[{"opponent": "Iowa", "bg_key": "Iowa"}]`)

	out, err := run(t, "manifest", "--schedule", schedulePath)
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	m, err := schedule.DecodeManifest([]byte(out))
	if err != nil {
		t.Fatalf("decode manifest: %v\n%s", err, out)
	}
	if !m.Exists("Iowa") {
		t.Fatalf("expected image under ASSETS_DIR to be found, got %+v", m.Items)
	}
}

func TestDefaultImagesDirFollowsServerAssets(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("ASSETS_DIR", "")
	if got, want := defaultImagesDir(), filepath.Join("docs", "images", "stadiums"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
