package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(envEnvFile, filepath.Join(t.TempDir(), "missing.env"))
	cfg := Load()

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.Feed.ScheduleSource != "fixture" || cfg.Feed.ManifestSource != "fixture" {
		t.Fatalf("expected fixture sources by default, got %+v", cfg.Feed)
	}
	if cfg.Feed.Timeout != defaultFeedTimeout {
		t.Fatalf("expected default feed timeout %s, got %s", defaultFeedTimeout, cfg.Feed.Timeout)
	}
	if cfg.Display.RotateInterval != 15*time.Second {
		t.Fatalf("expected 15s rotation, got %s", cfg.Display.RotateInterval)
	}
	if cfg.Display.ViewLock != "" {
		t.Fatalf("expected no view lock by default, got %q", cfg.Display.ViewLock)
	}
	if cfg.Display.TeamName != "Nebraska" {
		t.Fatalf("expected default team name, got %q", cfg.Display.TeamName)
	}
	if cfg.Layout.Strategy != "scale" || cfg.Layout.Measurer != "estimate" {
		t.Fatalf("unexpected layout defaults %+v", cfg.Layout)
	}
	if cfg.Layout.StageWidth != 1920 || cfg.Layout.StageHeight != 1080 || cfg.Layout.SafePx != 25 {
		t.Fatalf("unexpected stage defaults %+v", cfg.Layout)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.ServiceName != defaultServiceName {
		t.Fatalf("unexpected metrics defaults %+v", cfg.Metrics)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envEnvFile, filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv(envPort, "5000")
	t.Setenv(envScheduleSource, "https://example.com/schedule.json")
	t.Setenv(envManifestSource, "data/stadium_manifest.json")
	t.Setenv(envFeedWatch, "true")
	t.Setenv(envRotateSeconds, "30")
	t.Setenv(envViewLock, "ALL")
	t.Setenv(envFitStrategy, "density")
	t.Setenv(envFitMeasurer, "browser")
	t.Setenv(envChromeURL, "ws://127.0.0.1:9222")
	t.Setenv(envSafePx, "0")
	t.Setenv(envImageProbe, "http")
	t.Setenv(envAdminToken, "secret")

	cfg := Load()

	if cfg.Port != "5000" {
		t.Fatalf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.Feed.ScheduleSource != "https://example.com/schedule.json" {
		t.Fatalf("expected schedule source override, got %s", cfg.Feed.ScheduleSource)
	}
	if !cfg.Feed.Watch {
		t.Fatal("expected feed watch enabled")
	}
	if cfg.Display.RotateInterval != 30*time.Second {
		t.Fatalf("expected 30s rotation, got %s", cfg.Display.RotateInterval)
	}
	if cfg.Display.ViewLock != "all" {
		t.Fatalf("expected lock all, got %q", cfg.Display.ViewLock)
	}
	if cfg.Display.ImageProbe != "http" {
		t.Fatalf("expected http probe, got %q", cfg.Display.ImageProbe)
	}
	if cfg.Layout.Strategy != "density" || cfg.Layout.Measurer != "browser" {
		t.Fatalf("unexpected layout overrides %+v", cfg.Layout)
	}
	if cfg.Layout.SafePx != 0 {
		t.Fatalf("expected zero safe padding to be accepted, got %d", cfg.Layout.SafePx)
	}
	if cfg.AdminToken != "secret" {
		t.Fatalf("expected admin token override, got %q", cfg.AdminToken)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv(envEnvFile, filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv(envFeedTimeout, "not-a-duration")
	t.Setenv(envRotateSeconds, "-4")
	t.Setenv(envViewLock, "sideways")
	t.Setenv(envFitStrategy, "squash")

	cfg := Load()

	if cfg.Feed.Timeout != defaultFeedTimeout {
		t.Fatalf("expected default feed timeout on invalid value, got %s", cfg.Feed.Timeout)
	}
	if cfg.Display.RotateInterval != 15*time.Second {
		t.Fatalf("expected default rotation on invalid value, got %s", cfg.Display.RotateInterval)
	}
	if cfg.Display.ViewLock != "" {
		t.Fatalf("expected unknown lock to be ignored, got %q", cfg.Display.ViewLock)
	}
	if cfg.Layout.Strategy != "scale" {
		t.Fatalf("expected default strategy on unknown value, got %q", cfg.Layout.Strategy)
	}
}

func TestLoadReadsDotenvWithoutOverridingEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kiosk.env")
	if err := os.WriteFile(path, []byte("TEAM_NAME=Huskers\nPORT=7000\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv(envEnvFile, path)
	t.Setenv(envPort, "5001")
	// t.Setenv restores on cleanup; make sure TEAM_NAME starts unset and is cleared afterwards.
	t.Setenv(envTeamName, "")
	os.Unsetenv(envTeamName)

	cfg := Load()

	if cfg.Display.TeamName != "Huskers" {
		t.Fatalf("expected team name from dotenv, got %q", cfg.Display.TeamName)
	}
	if cfg.Port != "5001" {
		t.Fatalf("expected real env to win over dotenv, got %s", cfg.Port)
	}
}

func TestLoadReportsMalformedDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kiosk.env")
	if err := os.WriteFile(path, []byte("BAD-KEY=1\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv(envEnvFile, path)
	t.Setenv(envPort, "")

	cfg := Load()

	if cfg.EnvFileErr == nil {
		t.Fatal("expected malformed env file to be reported")
	}
	if cfg.Port != defaultPort {
		t.Fatalf("expected defaults to still load, got port %q", cfg.Port)
	}
}

func TestLoadMissingDotenvIsNotAnError(t *testing.T) {
	t.Setenv(envEnvFile, filepath.Join(t.TempDir(), "missing.env"))
	if cfg := Load(); cfg.EnvFileErr != nil {
		t.Fatalf("expected no error for a missing env file, got %v", cfg.EnvFileErr)
	}
}
