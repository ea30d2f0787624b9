package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/husker-kiosk/internal/config"
	"github.com/preston-bernstein/husker-kiosk/internal/domain/schedule"
	"github.com/preston-bernstein/husker-kiosk/internal/feed"
	"github.com/preston-bernstein/husker-kiosk/internal/feed/fixture"
	"github.com/preston-bernstein/husker-kiosk/internal/imagery"
	"github.com/preston-bernstein/husker-kiosk/internal/layout"
	"github.com/preston-bernstein/husker-kiosk/internal/logging"
	"github.com/preston-bernstein/husker-kiosk/internal/manifestgen"
	"github.com/preston-bernstein/husker-kiosk/internal/normalize"
	"github.com/preston-bernstein/husker-kiosk/internal/snapshots"
)

const fetchTimeout = 15 * time.Second

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "kioskctl",
		Short:         "Offline tooling for the husker schedule kiosk",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("kioskctl {{.Version}}\n")
	root.AddCommand(newNormalizeCmd(logger), newManifestCmd(logger), newFitCmd())
	return root
}

func newNormalizeCmd(logger *slog.Logger) *cobra.Command {
	var rawLoc, overridesPath, out string
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Convert a raw schedule scrape into the normalized feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(rawLoc) == "" {
				return errors.New("--raw is required")
			}
			data, err := fetch(cmd.Context(), rawSource(rawLoc))
			if err != nil {
				return err
			}
			raw, err := normalize.DecodeRaw(data)
			if err != nil {
				return err
			}
			games := normalize.Normalize(raw, normalize.Options{Overrides: loadOverrides(overridesPath, logger)})
			logging.Info(logger, "normalized schedule", "games", len(games))
			return emit(cmd.OutOrStdout(), out, games, logger)
		},
	}
	cmd.Flags().StringVar(&rawLoc, "raw", "", "Raw scrape file path or http(s) URL")
	cmd.Flags().StringVar(&overridesPath, "overrides", "", "Stadium overrides JSON (optional)")
	cmd.Flags().StringVar(&out, "out", "", "Output file (stdout when empty)")
	return cmd
}

func newManifestCmd(logger *slog.Logger) *cobra.Command {
	var scheduleLoc, imagesDir, out string
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Record which stadium background images exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := fetch(cmd.Context(), feed.NewSource(scheduleLoc, fixture.Schedule, &http.Client{Timeout: fetchTimeout}))
			if err != nil {
				return err
			}
			games, err := schedule.Decode(data)
			if err != nil {
				return fmt.Errorf("decode schedule: %w", err)
			}
			m, err := manifestgen.Generate(games, os.DirFS(imagesDir))
			if err != nil {
				return err
			}
			missing := manifestgen.Missing(m)
			if len(missing) > 0 {
				logging.Warn(logger, "background images missing", "count", len(missing), "keys", missing)
			}
			logging.Info(logger, "generated manifest", "items", m.Len())
			return emit(cmd.OutOrStdout(), out, m, logger)
		},
	}
	cmd.Flags().StringVar(&scheduleLoc, "schedule", "fixture", "Normalized schedule: file path, http(s) URL or fixture")
	cmd.Flags().StringVar(&imagesDir, "images", defaultImagesDir(), "Directory holding stadium images")
	cmd.Flags().StringVar(&out, "out", "", "Output file (stdout when empty)")
	return cmd
}

func newFitCmd() *cobra.Command {
	var (
		rows          int
		width, height float64
		safe          float64
		strategy      string
	)
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Preview the layout fit for a schedule size using row estimates",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows < 0 || width < 0 || height < 0 || safe < 0 {
				return errors.New("--rows, --width, --height and --safe must not be negative")
			}
			engine := layout.NewEngine(layout.NewStrategy(strategy), layout.NewEstimateMeasurer(), layout.Size{Width: width, Height: height}, safe, nil, nil)
			res, err := engine.Recompute(cmd.Context(), layout.TriggerRender, rows)
			if errors.Is(err, layout.ErrNotReady) {
				return fmt.Errorf("nothing to fit: %w", err)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 12, "Number of schedule rows")
	cmd.Flags().Float64Var(&width, "width", 1920, "Viewport width in px")
	cmd.Flags().Float64Var(&height, "height", 1080, "Viewport height in px")
	cmd.Flags().Float64Var(&safe, "safe", 25, "Safe-area padding in px")
	cmd.Flags().StringVar(&strategy, "strategy", layout.ScaleStrategyName, "Fit strategy: scale or density")
	return cmd
}

// defaultImagesDir is where the server serves and probes stadium images, so
// both agree on which images exist.
func defaultImagesDir() string {
	return filepath.Join(config.Load().Display.AssetsDir, filepath.FromSlash(imagery.DefaultImagesPath))
}

func rawSource(loc string) feed.Source {
	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
		return feed.NewHTTPSource(loc, &http.Client{Timeout: fetchTimeout})
	}
	return feed.NewFileSource(loc)
}

func fetch(ctx context.Context, src feed.Source) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	return src.Fetch(ctx)
}

// loadOverrides never fails the run: a missing or malformed file means no overrides.
func loadOverrides(path string, logger *slog.Logger) map[string]string {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logging.Warn(logger, "overrides unavailable", "path", path, "err", err)
		return nil
	}
	overrides, err := normalize.DecodeOverrides(data)
	if err != nil {
		logging.Warn(logger, "overrides ignored", "path", path, "err", err)
		return nil
	}
	return overrides
}

func emit(stdout io.Writer, out string, payload any, logger *slog.Logger) error {
	if strings.TrimSpace(out) == "" {
		return writeJSON(stdout, payload)
	}
	changed, err := snapshots.NewWriter(filepath.Dir(out)).WriteJSON(filepath.Base(out), payload)
	if err != nil {
		return err
	}
	logging.Info(logger, "wrote output", "path", out, "changed", changed)
	return nil
}

func writeJSON(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
