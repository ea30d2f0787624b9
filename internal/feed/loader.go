package feed

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/husker-kiosk/internal/domain/schedule"
	"github.com/preston-bernstein/husker-kiosk/internal/logging"
	"github.com/preston-bernstein/husker-kiosk/internal/metrics"
)

// Bundle is one consistent load of both documents.
type Bundle struct {
	Games    []schedule.Game
	Manifest *schedule.Manifest
}

// Loader fetches the schedule and manifest concurrently.
type Loader struct {
	schedule Source
	manifest Source
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *metrics.Recorder
}

// NewLoader constructs a Loader. A non-positive timeout disables the per-load deadline.
func NewLoader(scheduleSrc, manifestSrc Source, timeout time.Duration, logger *slog.Logger, recorder *metrics.Recorder) *Loader {
	return &Loader{
		schedule: scheduleSrc,
		manifest: manifestSrc,
		timeout:  timeout,
		logger:   logger,
		metrics:  recorder,
	}
}

// Sources returns the configured schedule and manifest sources.
func (l *Loader) Sources() (Source, Source) {
	return l.schedule, l.manifest
}

// Load fetches and decodes both documents. Both must succeed; there is no
// partial result and no retry.
func (l *Loader) Load(ctx context.Context) (Bundle, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	var bundle Bundle
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := l.fetch(gctx, l.schedule)
		if err != nil {
			return err
		}
		games, err := schedule.Decode(data)
		if err != nil {
			return &FetchError{Source: l.schedule.Name(), Err: err}
		}
		bundle.Games = games
		return nil
	})

	g.Go(func() error {
		data, err := l.fetch(gctx, l.manifest)
		if err != nil {
			return err
		}
		m, err := schedule.DecodeManifest(data)
		if err != nil {
			return &FetchError{Source: l.manifest.Name(), Err: err}
		}
		bundle.Manifest = m
		return nil
	})

	if err := g.Wait(); err != nil {
		return Bundle{}, err
	}
	return bundle, nil
}

func (l *Loader) fetch(ctx context.Context, src Source) ([]byte, error) {
	start := time.Now()
	data, err := src.Fetch(ctx)
	duration := time.Since(start)
	l.metrics.RecordFeedLoad(src.Name(), duration, err)
	if err != nil {
		logging.Warn(logging.FromContext(ctx, l.logger), "feed fetch failed",
			slog.String(logging.FieldSource, src.Name()),
			slog.Int64(logging.FieldDurationMS, duration.Milliseconds()),
			slog.Any("error", err),
		)
		return nil, err
	}
	return data, nil
}
