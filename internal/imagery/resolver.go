// Package imagery picks the hero background for a game: manifest check first,
// then candidate probing, then the venue-type default.
package imagery

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/husker-kiosk/internal/domain/schedule"
	"github.com/preston-bernstein/husker-kiosk/internal/logging"
	"github.com/preston-bernstein/husker-kiosk/internal/metrics"
)

// Outcome labels how a resolution ended.
type Outcome string

const (
	OutcomeManifestMiss Outcome = "manifest-miss"
	OutcomeCandidate    Outcome = "candidate"
	OutcomeFallback     Outcome = "fallback"
)

// Resolution is the result of resolving one game's background.
type Resolution struct {
	URL      string  `json:"url"`
	Outcome  Outcome `json:"outcome"`
	Attempts int     `json:"attempts"`
}

// Resolver resolves backgrounds. It keeps no cache: each call re-probes.
type Resolver struct {
	prober     Prober
	imagesPath string
	logger     *slog.Logger
	metrics    *metrics.Recorder
}

// NewResolver constructs a Resolver. An empty imagesPath uses DefaultImagesPath.
func NewResolver(prober Prober, imagesPath string, logger *slog.Logger, recorder *metrics.Recorder) *Resolver {
	if imagesPath == "" {
		imagesPath = DefaultImagesPath
	}
	return &Resolver{
		prober:     prober,
		imagesPath: imagesPath,
		logger:     logger,
		metrics:    recorder,
	}
}

// Fallback returns the venue default for g without probing.
func (r *Resolver) Fallback(g schedule.Game) string {
	return VenueFallback(r.imagesPath, g)
}

// Resolve probes candidates sequentially and always yields a URL. The only
// error is ctx cancellation, in which case the venue default is still returned.
func (r *Resolver) Resolve(ctx context.Context, g schedule.Game, manifest *schedule.Manifest) (Resolution, error) {
	fallback := VenueFallback(r.imagesPath, g)

	if !manifest.Exists(g.BgKey) || r.prober == nil {
		return r.finish(Resolution{URL: fallback, Outcome: OutcomeManifestMiss}), nil
	}

	attempts := 0
	for _, candidate := range Candidates(r.imagesPath, g) {
		if err := ctx.Err(); err != nil {
			return Resolution{URL: fallback, Outcome: OutcomeFallback, Attempts: attempts}, err
		}
		attempts++
		err := r.prober.Probe(ctx, candidate)
		if err == nil {
			return r.finish(Resolution{URL: candidate, Outcome: OutcomeCandidate, Attempts: attempts}), nil
		}
		logging.Debug(r.logger, "background candidate failed",
			slog.String(logging.FieldURL, candidate),
			slog.Any("error", err),
		)
	}

	if err := ctx.Err(); err != nil {
		return Resolution{URL: fallback, Outcome: OutcomeFallback, Attempts: attempts}, err
	}
	return r.finish(Resolution{URL: fallback, Outcome: OutcomeFallback, Attempts: attempts}), nil
}

func (r *Resolver) finish(res Resolution) Resolution {
	r.metrics.RecordImageProbe(string(res.Outcome), res.Attempts)
	return res
}
