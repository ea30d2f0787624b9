package metrics

import (
	"sync"
	"time"
)

type sourceStats struct {
	loads           int
	errors          int
	lastLoadLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about feed loads, image
// probes and layout fits, and forwards them to OpenTelemetry when configured.
type Recorder struct {
	mu      sync.Mutex
	sources map[string]*sourceStats
	probes  map[string]int
	fits    int
	otel    *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		sources: make(map[string]*sourceStats),
		probes:  make(map[string]int),
		otel:    otel,
	}
}

// RecordFeedLoad increments counters for a feed fetch and stores the last observed latency.
func (r *Recorder) RecordFeedLoad(source string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureSourceLocked(source)
	stats.loads++
	stats.lastLoadLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordFeedLoad(source, duration, err)
	}
}

// RecordImageProbe counts how a background resolution ended (candidate, fallback, manifest-miss).
func (r *Recorder) RecordImageProbe(outcome string, attempts int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.probes[outcome]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordImageProbe(outcome, attempts)
	}
}

// RecordFit tracks a completed layout computation.
func (r *Recorder) RecordFit(strategy string, scale float64, duration time.Duration, err error) {
	if r == nil {
		return
	}
	if err == nil {
		r.mu.Lock()
		r.fits++
		r.mu.Unlock()
	}
	if r.otel != nil {
		r.otel.recordFit(strategy, scale, duration, err)
	}
}

// RecordRotation tracks a view transition.
func (r *Recorder) RecordRotation(view string) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordRotation(view)
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// FeedLoads returns the total fetches recorded for a source.
func (r *Recorder) FeedLoads(source string) int {
	return r.Snapshot(source).Loads
}

// FeedErrors returns the failed fetches recorded for a source.
func (r *Recorder) FeedErrors(source string) int {
	return r.Snapshot(source).Errors
}

// ImageProbes returns how many resolutions ended with the given outcome.
func (r *Recorder) ImageProbes(outcome string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.probes[outcome]
}

// Fits returns the number of successful layout computations.
func (r *Recorder) Fits() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fits
}

// Snapshot returns a copy of the current stats for a feed source.
type Snapshot struct {
	Loads           int
	Errors          int
	LastLoadLatency time.Duration
}

func (r *Recorder) Snapshot(source string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.sources[source]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Loads:           stats.loads,
		Errors:          stats.errors,
		LastLoadLatency: stats.lastLoadLatency,
	}
}

func (r *Recorder) ensureSourceLocked(source string) *sourceStats {
	stats, ok := r.sources[source]
	if !ok {
		stats = &sourceStats{}
		r.sources[source] = stats
	}
	return stats
}
