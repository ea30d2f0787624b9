package teststubs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/husker-kiosk/internal/feed"
	"github.com/preston-bernstein/husker-kiosk/internal/hub"
)

// ErrMissing is returned by StubProber for unknown candidates.
var ErrMissing = errors.New("image not found")

// StubLoader is a test double for kiosk.Loader.
type StubLoader struct {
	mu     sync.Mutex
	bundle feed.Bundle
	err    error
	Calls  atomic.Int32
}

// NewStubLoader returns a loader that yields bundle and err.
func NewStubLoader(bundle feed.Bundle, err error) *StubLoader {
	return &StubLoader{bundle: bundle, err: err}
}

// Set swaps what the next Load returns.
func (s *StubLoader) Set(bundle feed.Bundle, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundle, s.err = bundle, err
}

// Load returns the configured bundle and error while tracking calls.
func (s *StubLoader) Load(ctx context.Context) (feed.Bundle, error) {
	s.Calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bundle, s.err
}

// StubSource is a test double for feed.Source.
type StubSource struct {
	NameVal string
	Data    []byte
	Err     error
	Calls   atomic.Int32
}

func (s *StubSource) Name() string { return s.NameVal }

// Fetch returns the configured payload.
func (s *StubSource) Fetch(ctx context.Context) ([]byte, error) {
	s.Calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Data, s.Err
}

// StubProber succeeds only for URLs listed in OK.
type StubProber struct {
	OK    map[string]bool
	mu    sync.Mutex
	Seen  []string
	Calls atomic.Int32
}

// Probe records the URL and reports whether it is listed.
func (p *StubProber) Probe(ctx context.Context, url string) error {
	p.Calls.Add(1)
	p.mu.Lock()
	p.Seen = append(p.Seen, url)
	p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.OK[url] {
		return nil
	}
	return ErrMissing
}

// RecordingBroadcaster keeps every pushed event.
type RecordingBroadcaster struct {
	mu     sync.Mutex
	events []hub.Event
}

// Broadcast records ev.
func (b *RecordingBroadcaster) Broadcast(ev hub.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
}

// Events returns the recorded events of the given type, or all when typ is empty.
func (b *RecordingBroadcaster) Events(typ string) []hub.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []hub.Event
	for _, ev := range b.events {
		if typ == "" || ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}
