// Package store holds the kiosk's single in-memory application state.
package store

import (
	"sync"
	"time"

	"github.com/preston-bernstein/husker-kiosk/internal/domain/schedule"
	"github.com/preston-bernstein/husker-kiosk/internal/imagery"
)

// State is one load of the feeds plus what has been derived from it. A reload
// replaces it wholesale; it is never merged.
type State struct {
	Games      []schedule.Game
	Manifest   *schedule.Manifest
	LoadedAt   time.Time
	Generation uint64
	Background *imagery.Resolution
}

// Next returns the featured game for this state.
func (s State) Next() (schedule.Game, bool) {
	return schedule.NextGame(s.Games)
}

// MemoryStore keeps a thread-safe copy of the current state in memory.
type MemoryStore struct {
	mu         sync.RWMutex
	state      State
	loaded     bool
	generation uint64
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Current returns a copy of the current state; ok is false before the first load.
func (s *MemoryStore) Current() (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return State{}, false
	}
	out := s.state
	out.Games = append([]schedule.Game(nil), s.state.Games...)
	if s.state.Background != nil {
		bg := *s.state.Background
		out.Background = &bg
	}
	return out, true
}

// Replace installs a freshly loaded state under a new generation and returns it.
func (s *MemoryStore) Replace(games []schedule.Game, manifest *schedule.Manifest, loadedAt time.Time) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.state = State{
		Games:      append([]schedule.Game(nil), games...),
		Manifest:   manifest,
		LoadedAt:   loadedAt,
		Generation: s.generation,
	}
	s.loaded = true
	return s.state
}

// SetBackground records a resolved hero background, but only when generation
// is still current. It reports whether the result was applied.
func (s *MemoryStore) SetBackground(generation uint64, res imagery.Resolution) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded || s.state.Generation != generation {
		return false
	}
	s.state.Background = &res
	return true
}

// Generation returns the current generation, zero before the first load.
func (s *MemoryStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}
