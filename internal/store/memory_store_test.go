package store

import (
	"testing"
	"time"

	"github.com/preston-bernstein/husker-kiosk/internal/domain/schedule"
	"github.com/preston-bernstein/husker-kiosk/internal/imagery"
)

func TestMemoryStoreEmptyBeforeLoad(t *testing.T) {
	ms := NewMemoryStore()
	if _, ok := ms.Current(); ok {
		t.Fatal("expected no state before load")
	}
	if ms.Generation() != 0 {
		t.Fatalf("expected generation 0, got %d", ms.Generation())
	}
	if ms.SetBackground(0, imagery.Resolution{URL: "x"}) {
		t.Fatal("expected background rejected before load")
	}
}

func TestMemoryStoreReplaceOverwrites(t *testing.T) {
	ms := NewMemoryStore()
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	first := ms.Replace([]schedule.Game{{Opponent: "A"}, {Opponent: "B"}}, &schedule.Manifest{}, now)
	second := ms.Replace([]schedule.Game{{Opponent: "C"}}, nil, now.Add(time.Minute))
	if second.Generation != first.Generation+1 {
		t.Fatalf("expected generation bump, got %d -> %d", first.Generation, second.Generation)
	}

	cur, ok := ms.Current()
	if !ok {
		t.Fatal("expected state")
	}
	if len(cur.Games) != 1 || cur.Games[0].Opponent != "C" {
		t.Fatalf("expected state replaced, got %+v", cur.Games)
	}
	if !cur.LoadedAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("unexpected load time %s", cur.LoadedAt)
	}
}

func TestMemoryStoreCurrentReturnsCopy(t *testing.T) {
	ms := NewMemoryStore()
	ms.Replace([]schedule.Game{{Opponent: "A"}}, nil, time.Now())

	cur, _ := ms.Current()
	cur.Games[0].Opponent = "mutated"

	again, _ := ms.Current()
	if again.Games[0].Opponent != "A" {
		t.Fatal("expected stored games to be isolated from callers")
	}
}

func TestMemoryStoreRejectsStaleBackground(t *testing.T) {
	ms := NewMemoryStore()
	old := ms.Replace([]schedule.Game{{Opponent: "A"}}, nil, time.Now())
	cur := ms.Replace([]schedule.Game{{Opponent: "B"}}, nil, time.Now())

	if ms.SetBackground(old.Generation, imagery.Resolution{URL: "stale.jpg"}) {
		t.Fatal("expected stale generation to be rejected")
	}
	if !ms.SetBackground(cur.Generation, imagery.Resolution{URL: "fresh.jpg"}) {
		t.Fatal("expected current generation to be applied")
	}
	state, _ := ms.Current()
	if state.Background == nil || state.Background.URL != "fresh.jpg" {
		t.Fatalf("unexpected background %+v", state.Background)
	}
	if next, ok := state.Next(); !ok || next.Opponent != "B" {
		t.Fatalf("unexpected next game %+v", next)
	}
}
