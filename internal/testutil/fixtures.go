package testutil

import (
	"github.com/preston-bernstein/husker-kiosk/internal/domain/schedule"
	"github.com/preston-bernstein/husker-kiosk/internal/feed"
)

// SampleGame returns an upcoming away game against opponent.
func SampleGame(opponent string) schedule.Game {
	return schedule.Game{
		DateText:       "SEP 6",
		Weekday:        "SATURDAY",
		KickoffDisplay: "2:30 PM",
		Status:         schedule.StatusUpcoming,
		Venue:          "AWAY",
		Divider:        "at",
		Opponent:       opponent,
		City:           "Boulder",
		State:          "CO",
		CityDisplay:    "Boulder, Colo.",
		TeamLogo:       "images/logos/nebraska.png",
		BgKey:          opponent,
	}
}

// FinalGame returns a completed home game with the given outcome and score.
func FinalGame(opponent, outcome, score string) schedule.Game {
	g := SampleGame(opponent)
	g.Divider = "vs."
	g.Venue = "HOME"
	g.City = "Lincoln"
	g.State = "NE"
	g.CityDisplay = "Lincoln, Neb."
	g.Status = schedule.StatusFinal
	g.Outcome = outcome
	g.Score = score
	return g
}

// SampleBundle returns a loaded feed with every game's background listed in the manifest.
func SampleBundle(games ...schedule.Game) feed.Bundle {
	items := make(map[string]schedule.ManifestItem, len(games))
	for _, g := range games {
		items[g.BgKey] = schedule.ManifestItem{Exists: true}
	}
	return feed.Bundle{
		Games:    games,
		Manifest: &schedule.Manifest{ImagesDirectory: "images/stadiums", Items: items},
	}
}
