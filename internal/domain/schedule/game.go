package schedule

import (
	"encoding/json"
	"strings"
)

// Status values carried by the normalized feed.
const (
	StatusFinal    = "final"
	StatusUpcoming = "upcoming"
	StatusTBD      = "tbd"
)

// Venue describes where a game is played relative to the featured team.
type Venue string

const (
	VenueHome    Venue = "HOME"
	VenueAway    Venue = "AWAY"
	VenueNeutral Venue = "NEUTRAL"
)

// Game is one normalized schedule record. Records are read-only after load.
type Game struct {
	DateText       string            `json:"date_text"`
	Weekday        string            `json:"weekday"`
	KickoffDisplay string            `json:"kickoff_display"`
	Status         string            `json:"status"`
	Outcome        string            `json:"outcome,omitempty"`
	Score          string            `json:"score,omitempty"`
	Venue          string            `json:"home_away_neutral"`
	Divider        string            `json:"divider"`
	Opponent       string            `json:"opponent"`
	City           string            `json:"city,omitempty"`
	State          string            `json:"state,omitempty"`
	CityDisplay    string            `json:"city_display"`
	TVLogo         string            `json:"tv_logo,omitempty"`
	OpponentLogo   string            `json:"opp_logo,omitempty"`
	TeamLogo       string            `json:"ne_logo,omitempty"`
	BgKey          string            `json:"bg_key"`
	BgFileBasename string            `json:"bg_file_basename,omitempty"`
	BgFilename     string            `json:"bg_filename,omitempty"`
	Links          []json.RawMessage `json:"links,omitempty"`
}

// IsFinal reports whether the game has been played.
func (g Game) IsFinal() bool {
	return g.Status == StatusFinal
}

// VenueType returns the upper-cased venue, or "" when absent.
func (g Game) VenueType() Venue {
	return Venue(strings.ToUpper(strings.TrimSpace(g.Venue)))
}

// NextGame picks the game to feature: the first non-final record, else the
// last record when every game is final. ok is false for an empty schedule.
func NextGame(games []Game) (Game, bool) {
	for _, g := range games {
		if !g.IsFinal() {
			return g, true
		}
	}
	if len(games) == 0 {
		return Game{}, false
	}
	return games[len(games)-1], true
}

// Decode parses a normalized schedule document.
func Decode(data []byte) ([]Game, error) {
	var games []Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, err
	}
	return games, nil
}
