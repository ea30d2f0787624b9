// Package render turns schedule records into hero and schedule view models and
// renders the kiosk page.
package render

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/preston-bernstein/husker-kiosk/internal/domain/schedule"
)

const (
	// Placeholder stands in for an unknown opponent.
	Placeholder = "TBD"
	// EmptyVenue stands in for a missing city.
	EmptyVenue = "—"
	// PartSeparator joins date-line parts.
	PartSeparator = " • "

	defaultDivider = "vs."
)

var unknownKickoffs = map[string]struct{}{
	"—":   {},
	"TBA": {},
	"TBD": {},
}

// Hero is the featured-game card.
type Hero struct {
	Title        string `json:"title"`
	Divider      string `json:"divider"`
	Opponent     string `json:"opponent"`
	DateLine     string `json:"dateLine"`
	Venue        string `json:"venue"`
	TeamLogo     string `json:"teamLogo,omitempty"`
	OpponentLogo string `json:"opponentLogo,omitempty"`
	TVLogo       string `json:"tvLogo,omitempty"`
	Background   string `json:"background,omitempty"`
	BgKey        string `json:"bgKey,omitempty"`
}

// Row is one compact schedule line.
type Row struct {
	VenueClass   string `json:"venueClass"`
	Date         string `json:"date"`
	Weekday      string `json:"weekday"`
	Result       string `json:"result,omitempty"`
	ResultClass  string `json:"resultClass,omitempty"`
	TeamLogo     string `json:"teamLogo,omitempty"`
	Divider      string `json:"divider"`
	OpponentLogo string `json:"opponentLogo,omitempty"`
	Opponent     string `json:"opponent"`
	Time         string `json:"time,omitempty"`
	City         string `json:"city"`
	TVLogo       string `json:"tvLogo,omitempty"`
}

// HasResult reports whether the row shows a result badge.
func (r Row) HasResult() bool { return r.Result != "" }

// HasTime reports whether the row shows a kickoff chip.
func (r Row) HasTime() bool { return r.Time != "" }

// JoinParts joins the non-empty parts with sep.
func JoinParts(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// IsTimeKnown reports whether a kickoff string is an actual time.
func IsTimeKnown(kickoff string) bool {
	t := strings.ToUpper(strings.TrimSpace(kickoff))
	if t == "" {
		return false
	}
	_, unknown := unknownKickoffs[t]
	return !unknown
}

func divider(g schedule.Game) string {
	d := g.Divider
	if d == "" {
		d = defaultDivider
	}
	return strings.TrimSpace(d)
}

func opponent(g schedule.Game) string {
	if strings.TrimSpace(g.Opponent) == "" {
		return Placeholder
	}
	return g.Opponent
}

func venue(g schedule.Game) string {
	if strings.TrimSpace(g.CityDisplay) == "" {
		return EmptyVenue
	}
	return g.CityDisplay
}

// ShortWeekday abbreviates "SATURDAY" or "saturday" to "Sat".
func ShortWeekday(weekday string) string {
	w := strings.TrimSpace(weekday)
	if r := []rune(w); len(r) > 3 {
		w = string(r[:3])
	}
	return cases.Title(language.English).String(strings.ToLower(w))
}

// BuildHero formats g for the hero card. background is the resolved image URL,
// empty while resolution is still running.
func BuildHero(team string, g schedule.Game, background string) Hero {
	div := divider(g)
	opp := opponent(g)
	return Hero{
		Title:        JoinParts(" ", team, div, opp),
		Divider:      div,
		Opponent:     opp,
		DateLine:     JoinParts(PartSeparator, g.Weekday, g.DateText, g.KickoffDisplay),
		Venue:        venue(g),
		TeamLogo:     g.TeamLogo,
		OpponentLogo: g.OpponentLogo,
		TVLogo:       g.TVLogo,
		Background:   background,
		BgKey:        g.BgKey,
	}
}

// BuildRow formats one schedule line.
func BuildRow(g schedule.Game) Row {
	row := Row{
		VenueClass:   "is-away",
		Date:         g.DateText,
		Weekday:      ShortWeekday(g.Weekday),
		TeamLogo:     g.TeamLogo,
		Divider:      divider(g),
		OpponentLogo: g.OpponentLogo,
		Opponent:     opponent(g),
		City:         venue(g),
		TVLogo:       g.TVLogo,
	}
	if g.VenueType() == schedule.VenueHome {
		row.VenueClass = "is-home"
	}
	if g.IsFinal() && g.Outcome != "" && g.Score != "" {
		row.Result = g.Outcome + " " + g.Score
		row.ResultClass = g.Outcome
	}
	if IsTimeKnown(g.KickoffDisplay) {
		row.Time = g.KickoffDisplay
	}
	return row
}

// BuildRows formats every game in input order.
func BuildRows(games []schedule.Game) []Row {
	rows := make([]Row, 0, len(games))
	for _, g := range games {
		rows = append(rows, BuildRow(g))
	}
	return rows
}
