// Package normalize turns the raw schedule scrape into the compact game
// records the kiosk displays, including the background image key for each
// game.
package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/preston-bernstein/husker-kiosk/internal/domain/schedule"
	"github.com/preston-bernstein/husker-kiosk/internal/timeutil"
)

const (
	unknownKickoff = "—"
	defaultDivider = "vs."
	unknownTeam    = "Unknown"
	genericStadium = "Stadium"
	unknownState   = "XX"
	backgroundExt  = ".jpg"
)

// Stadium is a venue used to build background keys.
type Stadium struct {
	Name  string
	State string
}

// HomeStadium is where every HOME game is played.
var HomeStadium = struct {
	Team string
	Stadium
}{Team: "Nebraska", Stadium: Stadium{Name: "Memorial Stadium", State: "NE"}}

// OpponentStadiums is consulted only when the scraped location names no stadium.
var OpponentStadiums = map[string]Stadium{
	"Maryland":   {Name: "SECU Stadium", State: "MD"},
	"Minnesota":  {Name: "Huntington Bank Stadium", State: "MN"},
	"UCLA":       {Name: "Rose Bowl", State: "CA"},
	"Penn State": {Name: "Beaver Stadium", State: "PA"},
	"Nebraska":   {Name: "Memorial Stadium", State: "NE"},
}

// Options tune a normalization run.
type Options struct {
	// Overrides replace the computed background key, keyed by GameKey.
	Overrides map[string]string
	// Now supplies the season year when the scrape carries no timestamp.
	Now func() time.Time
}

var (
	whitespace = regexp.MustCompile(`\s+`)
	dashRuns   = regexp.MustCompile(`-{2,}`)
)

// Normalize converts every scraped game, preserving order.
func Normalize(raw RawSchedule, opts Options) []schedule.Game {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	year := timeutil.SeasonYear(raw.ScrapedAt, now())

	out := make([]schedule.Game, 0, len(raw.Games))
	for _, g := range raw.Games {
		out = append(out, normalizeGame(g, year, opts.Overrides))
	}
	return out
}

func normalizeGame(g RawGame, year int, overrides map[string]string) schedule.Game {
	venue := strings.ToUpper(strings.TrimSpace(g.VenueType))
	dateText := strings.TrimSpace(g.DateText)
	// Only an absent divider gets the default; a blank one trims to "".
	divider := g.DividerText
	if divider == "" {
		divider = defaultDivider
	}
	divider = strings.TrimSpace(divider)
	opponent := strings.TrimSpace(g.OpponentName)

	status := g.Status
	if status == "" {
		status = schedule.StatusTBD
	}
	var outcome, score string
	if status == schedule.StatusFinal && g.Result != nil {
		outcome, score = g.Result.Outcome, g.Result.Score
	}

	loc := ParseLocation(g.Location)
	team, stadium, state := backgroundParts(venue, opponent, loc)
	if ov := overrides[GameKey(year, dateText, divider, opponent)]; ov != "" {
		if t, s, st, ok := splitOverride(ov); ok {
			team, stadium, state = t, s, st
		} else {
			team = ov
		}
	}
	bgKey := team + "-" + stadium + "-" + state
	base := Dashify(bgKey)

	links := g.Links
	if links == nil {
		links = []json.RawMessage{}
	}

	return schedule.Game{
		DateText:       MonthTitleCase(dateText),
		Weekday:        strings.TrimSpace(g.Weekday),
		KickoffDisplay: KickoffDisplay(g.Kickoff),
		Status:         status,
		Outcome:        outcome,
		Score:          score,
		Venue:          venue,
		Divider:        divider,
		Opponent:       opponent,
		City:           loc.City,
		State:          loc.State,
		CityDisplay:    loc.CityDisplay(),
		TVLogo:         g.TVNetworkLogoURL,
		OpponentLogo:   g.OpponentLogoURL,
		TeamLogo:       g.NebraskaLogoURL,
		BgKey:          bgKey,
		BgFileBasename: base,
		BgFilename:     base + backgroundExt,
		Links:          links,
	}
}

// backgroundParts picks the team, stadium and state that name a game's
// background image.
func backgroundParts(venue, opponent string, loc Location) (team, stadium, state string) {
	if venue == string(schedule.VenueHome) {
		return HomeStadium.Team, HomeStadium.Name, HomeStadium.State
	}
	team = opponent
	if team == "" {
		team = unknownTeam
	}
	state = loc.State
	if state == "" {
		state = unknownState
	}
	if loc.Stadium != "" {
		return team, loc.Stadium, state
	}
	if s, ok := OpponentStadiums[opponent]; ok {
		return team, s.Name, s.State
	}
	return team, genericStadium, state
}

// splitOverride splits "Team-Stadium-State" on its last two dashes so team
// names may contain dashes. ok is false when there are fewer than two.
func splitOverride(v string) (team, stadium, state string, ok bool) {
	i := strings.LastIndex(v, "-")
	if i < 0 {
		return "", "", "", false
	}
	j := strings.LastIndex(v[:i], "-")
	if j < 0 {
		return "", "", "", false
	}
	return v[:j], v[j+1 : i], v[i+1:], true
}

// GameKey identifies a game for overrides: "YYYY-MMM-DD <divider> <Opponent>".
func GameKey(year int, dateText, divider, opponent string) string {
	parts := strings.Fields(dateText)
	if len(parts) == 2 {
		month := strings.ToUpper(parts[0])
		if len(month) > 3 {
			month = month[:3]
		}
		day := parts[1]
		if len(day) < 2 {
			day = strings.Repeat("0", 2-len(day)) + day
		}
		return fmt.Sprintf("%d-%s-%s %s %s", year, month, day, strings.TrimSpace(divider), opponent)
	}
	return fmt.Sprintf("%d-%s %s %s", year, strings.TrimSpace(dateText), strings.TrimSpace(divider), opponent)
}

// MonthTitleCase turns "SEP 6" into "Sep 6".
func MonthTitleCase(dateText string) string {
	// Casers carry state, so each call gets its own.
	title := cases.Title(language.English)
	parts := strings.Fields(dateText)
	if len(parts) == 2 {
		return title.String(parts[0]) + " " + parts[1]
	}
	return title.String(dateText)
}

// KickoffDisplay maps missing or TBA/TBD kickoffs to the unknown sentinel.
func KickoffDisplay(kickoff string) string {
	if kickoff == "" {
		return unknownKickoff
	}
	switch strings.ToUpper(kickoff) {
	case "TBA", "TBD":
		return unknownKickoff
	}
	return kickoff
}

// Dashify replaces whitespace with dashes and collapses repeated dashes.
func Dashify(s string) string {
	s = whitespace.ReplaceAllString(strings.TrimSpace(s), "-")
	return dashRuns.ReplaceAllString(s, "-")
}
