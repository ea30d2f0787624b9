package normalize

import (
	"regexp"
	"strings"
)

// stateCodes maps the AP-style abbreviations the schedule site prints to USPS codes.
var stateCodes = map[string]string{
	"Neb.": "NE", "Mo.": "MO", "Md.": "MD", "Minn.": "MN", "Calif.": "CA", "Pa.": "PA", "Iowa": "IA",
	"Neb": "NE", "Mo": "MO", "Md": "MD", "Minn": "MN", "Calif": "CA", "Pa": "PA",
}

var cityState = regexp.MustCompile(`^(.*?),\s*([A-Za-z.]+)$`)

// Location is a parsed "City, St. / Stadium" string. Empty fields were absent.
type Location struct {
	City    string
	State   string
	Stadium string
}

// ParseLocation splits strings like "Kansas City, Mo. / Arrowhead Stadium" or
// "Pasadena, Calif.".
func ParseLocation(raw string) Location {
	if strings.TrimSpace(raw) == "" {
		return Location{}
	}
	left, right, hasStadium := strings.Cut(raw, "/")
	left = strings.TrimSpace(left)
	var loc Location
	if hasStadium {
		stadium, _, _ := strings.Cut(right, "/")
		loc.Stadium = strings.TrimSpace(stadium)
	}
	if m := cityState.FindStringSubmatch(left); m != nil {
		loc.City = strings.TrimSpace(m[1])
		loc.State = StateCode(strings.TrimSpace(m[2]))
	} else {
		loc.City = left
	}
	return loc
}

// StateCode maps a printed state abbreviation to its USPS code, upper-casing
// anything unknown.
func StateCode(abbrev string) string {
	if code, ok := stateCodes[abbrev]; ok {
		return code
	}
	return strings.ToUpper(abbrev)
}

// CityDisplay is "City, ST", just "City" without a state, or "—" without a city.
func (l Location) CityDisplay() string {
	switch {
	case l.City == "":
		return "—"
	case l.State == "":
		return l.City
	default:
		return l.City + ", " + l.State
	}
}
