package timeutil

import (
	"strings"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	DateLayout,
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseTimestamp accepts the ISO-8601 shapes scrapers emit, with or without
// a zone offset, or a bare date.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// SeasonYear returns the year of a scrape timestamp, or now's UTC year when
// the timestamp is missing or unreadable.
func SeasonYear(scrapedAt string, now time.Time) int {
	if t, err := ParseTimestamp(scrapedAt); err == nil && scrapedAt != "" {
		return t.Year()
	}
	return now.UTC().Year()
}
