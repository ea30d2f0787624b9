package imagery

import (
	"path"
	"regexp"

	"github.com/preston-bernstein/husker-kiosk/internal/domain/schedule"
)

// DefaultImagesPath is the URL directory holding stadium backgrounds.
const DefaultImagesPath = "images/stadiums"

const fallbackBase = "fallback"

// Extensions are tried in this order.
var Extensions = []string{".jpg", ".jpeg", ".png"}

var whitespace = regexp.MustCompile(`\s+`)

// BaseName derives the file base for a game's background.
func BaseName(g schedule.Game) string {
	base := g.BgFileBasename
	if base == "" {
		base = g.BgKey
	}
	if base == "" {
		base = fallbackBase
	}
	return whitespace.ReplaceAllString(base, "-")
}

// Candidates lists the background URLs to probe, in preference order.
func Candidates(imagesPath string, g schedule.Game) []string {
	base := BaseName(g)
	out := make([]string, 0, len(Extensions))
	for _, ext := range Extensions {
		out = append(out, path.Join(imagesPath, base+ext))
	}
	return out
}

// VenueFallback returns the default background for a game's venue type.
// Unknown or missing venue types use the neutral image.
func VenueFallback(imagesPath string, g schedule.Game) string {
	name := "fallback_neutral"
	switch g.VenueType() {
	case schedule.VenueHome:
		name = "fallback_home"
	case schedule.VenueAway:
		name = "fallback_away"
	}
	return path.Join(imagesPath, name+".jpg")
}
