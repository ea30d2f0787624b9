// Package manifestgen builds the stadium image manifest from a normalized
// schedule and the images actually present on disk.
package manifestgen

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/preston-bernstein/husker-kiosk/internal/domain/schedule"
)

const (
	// ImagesDirectory is recorded in the manifest for tooling that adds images.
	ImagesDirectory = "images/stadiums"
	unknownKey      = "Unknown-Stadium-XX"
)

// Generate records, for every game's background key, whether a .jpg or .png
// with that exact name exists in images. A nil images means nothing exists.
// When two games share a key the later game's details win.
func Generate(games []schedule.Game, images fs.FS) (*schedule.Manifest, error) {
	m := &schedule.Manifest{
		ImagesDirectory: ImagesDirectory,
		Items:           make(map[string]schedule.ManifestItem, len(games)),
	}
	for _, g := range games {
		key := g.BgKey
		if key == "" {
			key = unknownKey
		}
		suggested := key + ".jpg"
		exists, err := anyExists(images, suggested, key+".png")
		if err != nil {
			return nil, fmt.Errorf("check images for %q: %w", key, err)
		}
		m.Items[key] = schedule.ManifestItem{
			Opponent:          g.Opponent,
			Venue:             g.Venue,
			Date:              g.DateText,
			SuggestedFilename: suggested,
			Exists:            exists,
		}
	}
	return m, nil
}

// Missing lists the keys whose image is not present.
func Missing(m *schedule.Manifest) []string {
	if m == nil {
		return nil
	}
	var out []string
	for key, item := range m.Items {
		if !item.Exists {
			out = append(out, key)
		}
	}
	return out
}

func anyExists(images fs.FS, names ...string) (bool, error) {
	if images == nil {
		return false, nil
	}
	for _, name := range names {
		info, err := fs.Stat(images, name)
		switch {
		case err == nil:
			if info.Mode().IsRegular() {
				return true, nil
			}
		case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrInvalid):
		default:
			return false, err
		}
	}
	return false, nil
}
