package feed

import (
	"context"
	"net/http"
	"strings"

	"github.com/preston-bernstein/husker-kiosk/internal/feed/fixture"
)

// Source fetches one raw JSON document.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// NewSource picks a Source implementation from a location string: "fixture"
// selects the bundled document, http(s) URLs use HTTPSource, anything else is a
// file path.
func NewSource(location string, doc fixture.Document, client *http.Client) Source {
	loc := strings.TrimSpace(location)
	switch {
	case loc == "" || strings.EqualFold(loc, "fixture"):
		return fixture.New(doc)
	case strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://"):
		return NewHTTPSource(loc, client)
	default:
		return NewFileSource(loc)
	}
}
