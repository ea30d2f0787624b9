package imagery

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders probed by FSProber
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/webp" // scraped backgrounds are often WebP saved as .jpg
)

// ErrNotImage is returned when a candidate exists but is not a decodable image.
var ErrNotImage = errors.New("not a decodable image")

// Prober attempts to load one candidate URL. A nil error means the image loaded.
type Prober interface {
	Probe(ctx context.Context, url string) error
}

// FSProber checks candidates against a directory that mirrors the served URL space.
type FSProber struct {
	root string
}

// NewFSProber constructs an FSProber rooted at dir.
func NewFSProber(dir string) *FSProber {
	return &FSProber{root: dir}
}

// Probe succeeds when the file exists and its header decodes as an image.
func (p *FSProber) Probe(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean := path.Clean("/" + url)
	f, err := os.Open(filepath.Join(p.root, filepath.FromSlash(clean)))
	if err != nil {
		return err
	}
	defer f.Close()

	if _, _, err := image.DecodeConfig(f); err != nil {
		return fmt.Errorf("%s: %w", url, ErrNotImage)
	}
	return nil
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPProber loads candidates from a remote asset host.
type HTTPProber struct {
	baseURL string
	client  httpDoer
}

// NewHTTPProber constructs an HTTPProber; relative candidate URLs are joined onto baseURL.
func NewHTTPProber(baseURL string, client *http.Client) *HTTPProber {
	var doer httpDoer = client
	if client == nil {
		doer = &http.Client{Timeout: 5 * time.Second}
	}
	return &HTTPProber{baseURL: strings.TrimSuffix(baseURL, "/"), client: doer}
}

// Probe succeeds on a 2xx image response.
func (p *HTTPProber) Probe(ctx context.Context, url string) error {
	target := url
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		target = p.baseURL + "/" + strings.TrimPrefix(url, "/")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "image/*")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: unexpected status %d", target, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("%s (%s): %w", target, ct, ErrNotImage)
	}
	return nil
}
