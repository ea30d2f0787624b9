// Package browser measures the rendered schedule block in a real headless
// Chrome, so glyph metrics and web fonts are taken into account.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/preston-bernstein/husker-kiosk/internal/layout"
)

const defaultMeasureTimeout = 15 * time.Second

// ErrNoPage is returned when no page URL has been configured yet.
var ErrNoPage = errors.New("browser measurer: page url not set")

// Options configures a Measurer.
type Options struct {
	// RemoteURL is a Chrome DevTools websocket/http endpoint. Empty launches a
	// local headless Chrome.
	RemoteURL string
	// PageURL is the kiosk page to load; the measurer appends view/measure params.
	PageURL string
	// Viewport is the window size the page is laid out in.
	Viewport layout.Size
	Timeout  time.Duration
}

// Measurer implements layout.Measurer against a live browser tab.
type Measurer struct {
	opts Options

	mu          sync.Mutex
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
}

// New returns a Measurer. The browser is started lazily on first Measure.
func New(opts Options) *Measurer {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultMeasureTimeout
	}
	return &Measurer{opts: opts}
}

// SetPageURL points the measurer at the served kiosk page.
func (m *Measurer) SetPageURL(u string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts.PageURL = u
}

// SetViewport changes the emulated window size for subsequent measurements.
func (m *Measurer) SetViewport(v layout.Size) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts.Viewport = v
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// measureScript clears any applied transform, applies the density marker and
// forces a reflow before reading the rows box.
const measureScript = `(function(level){
  const view = document.querySelector('#view-all');
  const rows = document.querySelector('#view-all .rows');
  if (!view || !rows) return {width: 0, height: 0};
  view.classList.remove('hidden');
  rows.style.transform = 'none';
  if (level === 'normal') view.removeAttribute('data-density');
  else view.setAttribute('data-density', level);
  void document.body.offsetHeight;
  const r = rows.getBoundingClientRect();
  return {width: r.width, height: r.height};
})(%q)`

// Measure loads the page and reports the unscaled rows block size at req.Density.
func (m *Measurer) Measure(ctx context.Context, req layout.MeasureRequest) (layout.Size, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.opts.PageURL == "" {
		return layout.Size{}, ErrNoPage
	}
	target, err := measureURL(m.opts.PageURL)
	if err != nil {
		return layout.Size{}, err
	}
	tab, err := m.ensureTabLocked()
	if err != nil {
		return layout.Size{}, err
	}

	runCtx, cancel := context.WithTimeout(tab, m.opts.Timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var size layout.Size
	actions := []chromedp.Action{}
	if !m.opts.Viewport.Empty() {
		actions = append(actions, emulation.SetDeviceMetricsOverride(
			int64(m.opts.Viewport.Width), int64(m.opts.Viewport.Height), 1, false,
		))
	}
	actions = append(actions,
		chromedp.Navigate(target),
		chromedp.WaitReady("#view-all", chromedp.ByQuery),
		chromedp.Evaluate(`document.fonts ? document.fonts.ready.then(() => true) : true`, nil, awaitPromise),
		chromedp.Evaluate(fmt.Sprintf(measureScript, string(req.Density)), &size),
	)
	if err := chromedp.Run(runCtx, actions...); err != nil {
		return layout.Size{}, fmt.Errorf("browser measure: %w", err)
	}
	return size, nil
}

// Close shuts the browser down.
func (m *Measurer) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tabCancel != nil {
		m.tabCancel()
		m.tabCancel = nil
		m.tabCtx = nil
	}
	if m.allocCancel != nil {
		m.allocCancel()
		m.allocCancel = nil
	}
}

func (m *Measurer) ensureTabLocked() (context.Context, error) {
	if m.tabCtx != nil && m.tabCtx.Err() == nil {
		return m.tabCtx, nil
	}

	var allocCtx context.Context
	if m.opts.RemoteURL != "" {
		allocCtx, m.allocCancel = chromedp.NewRemoteAllocator(context.Background(), m.opts.RemoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("hide-scrollbars", true),
			chromedp.Flag("mute-audio", true),
		)
		allocCtx, m.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
	m.tabCtx, m.tabCancel = chromedp.NewContext(allocCtx)
	// Start the browser now so launch errors surface here.
	if err := chromedp.Run(m.tabCtx); err != nil {
		m.tabCancel()
		m.allocCancel()
		m.tabCtx, m.tabCancel, m.allocCancel = nil, nil, nil
		return nil, fmt.Errorf("browser start: %w", err)
	}
	return m.tabCtx, nil
}

func measureURL(page string) (string, error) {
	u, err := url.Parse(page)
	if err != nil {
		return "", fmt.Errorf("browser measurer: %w", err)
	}
	q := u.Query()
	q.Set("view", "all")
	q.Set("measure", "1")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
