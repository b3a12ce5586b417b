package inventory

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"switchboard/internal/cascade"
)

// ChromeConfig configures the DevTools connection.
type ChromeConfig struct {
	// DebuggerURL is the WebSocket or http endpoint of a running Chrome
	// started with --remote-debugging-port. When empty, a user-mode Chrome
	// is launched against the default profile.
	DebuggerURL string `yaml:"debugger_url"`
	// SearchURLFormat is the navigation target for CreateNew, with %s
	// replaced by the URL-escaped query.
	SearchURLFormat string `yaml:"search_url_format"`
}

// Chrome enumerates and activates browser tabs through the DevTools
// protocol. One connection is shared across resolutions and re-established
// when it goes stale.
type Chrome struct {
	cfg ChromeConfig
	log *zap.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

// NewChrome creates a lazily-connecting Chrome inventory.
func NewChrome(cfg ChromeConfig, log *zap.Logger) *Chrome {
	if log == nil {
		log = zap.NewNop()
	}
	return &Chrome{cfg: cfg, log: log}
}

// connect establishes or reuses the DevTools connection.
func (c *Chrome) connect(ctx context.Context) (*rod.Browser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser != nil {
		if _, err := c.browser.Version(); err == nil {
			return c.browser, nil
		}
		c.log.Debug("stale DevTools connection, reconnecting")
		_ = c.browser.Close()
		c.browser = nil
	}

	controlURL := c.cfg.DebuggerURL
	if controlURL == "" {
		url, err := launcher.NewUserMode().Launch()
		if err != nil {
			return nil, fmt.Errorf("%w: launch chrome: %v", cascade.ErrSourceUnavailable, err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: connect to chrome: %v", cascade.ErrSourceUnavailable, err)
	}
	c.browser = browser
	return browser, nil
}

// List snapshots all open tabs front-to-back as (locator, title, URL).
func (c *Chrome) List(ctx context.Context) ([]Item, error) {
	browser, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	pages, err := browser.Pages()
	if err != nil {
		return nil, fmt.Errorf("%w: enumerate tabs: %v", cascade.ErrSourceUnavailable, err)
	}

	items := make([]Item, 0, len(pages))
	for i, page := range pages {
		info, err := page.Info()
		if err != nil {
			// A tab can close mid-enumeration; skip it rather than failing
			// the snapshot.
			c.log.Debug("tab info failed", zap.Int("index", i), zap.Error(err))
			continue
		}
		items = append(items, Item{
			Locator: cascade.TabLocator{
				TargetID: string(info.TargetID),
				Window:   1,
				Tab:      i + 1,
			},
			Title:     info.Title,
			Secondary: info.URL,
		})
	}
	return items, nil
}

// TabInfo re-reads the title and URL behind a locator. Used to re-validate a
// tab immediately before activating it: the tab set can change between the
// enumeration and the activation call.
func (c *Chrome) TabInfo(ctx context.Context, loc cascade.TabLocator) (title, url string, err error) {
	browser, err := c.connect(ctx)
	if err != nil {
		return "", "", err
	}
	page, err := browser.PageFromTarget(proto.TargetTargetID(loc.TargetID))
	if err != nil {
		return "", "", fmt.Errorf("find tab %s: %w", loc.Describe(), err)
	}
	info, err := page.Info()
	if err != nil {
		return "", "", fmt.Errorf("tab info %s: %w", loc.Describe(), err)
	}
	return info.Title, info.URL, nil
}

// Activate brings the tab with the given target id to front.
func (c *Chrome) Activate(ctx context.Context, loc cascade.TabLocator) error {
	browser, err := c.connect(ctx)
	if err != nil {
		return err
	}
	page, err := browser.PageFromTarget(proto.TargetTargetID(loc.TargetID))
	if err != nil {
		return fmt.Errorf("find tab %s: %w", loc.Describe(), err)
	}
	if _, err := page.Activate(); err != nil {
		return fmt.Errorf("activate tab %s: %w", loc.Describe(), err)
	}
	return nil
}

// ActiveDescriptor reads the title and URL of the currently focused tab.
func (c *Chrome) ActiveDescriptor(ctx context.Context) (title, url string, err error) {
	browser, err := c.connect(ctx)
	if err != nil {
		return "", "", err
	}
	pages, err := browser.Pages()
	if err != nil {
		return "", "", fmt.Errorf("enumerate tabs: %w", err)
	}
	for _, page := range pages {
		info, ierr := page.Info()
		if ierr != nil {
			continue
		}
		// The frontmost page is the one with focus according to the
		// document visibility state.
		visible, verr := page.Eval(`() => document.visibilityState === "visible" && document.hasFocus()`)
		if verr == nil && visible.Value.Bool() {
			return info.Title, info.URL, nil
		}
	}
	// Fall back to the first page, which CDP orders frontmost.
	if len(pages) > 0 {
		if info, ierr := pages[0].Info(); ierr == nil {
			return info.Title, info.URL, nil
		}
	}
	return "", "", fmt.Errorf("no active tab found")
}

// OpenNew creates a fresh tab at the given URL and returns its locator.
func (c *Chrome) OpenNew(ctx context.Context, url string) (cascade.TabLocator, error) {
	browser, err := c.connect(ctx)
	if err != nil {
		return cascade.TabLocator{}, err
	}
	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return cascade.TabLocator{}, fmt.Errorf("open tab: %w", err)
	}
	info, err := page.Info()
	if err != nil {
		return cascade.TabLocator{}, fmt.Errorf("new tab info: %w", err)
	}
	if _, err := page.Activate(); err != nil {
		return cascade.TabLocator{}, fmt.Errorf("activate new tab: %w", err)
	}
	return cascade.TabLocator{TargetID: string(info.TargetID), Window: 1}, nil
}

// Screenshot captures the frontmost page as PNG bytes, for visual
// verification when textual access is ambiguous.
func (c *Chrome) Screenshot(ctx context.Context) ([]byte, error) {
	browser, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	pages, err := browser.Pages()
	if err != nil || len(pages) == 0 {
		return nil, fmt.Errorf("%w: no page to capture", cascade.ErrRecognition)
	}
	data, err := pages[0].Screenshot(false, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: screenshot: %v", cascade.ErrRecognition, err)
	}
	return data, nil
}

// Ping verifies the DevTools connection can be established.
func (c *Chrome) Ping(ctx context.Context) error {
	_, err := c.connect(ctx)
	return err
}

// Close tears down the DevTools connection.
func (c *Chrome) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.browser == nil {
		return nil
	}
	err := c.browser.Close()
	c.browser = nil
	return err
}
