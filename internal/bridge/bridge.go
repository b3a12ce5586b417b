// Package bridge talks to the desktop automation bridge: a small local HTTP
// server (Hammerspoon-style) that owns the primitive UI verbs: focusing an
// application, pressing keys, typing text, clicking, capturing a screen
// region and reading window titles. The bridge is the only way this process
// touches the screen; everything above it works on titles, URLs and pixels.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"switchboard/internal/cascade"
)

// Rect is a screen rectangle relative to the frame of a target window.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// WindowInfo describes one window as reported by the bridge.
type WindowInfo struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	App   string `json:"app"`
}

// Client calls the bridge over its POST /cmd JSON protocol. Every call is
// synchronous and bounded by the configured timeout; transient connection
// errors are retried with exponential backoff before being reported as
// cascade.ErrSourceUnavailable.
type Client struct {
	baseURL string
	http    *http.Client
	retries uint64
	log     *zap.Logger
}

// New creates a bridge client. baseURL is the bridge root, e.g.
// "http://127.0.0.1:7733".
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		retries: 2,
		log:     log,
	}
}

type response struct {
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// call posts one command payload and decodes the bridge's {ok, error, data}
// envelope. Connection-level failures map to ErrSourceUnavailable so stages
// can skip rather than abort.
func (c *Client) call(ctx context.Context, payload map[string]any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode bridge payload: %w", err)
	}

	var raw json.RawMessage
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cmd", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.http.Do(req)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
				return err // retryable
			}
			return err
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("bridge HTTP %d", resp.StatusCode))
		}
		raw = data
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(100*time.Millisecond),
		backoff.WithMaxElapsedTime(c.http.Timeout),
	), c.retries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		c.log.Debug("bridge unreachable", zap.String("url", c.baseURL), zap.Error(err))
		return fmt.Errorf("%w: bridge at %s: %v", cascade.ErrSourceUnavailable, c.baseURL, err)
	}

	var env response
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: non-JSON bridge response", cascade.ErrSourceUnavailable)
	}
	if !env.OK {
		if env.Error == "" {
			env.Error = "unknown bridge error"
		}
		return fmt.Errorf("bridge: %s", env.Error)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode bridge data: %w", err)
		}
	}
	return nil
}

// FocusApp brings the named application frontmost. Failure here means no UI
// action is safe at all, so it maps to the fatal ErrHostUnreachable.
func (c *Client) FocusApp(ctx context.Context, app string) error {
	if err := c.call(ctx, map[string]any{"cmd": "focus_app", "app": app}, nil); err != nil {
		return fmt.Errorf("%w: focus %q: %v", cascade.ErrHostUnreachable, app, err)
	}
	return nil
}

// PressKey presses a named key with optional modifiers ("cmd", "alt"...).
func (c *Client) PressKey(ctx context.Context, key string, mods ...string) error {
	return c.call(ctx, map[string]any{"cmd": "press_key", "key": key, "mods": mods}, nil)
}

// TypeText types literal text into the focused control.
func (c *Client) TypeText(ctx context.Context, text string) error {
	return c.call(ctx, map[string]any{"cmd": "type_text", "text": text}, nil)
}

// Click clicks at a point in screen coordinates.
func (c *Client) Click(ctx context.Context, x, y int) error {
	return c.call(ctx, map[string]any{"cmd": "click", "x": x, "y": y}, nil)
}

// CaptureRegion captures a rectangle of the frontmost window to a PNG on the
// bridge host and returns its path.
func (c *Client) CaptureRegion(ctx context.Context, r Rect) (string, error) {
	var out struct {
		Path string `json:"path"`
	}
	if err := c.call(ctx, map[string]any{
		"cmd": "capture_region",
		"x":   r.X, "y": r.Y, "w": r.W, "h": r.H,
	}, &out); err != nil {
		return "", err
	}
	if out.Path == "" {
		return "", fmt.Errorf("%w: bridge returned no capture path", cascade.ErrRecognition)
	}
	return out.Path, nil
}

// ActiveWindowTitle reads the title of the focused window.
func (c *Client) ActiveWindowTitle(ctx context.Context) (string, error) {
	var out struct {
		Title string `json:"title"`
	}
	if err := c.call(ctx, map[string]any{"cmd": "active_window"}, &out); err != nil {
		return "", err
	}
	return out.Title, nil
}

// ListWindows enumerates the windows of one application, front to back.
func (c *Client) ListWindows(ctx context.Context, app string) ([]WindowInfo, error) {
	var out struct {
		Windows []WindowInfo `json:"windows"`
	}
	if err := c.call(ctx, map[string]any{"cmd": "list_windows", "app": app}, &out); err != nil {
		return nil, err
	}
	return out.Windows, nil
}

// FocusWindow raises a specific window by bridge id.
func (c *Client) FocusWindow(ctx context.Context, id int) error {
	return c.call(ctx, map[string]any{"cmd": "focus_window", "id": id}, nil)
}

// Ping reports whether the bridge answers at all. Used by the health check.
func (c *Client) Ping(ctx context.Context) error {
	return c.call(ctx, map[string]any{"cmd": "ping"}, nil)
}
