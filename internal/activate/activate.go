// Package activate performs the host-specific activation sequence for a
// chosen candidate and verifies afterwards that the right item actually
// became active. Verification is strict: an exact normalized title match
// confirms a candidate with a known descriptor; anything less escalates the
// cascade; partial overlap after the fact is never silently accepted.
package activate

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"switchboard/internal/cascade"
	"switchboard/internal/match"
	"switchboard/internal/textnorm"
)

// sleep waits out a fixed settle delay; zero (the test configuration)
// returns immediately.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// verifyDescriptor applies the post-activation check shared by both
// adapters. A candidate with an observed title must be matched exactly
// (after normalization). A candidate whose descriptor was never observed
// (history/bookmark first-results, visually located ordinals) is confirmed
// by scoring the active descriptor against the query with the engine's
// acceptance rule.
func verifyDescriptor(q match.Query, c *cascade.Candidate, activeTitle, activeSecondary string) error {
	if c.TitleObserved && c.Title != "" {
		if textnorm.Normalize(activeTitle) == textnorm.Normalize(c.Title) {
			return nil
		}
		return fmt.Errorf("%w: active %q, wanted %q", cascade.ErrVerificationMismatch, activeTitle, c.Title)
	}
	sc := match.ScoreDescriptor(q, activeTitle+" "+activeSecondary)
	if sc.Accepted(q) {
		return nil
	}
	return fmt.Errorf("%w: active %q does not satisfy %q", cascade.ErrVerificationMismatch, activeTitle, q.Text)
}

// tabHost is the slice of the Chrome inventory the tab activator needs.
type tabHost interface {
	TabInfo(ctx context.Context, loc cascade.TabLocator) (title, url string, err error)
	Activate(ctx context.Context, loc cascade.TabLocator) error
	ActiveDescriptor(ctx context.Context) (title, url string, err error)
	OpenNew(ctx context.Context, url string) (cascade.TabLocator, error)
}

type keyPresser interface {
	PressKey(ctx context.Context, key string, mods ...string) error
}

// injector is the slice of the bridge client the activators need.
type injector interface {
	keyPresser
	TypeText(ctx context.Context, text string) error
}

// Tab activates browser tabs: direct DevTools activation for live tabs,
// URL opening for bookmark entries and new tabs, arrow-key confirmation for
// first-results inside the history/bookmark UI.
type Tab struct {
	Host   tabHost
	Keys   injector
	Settle time.Duration
	Log    *zap.Logger
}

func (a *Tab) Activate(ctx context.Context, c *cascade.Candidate) error {
	switch loc := c.Locator.(type) {
	case cascade.TabLocator:
		// Re-validate: the tab set may have changed since enumeration.
		title, _, err := a.Host.TabInfo(ctx, loc)
		if err != nil {
			return fmt.Errorf("%w: %v", cascade.ErrVerificationMismatch, err)
		}
		if c.Title != "" && textnorm.Normalize(title) != textnorm.Normalize(c.Title) {
			return fmt.Errorf("%w: tab %s now titled %q", cascade.ErrVerificationMismatch, loc.Describe(), title)
		}
		if err := a.Host.Activate(ctx, loc); err != nil {
			return err
		}
	case cascade.URLLocator:
		if _, err := a.Host.OpenNew(ctx, loc.URL); err != nil {
			// DevTools may be down even when the app itself is focusable;
			// fall back to opening the URL by keyboard so the terminal
			// stage still has its guaranteed exit.
			if a.Log != nil {
				a.Log.Debug("devtools open failed, using keyboard", zap.Error(err))
			}
			if kerr := a.Keys.PressKey(ctx, "t", "cmd"); kerr != nil {
				return kerr
			}
			if kerr := a.Keys.TypeText(ctx, loc.URL); kerr != nil {
				return kerr
			}
			if kerr := a.Keys.PressKey(ctx, "return"); kerr != nil {
				return kerr
			}
		}
	case cascade.OrdinalLocator:
		// A list UI (history, bookmarks, or keyboard tab switching) is on
		// screen; walk down to the ordinal and confirm.
		for i := 0; i <= loc.Ordinal; i++ {
			if err := a.Keys.PressKey(ctx, "down"); err != nil {
				return err
			}
		}
		if err := a.Keys.PressKey(ctx, "return"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported locator %T", c.Locator)
	}
	sleep(ctx, a.Settle)
	return nil
}

func (a *Tab) Verify(ctx context.Context, q match.Query, c *cascade.Candidate) error {
	title, url, err := a.Host.ActiveDescriptor(ctx)
	if err != nil {
		return fmt.Errorf("%w: read active tab: %v", cascade.ErrVerificationMismatch, err)
	}
	return verifyDescriptor(q, c, title, url)
}

// chatHost is the slice of the bridge the chat activator needs.
type chatHost interface {
	keyPresser
	FocusWindow(ctx context.Context, id int) error
	ActiveWindowTitle(ctx context.Context) (string, error)
}

// Chat activates conversations: raising a detached chat window, or walking
// a search-result list by ordinal and confirming.
type Chat struct {
	Host   chatHost
	Settle time.Duration
	Log    *zap.Logger
}

func (a *Chat) Activate(ctx context.Context, c *cascade.Candidate) error {
	switch loc := c.Locator.(type) {
	case cascade.WindowLocator:
		if err := a.Host.FocusWindow(ctx, loc.ID); err != nil {
			return err
		}
	case cascade.OrdinalLocator:
		if c.Source == cascade.SourceCreateNew {
			// The query is already sitting in the search dialog; just
			// confirm it.
			if err := a.Host.PressKey(ctx, "return"); err != nil {
				return err
			}
			break
		}
		for i := 0; i <= loc.Ordinal; i++ {
			if err := a.Host.PressKey(ctx, "down"); err != nil {
				return err
			}
		}
		if err := a.Host.PressKey(ctx, "return"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported locator %T", c.Locator)
	}
	sleep(ctx, a.Settle)
	return nil
}

func (a *Chat) Verify(ctx context.Context, q match.Query, c *cascade.Candidate) error {
	title, err := a.Host.ActiveWindowTitle(ctx)
	if err != nil {
		return fmt.Errorf("%w: read active window: %v", cascade.ErrVerificationMismatch, err)
	}
	return verifyDescriptor(q, c, title, "")
}
