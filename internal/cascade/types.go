// Package cascade implements the target resolution cascade: an ordered
// sequence of fallback sources tried until one produces a candidate that
// survives activation and verification.
package cascade

import (
	"fmt"
	"strings"
)

// Source identifies which fallback stage produced a candidate. The numeric
// order is the cascade order and never changes.
type Source int

const (
	SourceOpenInventory Source = iota // currently open items, textual
	SourceVisual                      // screen capture + recognizer
	SourceHistory                     // host history search UI
	SourceBookmarks                   // host bookmarks
	SourceCreateNew                   // terminal: open a fresh item
)

func (s Source) String() string {
	switch s {
	case SourceOpenInventory:
		return "open_inventory"
	case SourceVisual:
		return "visual_inventory"
	case SourceHistory:
		return "history_search"
	case SourceBookmarks:
		return "bookmark_search"
	case SourceCreateNew:
		return "create_new"
	}
	return fmt.Sprintf("source(%d)", int(s))
}

// Locator is an opaque handle sufficient to re-activate one specific
// candidate. The concrete shape depends on the adapter.
type Locator interface {
	Describe() string
}

// TabLocator addresses a browser tab by DevTools target id, with the
// window/tab ordinal pair kept for display and keyboard fallback.
type TabLocator struct {
	TargetID string
	Window   int
	Tab      int
}

func (l TabLocator) Describe() string {
	return fmt.Sprintf("tab[%d,%d]", l.Window, l.Tab)
}

// WindowLocator addresses a native window by the id the automation bridge
// reports for it.
type WindowLocator struct {
	ID int
}

func (l WindowLocator) Describe() string {
	return fmt.Sprintf("window[%d]", l.ID)
}

// OrdinalLocator addresses the Nth entry (zero-based) of a search-result
// list currently on screen.
type OrdinalLocator struct {
	Ordinal int
}

func (l OrdinalLocator) Describe() string {
	return fmt.Sprintf("result[%d]", l.Ordinal)
}

// URLLocator addresses an item by the URL to open it at, used for bookmark
// entries where no live handle exists yet.
type URLLocator struct {
	URL string
}

func (l URLLocator) Describe() string { return l.URL }

// Candidate is one addressable item proposed by a source.
type Candidate struct {
	Locator   Locator
	Title     string
	Secondary string // URL or other helper text; may be empty
	Source    Source

	// TitleObserved is true when Title was actually read from the host
	// (an inventory listing) rather than synthesized from the query or a
	// saved record. Only observed titles can be verified by exact match.
	TitleObserved bool
}

// Short returns a compact human-readable identification for logs.
func (c Candidate) Short() string {
	title := c.Title
	if len(title) > 60 {
		title = title[:57] + "..."
	}
	parts := []string{c.Source.String()}
	if c.Locator != nil {
		parts = append(parts, c.Locator.Describe())
	}
	if title != "" {
		parts = append(parts, title)
	}
	return strings.Join(parts, " ")
}
