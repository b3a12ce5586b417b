// Package inventory enumerates the currently open, directly addressable
// items of a host application: browser tabs over the DevTools protocol, chat
// windows over the automation bridge. Inventories are live snapshots: the
// underlying set can change between commands, so providers are re-queried on
// every resolution and never cached.
package inventory

import (
	"context"

	"switchboard/internal/cascade"
)

// Item is one open item: an opaque locator plus the text an outside observer
// can see for it.
type Item struct {
	Locator   cascade.Locator
	Title     string
	Secondary string // URL for tabs, empty for chat windows
}

// Provider returns the ordered list of currently open items. Order is stable
// for the duration of one resolution and meaningful as a tie-break.
type Provider interface {
	List(ctx context.Context) ([]Item, error)
}

// Static is a fixed in-memory provider for tests.
type Static struct {
	Items []Item
	Err   error
}

func (s *Static) List(ctx context.Context) ([]Item, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Items, nil
}
