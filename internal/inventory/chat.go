package inventory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"switchboard/internal/bridge"
	"switchboard/internal/cascade"
)

// ChatWindows lists the open windows of the messaging client through the
// automation bridge. A desktop messenger usually titles each detached window
// after the conversation it shows, so window titles are the only textual
// inventory an outside observer gets; when the bridge cannot enumerate them
// the stage reports unavailable and the cascade falls through to the visual
// path.
type ChatWindows struct {
	Bridge *bridge.Client
	App    string
	Log    *zap.Logger
}

// NewChatWindows creates the chat-window inventory for one application.
func NewChatWindows(b *bridge.Client, app string, log *zap.Logger) *ChatWindows {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatWindows{Bridge: b, App: app, Log: log}
}

// List snapshots the messenger's windows front-to-back.
func (c *ChatWindows) List(ctx context.Context) ([]Item, error) {
	wins, err := c.Bridge.ListWindows(ctx, c.App)
	if err != nil {
		return nil, err
	}
	if len(wins) == 0 {
		return nil, fmt.Errorf("%w: %s has no windows", cascade.ErrSourceUnavailable, c.App)
	}
	items := make([]Item, 0, len(wins))
	for _, w := range wins {
		if w.Title == "" {
			continue
		}
		items = append(items, Item{
			Locator: cascade.WindowLocator{ID: w.ID},
			Title:   w.Title,
		})
	}
	return items, nil
}
