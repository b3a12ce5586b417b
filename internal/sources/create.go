package sources

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"switchboard/internal/bridge"
	"switchboard/internal/cascade"
	"switchboard/internal/match"
)

// CreateTab is the terminal stage for the browser adapter: open a fresh tab
// navigated to a search for the query. It proposes unconditionally and
// activation just opens the URL, so the cascade always has an exit.
type CreateTab struct {
	// SearchURLFormat has one %s verb for the escaped query, e.g.
	// "https://www.google.com/search?q=%s".
	SearchURLFormat string
}

func (s *CreateTab) Source() cascade.Source { return cascade.SourceCreateNew }

func (s *CreateTab) Propose(ctx context.Context, q match.Query) (*cascade.Candidate, error) {
	text := q.Text
	if text == "" {
		text = q.Raw
	}
	target := fmt.Sprintf(s.SearchURLFormat, url.QueryEscape(text))
	return &cascade.Candidate{
		Locator:   cascade.URLLocator{URL: target},
		Title:     text,
		Secondary: target,
		Source:    cascade.SourceCreateNew,
	}, nil
}

// CreateChat is the terminal stage for the chat adapter: leave the query in
// the messenger's search dialog and confirm it, starting a search dialog the
// user can finish. Never verified against the query.
type CreateChat struct {
	Bridge     *bridge.Client
	SearchKey  string
	SearchMods []string
	Settle     time.Duration
}

func (s *CreateChat) Source() cascade.Source { return cascade.SourceCreateNew }

func (s *CreateChat) Propose(ctx context.Context, q match.Query) (*cascade.Candidate, error) {
	text := q.Text
	if text == "" {
		text = q.Raw
	}
	if err := s.Bridge.PressKey(ctx, "escape"); err != nil {
		return nil, err
	}
	if err := s.Bridge.PressKey(ctx, s.SearchKey, s.SearchMods...); err != nil {
		return nil, err
	}
	if err := s.Bridge.TypeText(ctx, text); err != nil {
		return nil, err
	}
	sleep(ctx, s.Settle)
	return &cascade.Candidate{
		Locator: cascade.OrdinalLocator{Ordinal: 0},
		Title:   text,
		Source:  cascade.SourceCreateNew,
	}, nil
}
