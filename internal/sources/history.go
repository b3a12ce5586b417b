package sources

import (
	"context"
	"fmt"
	"time"

	"switchboard/internal/bridge"
	"switchboard/internal/cascade"
	"switchboard/internal/match"
)

// HistoryUI is stage three for the browser adapter: open the host's own
// history search, type the query and accept whatever it ranks first. The
// host's ranking is trusted, with no local scoring. The proposed candidate has
// no known descriptor, so verification falls back to scoring the activated
// item against the query.
type HistoryUI struct {
	Bridge   *bridge.Client
	OpenKey  string
	OpenMods []string
	Settle   time.Duration
}

func (s *HistoryUI) Source() cascade.Source { return cascade.SourceHistory }

func (s *HistoryUI) Propose(ctx context.Context, q match.Query) (*cascade.Candidate, error) {
	if q.Empty() {
		return nil, fmt.Errorf("%w: empty query", cascade.ErrNoMatch)
	}
	if err := s.Bridge.PressKey(ctx, s.OpenKey, s.OpenMods...); err != nil {
		return nil, err
	}
	sleep(ctx, s.Settle)
	if err := s.Bridge.TypeText(ctx, q.Text); err != nil {
		return nil, err
	}
	sleep(ctx, s.Settle)
	return &cascade.Candidate{
		Locator: cascade.OrdinalLocator{Ordinal: 0},
		Source:  cascade.SourceHistory,
	}, nil
}

// BookmarksUI is stage four in its keystroke-driven form: same pattern as
// HistoryUI against the bookmark manager.
type BookmarksUI struct {
	Bridge   *bridge.Client
	OpenKey  string
	OpenMods []string
	Settle   time.Duration
}

func (s *BookmarksUI) Source() cascade.Source { return cascade.SourceBookmarks }

func (s *BookmarksUI) Propose(ctx context.Context, q match.Query) (*cascade.Candidate, error) {
	if q.Empty() {
		return nil, fmt.Errorf("%w: empty query", cascade.ErrNoMatch)
	}
	if err := s.Bridge.PressKey(ctx, s.OpenKey, s.OpenMods...); err != nil {
		return nil, err
	}
	sleep(ctx, s.Settle)
	if err := s.Bridge.TypeText(ctx, q.Text); err != nil {
		return nil, err
	}
	sleep(ctx, s.Settle)
	return &cascade.Candidate{
		Locator: cascade.OrdinalLocator{Ordinal: 0},
		Source:  cascade.SourceBookmarks,
	}, nil
}
