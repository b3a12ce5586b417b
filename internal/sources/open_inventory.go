// Package sources implements the five cascade stages for both command
// adapters: scored open-item inventories, visual search through the
// recognizer, history and bookmark fallbacks and the terminal create-new
// stage.
package sources

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"switchboard/internal/cascade"
	"switchboard/internal/inventory"
	"switchboard/internal/match"
)

// Snapshot carries the open-inventory listing from stage one to stage two
// within a single resolution, so a visually-located ordinal can be mapped
// back to a real locator. List order is assumed stable between the two
// stages; it is never reused across resolutions.
type Snapshot struct {
	items []inventory.Item
}

func (s *Snapshot) set(items []inventory.Item) { s.items = items }

// Items returns the captured listing, or nil when stage one never listed.
func (s *Snapshot) Items() []inventory.Item { return s.items }

// OpenInventory is stage one: fetch the currently open items and let the
// scoring engine pick the best acceptable candidate.
type OpenInventory struct {
	Provider inventory.Provider
	Snap     *Snapshot
	Log      *zap.Logger
}

func (s *OpenInventory) Source() cascade.Source { return cascade.SourceOpenInventory }

// Propose scores every open item against the query. Among accepted
// candidates the strictly highest total wins; ties keep the first in
// enumeration order.
func (s *OpenInventory) Propose(ctx context.Context, q match.Query) (*cascade.Candidate, error) {
	items, err := s.Provider.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.Snap != nil {
		s.Snap.set(items)
	}
	if q.Empty() {
		return nil, fmt.Errorf("%w: empty query", cascade.ErrNoMatch)
	}

	bestIdx := -1
	var bestScore match.Score
	for i, item := range items {
		sc := match.ScoreDescriptor(q, item.Title+" "+item.Secondary)
		if !sc.Accepted(q) {
			continue
		}
		if bestIdx < 0 || sc.Total > bestScore.Total {
			bestIdx, bestScore = i, sc
		}
	}
	if bestIdx < 0 {
		return nil, fmt.Errorf("%w: %d open items, none accepted", cascade.ErrNoMatch, len(items))
	}

	item := items[bestIdx]
	if s.Log != nil {
		s.Log.Debug("open inventory match",
			zap.String("title", item.Title),
			zap.Float64("score", bestScore.Total),
			zap.Bool("all_tokens", bestScore.AllTokensMatched))
	}
	return &cascade.Candidate{
		Locator:       item.Locator,
		Title:         item.Title,
		Secondary:     item.Secondary,
		Source:        cascade.SourceOpenInventory,
		TitleObserved: true,
	}, nil
}

// Unsupported is a placeholder stage for a source the adapter's host has no
// equivalent of; it always skips.
type Unsupported struct {
	Src    cascade.Source
	Reason string
}

func (s *Unsupported) Source() cascade.Source { return s.Src }

func (s *Unsupported) Propose(ctx context.Context, q match.Query) (*cascade.Candidate, error) {
	return nil, fmt.Errorf("%w: %s", cascade.ErrSourceUnavailable, s.Reason)
}
