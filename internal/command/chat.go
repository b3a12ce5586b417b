package command

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"switchboard/internal/activate"
	"switchboard/internal/bridge"
	"switchboard/internal/cascade"
	"switchboard/internal/config"
	"switchboard/internal/inventory"
	"switchboard/internal/match"
	"switchboard/internal/recognize"
	"switchboard/internal/sources"
	"switchboard/internal/textnorm"
)

// ChatAdapter resolves open_target commands against the messaging client.
// Inventory comes from the client's detached windows; the main path is the
// search dialog plus the recognizer, exactly the flow a human would use.
type ChatAdapter struct {
	Bridge     *bridge.Client
	Recognizer recognize.Recognizer
	Chat       config.ChatConfig
	Resolver   config.ResolverConfig
	Focus      *cascade.Focus
	// Aliases returns the current tracked-target map; a func so config hot
	// reload swaps it without restarting in-flight state.
	Aliases func() *config.AliasMap
	Log     *zap.Logger
}

func (a *ChatAdapter) Kind() Kind { return KindOpenTarget }

func (a *ChatAdapter) Resolve(ctx context.Context, req Request) (*cascade.Candidate, error) {
	log := a.logger()
	raw := req.Query
	var pinned *int

	if aliases := a.aliases(); aliases != nil {
		if canonical, ok := aliases.Resolve(raw); ok {
			pinned = aliases.Pinned(canonical)
			raw = canonical
		} else if a.Resolver.RequireTracked {
			return nil, fmt.Errorf("target %q is not in the tracked list", req.Query)
		}
	}
	if req.ResultIndex != nil {
		pinned = req.ResultIndex
	}
	if req.AutoSelect != nil && !*req.AutoSelect && pinned == nil {
		// Auto-selection disabled without a pinned ordinal: trust the
		// host's first result.
		zero := 0
		pinned = &zero
	}

	q := match.NewQuery(raw, textnorm.Corrections(a.Resolver.Corrections), a.Resolver.StopWords)

	// No UI action is safe unless the host can be focused at all.
	if err := a.Bridge.FocusApp(ctx, a.Chat.App); err != nil {
		return nil, err
	}

	settle := a.Resolver.Settle()
	snap := &sources.Snapshot{}
	stages := []cascade.Stage{
		&sources.OpenInventory{
			Provider: inventory.NewChatWindows(a.Bridge, a.Chat.App, log),
			Snap:     snap,
			Log:      log,
		},
		&sources.ChatSearch{
			Bridge:     a.Bridge,
			Recognizer: a.Recognizer,
			Region:     a.Chat.ResultsRegion,
			SearchKey:  a.Chat.SearchKey,
			SearchMods: a.Chat.SearchMods,
			Settle:     settle,
			Pinned:     pinned,
			Log:        log,
		},
		&sources.Unsupported{Src: cascade.SourceHistory, Reason: "messenger exposes no history search"},
		&sources.Unsupported{Src: cascade.SourceBookmarks, Reason: "messenger has no bookmarks"},
		&sources.CreateChat{
			Bridge:     a.Bridge,
			SearchKey:  a.Chat.SearchKey,
			SearchMods: a.Chat.SearchMods,
			Settle:     settle,
		},
	}
	act := &activate.Chat{Host: a.Bridge, Settle: settle, Log: log}

	cand, err := cascade.NewController(stages, act, a.Focus, log).Resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	if req.Message != "" {
		// Leave the text as a draft in the input field; sending is the
		// user's decision.
		if terr := a.Bridge.TypeText(ctx, req.Message); terr != nil {
			log.Warn("draft message failed", zap.Error(terr))
		}
	}
	return cand, nil
}

func (a *ChatAdapter) aliases() *config.AliasMap {
	if a.Aliases == nil {
		return nil
	}
	return a.Aliases()
}

func (a *ChatAdapter) logger() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}
