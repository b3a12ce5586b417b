package command

import (
	"context"

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

// TabAdapter resolves open_tab_like commands against the browser. The tab
// inventory and direct activation go over the DevTools protocol; history,
// bookmarks and the keyboard fallbacks go through the bridge.
type TabAdapter struct {
	Bridge     *bridge.Client
	Chrome     *inventory.Chrome
	Recognizer recognize.Recognizer
	Browser    config.BrowserConfig
	Resolver   config.ResolverConfig
	Focus      *cascade.Focus
	Log        *zap.Logger
}

func (a *TabAdapter) Kind() Kind { return KindOpenTab }

func (a *TabAdapter) Resolve(ctx context.Context, req Request) (*cascade.Candidate, error) {
	log := a.logger()
	q := match.NewQuery(req.Query, textnorm.Corrections(a.Resolver.Corrections), a.Resolver.StopWords)

	if err := a.Bridge.FocusApp(ctx, a.Browser.App); err != nil {
		return nil, err
	}

	settle := a.Resolver.Settle()
	snap := &sources.Snapshot{}

	var bookmarks cascade.Stage
	if a.Browser.BookmarksExport != "" {
		bookmarks = &sources.BookmarksFile{Path: a.Browser.BookmarksExport}
	} else {
		bookmarks = &sources.BookmarksUI{
			Bridge:   a.Bridge,
			OpenKey:  a.Browser.BookmarksKey,
			OpenMods: a.Browser.BookmarksMods,
			Settle:   settle,
		}
	}

	stages := []cascade.Stage{
		&sources.OpenInventory{Provider: a.Chrome, Snap: snap, Log: log},
		&sources.TabVisual{
			Bridge:     a.Bridge,
			Recognizer: a.Recognizer,
			Region:     a.Browser.TabStripRegion,
			Snap:       snap,
			Shots:      a.Chrome,
			Log:        log,
		},
		&sources.HistoryUI{
			Bridge:   a.Bridge,
			OpenKey:  a.Browser.HistoryKey,
			OpenMods: a.Browser.HistoryMods,
			Settle:   settle,
		},
		bookmarks,
		&sources.CreateTab{SearchURLFormat: a.Browser.SearchURLFormat},
	}
	act := &activate.Tab{Host: a.Chrome, Keys: a.Bridge, Settle: settle, Log: log}

	return cascade.NewController(stages, act, a.Focus, log).Resolve(ctx, q)
}

func (a *TabAdapter) logger() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}
