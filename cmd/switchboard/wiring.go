package main

import (
	"sync/atomic"

	"switchboard/internal/bridge"
	"switchboard/internal/cascade"
	"switchboard/internal/command"
	"switchboard/internal/config"
	"switchboard/internal/inventory"
	"switchboard/internal/recognize"
)

// runtime bundles everything one resolution needs, wired from config.
type runtime struct {
	bridge     *bridge.Client
	chrome     *inventory.Chrome
	recognizer recognize.Recognizer
	dispatcher *command.Dispatcher

	// aliases is swapped atomically on config reload.
	aliases atomic.Pointer[config.AliasMap]
}

func newRuntime(cfg config.Config) *runtime {
	rt := &runtime{
		bridge: bridge.New(cfg.Bridge.URL, cfg.Bridge.Timeout(), logger),
		chrome: inventory.NewChrome(inventory.ChromeConfig{
			DebuggerURL:     cfg.Browser.DebuggerURL,
			SearchURLFormat: cfg.Browser.SearchURLFormat,
		}, logger),
		recognizer: recognize.NewExec(cfg.Recognizer.Binary, cfg.Recognizer.Timeout(), logger),
	}
	rt.aliases.Store(config.BuildAliasMap(cfg.Tracked))

	focus := cascade.NewFocus()
	chat := &command.ChatAdapter{
		Bridge:     rt.bridge,
		Recognizer: rt.recognizer,
		Chat:       cfg.Chat,
		Resolver:   cfg.Resolver,
		Focus:      focus,
		Aliases:    rt.aliases.Load,
		Log:        logger,
	}
	tab := &command.TabAdapter{
		Bridge:     rt.bridge,
		Chrome:     rt.chrome,
		Recognizer: rt.recognizer,
		Browser:    cfg.Browser,
		Resolver:   cfg.Resolver,
		Focus:      focus,
		Log:        logger,
	}
	rt.dispatcher = command.NewDispatcher(focus, logger, chat, tab)
	return rt
}

// reload applies a changed config to the parts that can swap live.
func (rt *runtime) reload(cfg config.Config) {
	rt.aliases.Store(config.BuildAliasMap(cfg.Tracked))
}

func (rt *runtime) close() {
	_ = rt.chrome.Close()
}
