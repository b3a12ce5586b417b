// Package config holds all switchboard configuration: the automation bridge
// endpoint, host application settings for the chat and browser adapters, the
// external recognizer, resolver tuning and the tracked-target alias list.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"switchboard/internal/bridge"
	"switchboard/internal/textnorm"
)

// Config is the root configuration, loaded from YAML with environment
// overrides applied on top.
type Config struct {
	Bridge     BridgeConfig     `yaml:"bridge"`
	Chat       ChatConfig       `yaml:"chat"`
	Browser    BrowserConfig    `yaml:"browser"`
	Recognizer RecognizerConfig `yaml:"recognizer"`
	Resolver   ResolverConfig   `yaml:"resolver"`
	Tracked    []TrackedTarget  `yaml:"tracked"`
	Serve      ServeConfig      `yaml:"serve"`
	Debug      bool             `yaml:"debug"`
}

// BridgeConfig locates the desktop automation bridge.
type BridgeConfig struct {
	URL       string `yaml:"url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

func (c BridgeConfig) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// ChatConfig describes the messaging client the open_target adapter drives.
type ChatConfig struct {
	App           string      `yaml:"app"`
	SearchKey     string      `yaml:"search_key"`
	SearchMods    []string    `yaml:"search_mods"`
	ResultsRegion bridge.Rect `yaml:"results_region"`
}

// BrowserConfig describes the browser the open_tab_like adapter drives.
type BrowserConfig struct {
	App             string      `yaml:"app"`
	DebuggerURL     string      `yaml:"debugger_url"`
	SearchURLFormat string      `yaml:"search_url_format"`
	TabStripRegion  bridge.Rect `yaml:"tab_strip_region"`
	HistoryKey      string      `yaml:"history_key"`
	HistoryMods     []string    `yaml:"history_mods"`
	BookmarksKey    string      `yaml:"bookmarks_key"`
	BookmarksMods   []string    `yaml:"bookmarks_mods"`
	BookmarksExport string      `yaml:"bookmarks_export"`
}

// RecognizerConfig locates the external text recognizer binary.
type RecognizerConfig struct {
	Binary    string `yaml:"binary"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

func (c RecognizerConfig) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// ResolverConfig tunes query normalization and cascade pacing.
type ResolverConfig struct {
	SettleMs       int               `yaml:"settle_ms"`
	StopWords      []string          `yaml:"stop_words"`
	Corrections    map[string]string `yaml:"corrections"`
	RequireTracked bool              `yaml:"require_tracked"`
}

func (c ResolverConfig) Settle() time.Duration {
	if c.SettleMs < 0 {
		return 0
	}
	return time.Duration(c.SettleMs) * time.Millisecond
}

// TrackedTarget is one whitelisted target with its spoken aliases and an
// optional pinned search-result ordinal that bypasses visual search.
type TrackedTarget struct {
	Canonical   string   `yaml:"canonical"`
	Aliases     []string `yaml:"aliases,omitempty"`
	ResultIndex *int     `yaml:"result_index,omitempty"`
}

// ServeConfig configures the command endpoint.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns a runnable configuration for a stock macOS setup.
func DefaultConfig() Config {
	return Config{
		Bridge: BridgeConfig{
			URL:       "http://127.0.0.1:7733",
			TimeoutMs: 5000,
		},
		Chat: ChatConfig{
			App:           "Telegram",
			SearchKey:     "k",
			SearchMods:    []string{"cmd"},
			ResultsRegion: bridge.Rect{X: 0, Y: 90, W: 320, H: 480},
		},
		Browser: BrowserConfig{
			App:             "Google Chrome",
			SearchURLFormat: "https://www.google.com/search?q=%s",
			TabStripRegion:  bridge.Rect{X: 0, Y: 0, W: 1440, H: 40},
			HistoryKey:      "y",
			HistoryMods:     []string{"cmd"},
			BookmarksKey:    "b",
			BookmarksMods:   []string{"cmd", "alt"},
		},
		Recognizer: RecognizerConfig{
			Binary:    "switchboard-ocr",
			TimeoutMs: 10000,
		},
		Resolver: ResolverConfig{
			SettleMs:  400,
			StopWords: textnorm.DefaultStopWords(),
			Corrections: map[string]string{
				"смита": "смета",
			},
		},
		Serve: ServeConfig{Addr: "127.0.0.1:7734"},
	}
}

// Load reads YAML from path and applies env overrides on top.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault loads the config when the file exists, otherwise returns
// defaults with env overrides applied.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	return Load(path)
}

// Save writes the config as YAML, creating parent directories.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// applyEnvOverrides lets the environment win over the file for the settings
// that differ per machine.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SWITCHBOARD_BRIDGE_URL"); v != "" {
		c.Bridge.URL = v
	}
	if v := os.Getenv("SWITCHBOARD_RECOGNIZER"); v != "" {
		c.Recognizer.Binary = v
	}
	if v := os.Getenv("SWITCHBOARD_DEBUGGER_URL"); v != "" {
		c.Browser.DebuggerURL = v
	}
	if os.Getenv("SWITCHBOARD_DEBUG") == "1" {
		c.Debug = true
	}
}

// Validate rejects configurations that cannot possibly run.
func (c Config) Validate() error {
	if c.Bridge.URL == "" {
		return fmt.Errorf("bridge.url is required")
	}
	if c.Chat.App == "" {
		return fmt.Errorf("chat.app is required")
	}
	if c.Browser.App == "" {
		return fmt.Errorf("browser.app is required")
	}
	if c.Browser.SearchURLFormat == "" {
		return fmt.Errorf("browser.search_url_format is required")
	}
	for i, t := range c.Tracked {
		if t.Canonical == "" {
			return fmt.Errorf("tracked[%d]: canonical is required", i)
		}
		if t.ResultIndex != nil && *t.ResultIndex < 0 {
			return fmt.Errorf("tracked[%d]: result_index must be >= 0", i)
		}
	}
	return nil
}
