package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	idx := 1
	cfg := DefaultConfig()
	cfg.Bridge.URL = "http://127.0.0.1:9999"
	cfg.Resolver.Corrections = map[string]string{"смита": "смета", "meet link": "meeting"}
	cfg.Tracked = []TrackedTarget{
		{Canonical: "Смета финансы", Aliases: []string{"смита", "финансы"}, ResultIndex: &idx},
	}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "bridge:\n  url: http://10.0.0.5:7733\n"
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Bridge.URL != "http://10.0.0.5:7733" {
		t.Errorf("Bridge.URL = %q", cfg.Bridge.URL)
	}
	if cfg.Chat.App != "Telegram" {
		t.Errorf("Chat.App = %q, want default preserved", cfg.Chat.App)
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("missing file should yield defaults:\n%s", diff)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SWITCHBOARD_BRIDGE_URL", "http://bridge.test:1")
	t.Setenv("SWITCHBOARD_RECOGNIZER", "/opt/ocr")
	t.Setenv("SWITCHBOARD_DEBUG", "1")

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Bridge.URL != "http://bridge.test:1" {
		t.Errorf("Bridge.URL = %q", cfg.Bridge.URL)
	}
	if cfg.Recognizer.Binary != "/opt/ocr" {
		t.Errorf("Recognizer.Binary = %q", cfg.Recognizer.Binary)
	}
	if !cfg.Debug {
		t.Error("Debug not enabled")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing bridge url", func(c *Config) { c.Bridge.URL = "" }},
		{"missing chat app", func(c *Config) { c.Chat.App = "" }},
		{"missing browser app", func(c *Config) { c.Browser.App = "" }},
		{"missing search url", func(c *Config) { c.Browser.SearchURLFormat = "" }},
		{"tracked without canonical", func(c *Config) {
			c.Tracked = []TrackedTarget{{Aliases: []string{"x"}}}
		}},
		{"negative result index", func(c *Config) {
			neg := -1
			c.Tracked = []TrackedTarget{{Canonical: "x", ResultIndex: &neg}}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
