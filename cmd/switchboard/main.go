// Package main implements the switchboard CLI: resolve a human-named target
// (a chat thread or a browser tab) and make it active in the host
// application, driving the UI only through an automation bridge, DevTools
// and an optional external text recognizer.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"switchboard/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Loaded before every command
	cfg config.Config

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "switchboard",
	Short: "Find a named chat or browser tab and bring it to front",
	Long: `switchboard resolves a free-text target name against everything the host
application exposes to an outside observer: open windows and tabs, pixels on
screen, history and bookmarks. The first source that produces a verified
match wins; as a last resort a fresh item is opened for the query.

It drives the desktop only through an automation bridge (keystrokes, clicks,
screen capture) and the browser's DevTools protocol. No private APIs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		cfg, err = config.LoadOrDefault(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cfg.Debug && !verbose {
			zcfg.Level.SetLevel(zapcore.DebugLevel)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func defaultConfigPath() string {
	if v := os.Getenv("SWITCHBOARD_CONFIG"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "switchboard.yaml"
	}
	return home + "/.config/switchboard/config.yaml"
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "config file path")

	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tabsCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}
}
