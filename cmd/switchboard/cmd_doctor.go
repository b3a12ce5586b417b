package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"switchboard/internal/config"
	"switchboard/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the bridge, recognizer and DevTools dependencies",
	RunE:  runDoctor,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.DefaultConfig().Save(configPath); err != nil {
			return err
		}
		fmt.Println(okStyle.Render("✓ wrote " + configPath))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	rt := newRuntime(cfg)
	defer rt.close()

	report := health.Check(cmd.Context(), rt.bridge, cfg.Recognizer.Binary, rt.chrome)
	for _, item := range report {
		switch {
		case item.OK():
			fmt.Println(okStyle.Render("✓ " + item.Name))
		case item.Optional:
			fmt.Println(dimStyle.Render(fmt.Sprintf("~ %s: %v (optional, cascade degrades)", item.Name, item.Err)))
		default:
			fmt.Println(errorStyle.Render(fmt.Sprintf("✗ %s: %v", item.Name, item.Err)))
		}
	}
	if !report.Healthy() {
		return fmt.Errorf("required dependencies missing")
	}
	return nil
}
