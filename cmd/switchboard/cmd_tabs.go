package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"switchboard/internal/match"
	"switchboard/internal/textnorm"
)

var tabsCmd = &cobra.Command{
	Use:   "tabs [query...]",
	Short: "List open browser tabs, optionally scored against a query",
	RunE:  runTabs,
}

func runTabs(cmd *cobra.Command, args []string) error {
	rt := newRuntime(cfg)
	defer rt.close()

	items, err := rt.chrome.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list tabs: %w", err)
	}

	var q match.Query
	scored := len(args) > 0
	if scored {
		q = match.NewQuery(strings.Join(args, " "),
			textnorm.Corrections(cfg.Resolver.Corrections), cfg.Resolver.StopWords)
	}

	for _, item := range items {
		line := fmt.Sprintf("%-14s %s", item.Locator.Describe(), item.Title)
		if scored {
			sc := match.ScoreDescriptor(q, item.Title+" "+item.Secondary)
			mark := dimStyle
			if sc.Accepted(q) {
				mark = okStyle
			}
			line = mark.Render(fmt.Sprintf("%5.1f", sc.Total)) + "  " + line
		}
		fmt.Println(line)
		if item.Secondary != "" {
			fmt.Println(dimStyle.Render("       " + truncate(item.Secondary, 90)))
		}
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("%d tabs", len(items))))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
