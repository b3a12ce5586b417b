package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"switchboard/internal/command"
)

var (
	openKind       string
	openMessage    string
	openIndex      int
	openNoAuto     bool
	openTimeoutSec int
)

var openCmd = &cobra.Command{
	Use:   "open [query...]",
	Short: "Resolve a target and bring it to front",
	Long: `Resolves the query against the chosen host application and activates the
best match. The fallback order is fixed: open items, visual search, history,
bookmarks, and finally a fresh item for the query.

Examples:
  switchboard open --kind chat смета финансовая
  switchboard open --kind tab budget report
  switchboard open --kind chat --message "готово, посмотри" смета`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOpen,
}

func init() {
	openCmd.Flags().StringVarP(&openKind, "kind", "k", "tab", "target kind: chat or tab")
	openCmd.Flags().StringVarP(&openMessage, "message", "m", "", "draft message to type after a chat opens (never sent)")
	openCmd.Flags().IntVar(&openIndex, "result-index", -1, "pinned search-result ordinal, 0-based (skips visual search)")
	openCmd.Flags().BoolVar(&openNoAuto, "no-auto-select", false, "trust the host's first result instead of the recognizer")
	openCmd.Flags().IntVar(&openTimeoutSec, "timeout", 60, "overall command timeout in seconds")
}

func runOpen(cmd *cobra.Command, args []string) error {
	req := command.Request{Query: strings.Join(args, " "), Message: openMessage}
	switch openKind {
	case "chat":
		req.Kind = command.KindOpenTarget
	case "tab":
		req.Kind = command.KindOpenTab
	default:
		return fmt.Errorf("unknown kind %q (want chat or tab)", openKind)
	}
	if openIndex >= 0 {
		req.ResultIndex = &openIndex
	}
	if openNoAuto {
		f := false
		req.AutoSelect = &f
	}

	rt := newRuntime(cfg)
	defer rt.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(openTimeoutSec)*time.Second)
	defer cancel()

	res := rt.dispatcher.Execute(ctx, req)
	if !res.OK {
		return fmt.Errorf("%s", res.Error)
	}
	target := res.Target
	if target == "" {
		target = req.Query
	}
	fmt.Println(okStyle.Render("✓ " + target))
	fmt.Println(dimStyle.Render("  via " + res.Source))
	return nil
}
