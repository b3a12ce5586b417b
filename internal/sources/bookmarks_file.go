package sources

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"switchboard/internal/cascade"
	"switchboard/internal/match"
)

// BookmarksFile is stage four in its structured form: instead of driving the
// bookmark manager by keystroke, read an exported bookmarks HTML file (the
// Netscape format every browser exports) and score its entries locally. The
// winning entry activates by opening its URL in a fresh tab.
type BookmarksFile struct {
	Path string
}

func (s *BookmarksFile) Source() cascade.Source { return cascade.SourceBookmarks }

func (s *BookmarksFile) Propose(ctx context.Context, q match.Query) (*cascade.Candidate, error) {
	if s.Path == "" {
		return nil, fmt.Errorf("%w: no bookmarks export configured", cascade.ErrSourceUnavailable)
	}
	if q.Empty() {
		return nil, fmt.Errorf("%w: empty query", cascade.ErrNoMatch)
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cascade.ErrSourceUnavailable, err)
	}
	defer f.Close()

	entries, err := parseBookmarks(f)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", cascade.ErrSourceUnavailable, s.Path, err)
	}

	bestIdx := -1
	var best match.Score
	for i, e := range entries {
		sc := match.ScoreDescriptor(q, e.title+" "+e.url)
		if !sc.Accepted(q) {
			continue
		}
		if bestIdx < 0 || sc.Total > best.Total {
			bestIdx, best = i, sc
		}
	}
	if bestIdx < 0 {
		return nil, fmt.Errorf("%w: %d bookmarks, none accepted", cascade.ErrNoMatch, len(entries))
	}
	e := entries[bestIdx]
	// The entry's title is what the bookmark was saved as, not what the
	// page will title itself after loading, so verification scores the
	// activated page against the query instead of requiring equality.
	return &cascade.Candidate{
		Locator:   cascade.URLLocator{URL: e.url},
		Title:     e.title,
		Secondary: e.url,
		Source:    cascade.SourceBookmarks,
	}, nil
}

type bookmarkEntry struct {
	title string
	url   string
}

// parseBookmarks walks a Netscape bookmarks export and collects every anchor
// with an HREF. The format is lenient HTML, which the tokenizer tolerates;
// truncated exports yield whatever parsed before the error.
func parseBookmarks(r io.Reader) ([]bookmarkEntry, error) {
	tok := html.NewTokenizer(r)
	var entries []bookmarkEntry
	var current *bookmarkEntry
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return entries, nil
		case html.StartTagToken:
			t := tok.Token()
			if t.Data != "a" {
				continue
			}
			for _, attr := range t.Attr {
				if strings.EqualFold(attr.Key, "href") && attr.Val != "" {
					current = &bookmarkEntry{url: attr.Val}
					break
				}
			}
		case html.TextToken:
			if current != nil {
				current.title += string(tok.Text())
			}
		case html.EndTagToken:
			if t := tok.Token(); t.Data == "a" && current != nil {
				current.title = strings.TrimSpace(current.title)
				entries = append(entries, *current)
				current = nil
			}
		}
	}
}
