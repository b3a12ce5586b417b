// Package textnorm normalizes free-text queries and on-screen descriptors so
// they can be compared: Unicode folding, whitespace collapse, stop-word
// stripping and correction of common speech mis-transcriptions.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var foldCaser = cases.Fold()

// Normalize lower-cases (Unicode case folding), NFKC-normalizes, folds ё to е,
// strips control characters and collapses runs of whitespace to single spaces.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = foldCaser.String(s)
	s = strings.ReplaceAll(s, "ё", "е")
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	})
	return strings.Join(fields, " ")
}

// Tokenize splits a normalized string into word tokens.
func Tokenize(s string) []string {
	return strings.Fields(Normalize(s))
}

// Corrections is a wrong→right substitution table for words that speech
// recognition reliably mangles (the "смита"→"смета" class of errors).
// Both sides are matched in normalized form.
type Corrections map[string]string

// Apply rewrites every token that has a correction entry. Multi-word keys are
// applied first against the whole string so phrase-level corrections win.
func (c Corrections) Apply(s string) string {
	if len(c) == 0 {
		return s
	}
	s = Normalize(s)
	for wrong, right := range c {
		if strings.Contains(wrong, " ") && strings.Contains(s, wrong) {
			s = strings.ReplaceAll(s, wrong, right)
		}
	}
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		if right, ok := c[tok]; ok {
			tokens[i] = right
		}
	}
	return strings.Join(tokens, " ")
}

// DefaultStopWords are filler words that never identify a target: host
// application names and the imperative verbs that carry the command itself.
func DefaultStopWords() []string {
	return []string{
		"chrome", "браузер", "вкладка", "вкладку", "открой", "найди",
		"tab", "browser", "open", "find", "the", "a",
		"чат", "chat",
	}
}

// StripStopWords removes stop words from a token list, preserving order.
func StripStopWords(tokens []string, stop []string) []string {
	if len(stop) == 0 {
		return tokens
	}
	set := make(map[string]struct{}, len(stop))
	for _, w := range stop {
		set[Normalize(w)] = struct{}{}
	}
	out := tokens[:0:0]
	for _, tok := range tokens {
		if _, skip := set[tok]; !skip {
			out = append(out, tok)
		}
	}
	return out
}
