// Package match implements the scoring engine that decides how well a
// candidate's on-screen descriptor satisfies a free-text query.
package match

import (
	"switchboard/internal/textnorm"
)

// importantLen is the minimum token length (in runes, exclusive) for a token
// to count as "important". Short tokens are too noisy to gate acceptance.
const importantLen = 3

// Query is a normalized free-text request for a target, prepared once per
// incoming command and discarded when the command completes.
type Query struct {
	Raw    string
	Text   string   // normalized, corrected, stop-words removed
	Tokens []string // word tokens of Text
}

// NewQuery normalizes raw text, applies mis-transcription corrections and
// strips stop words. An empty or stop-word-only input yields a Query with no
// tokens; such a query matches nothing.
func NewQuery(raw string, corrections textnorm.Corrections, stopWords []string) Query {
	text := corrections.Apply(textnorm.Normalize(raw))
	tokens := textnorm.StripStopWords(textnorm.Tokenize(text), stopWords)
	return Query{
		Raw:    raw,
		Text:   join(tokens),
		Tokens: tokens,
	}
}

// ImportantTokens returns the query tokens longer than three runes.
func (q Query) ImportantTokens() []string {
	var out []string
	for _, tok := range q.Tokens {
		if len([]rune(tok)) > importantLen {
			out = append(out, tok)
		}
	}
	return out
}

// Empty reports whether nothing is left of the query after normalization.
func (q Query) Empty() bool { return len(q.Tokens) == 0 }

func join(tokens []string) string {
	s := ""
	for i, t := range tokens {
		if i > 0 {
			s += " "
		}
		s += t
	}
	return s
}
