package match

import (
	"strings"

	"switchboard/internal/textnorm"
)

// Partial-match awards. A verbatim substring hit is worth 1.0; a token pair
// where one contains the other is worth 0.5; a pair sharing both its first
// two and last two runes (the usual shape of a speech mis-transcription,
// e.g. "smita" heard for "smeta") is worth 0.7. These rules are deliberately
// ad hoc: they trade precision for recall on short tokens and are kept for
// behavioral compatibility with the automation they replace.
const (
	verbatimAward  = 1.0
	containsAward  = 0.5
	edgeRunesAward = 0.7

	importanceThreshold = 0.6
	scoreThresholdRatio = 0.5
)

// Score is the result of matching one query against one descriptor.
type Score struct {
	Total             float64
	AllTokensMatched  bool
	ImportantFraction float64 // fraction of important tokens matched verbatim
}

// Accepted reports whether the candidate clears any of the three acceptance
// gates: enough important tokens hit, enough total score, or every token
// matched at least partially.
func (s Score) Accepted(q Query) bool {
	if q.Empty() {
		return false
	}
	if len(q.ImportantTokens()) > 0 && s.ImportantFraction >= importanceThreshold {
		return true
	}
	if s.Total >= scoreThresholdRatio*float64(len(q.Tokens)) {
		return true
	}
	return s.AllTokensMatched
}

// ScoreDescriptor matches a query against a candidate descriptor (title plus
// any secondary text, already concatenated). Scores are non-negative and
// independent of query token order.
func ScoreDescriptor(q Query, descriptor string) Score {
	desc := textnorm.Normalize(descriptor)
	descTokens := strings.Fields(desc)

	s := Score{AllTokensMatched: true}
	if q.Empty() {
		s.AllTokensMatched = false
		return s
	}

	importantTotal := 0
	importantHit := 0
	for _, tok := range q.Tokens {
		important := len([]rune(tok)) > importantLen
		if important {
			importantTotal++
		}
		if strings.Contains(desc, tok) {
			s.Total += verbatimAward
			if important {
				importantHit++
			}
			continue
		}
		best := 0.0
		for _, dt := range descTokens {
			if a := partialAward(tok, dt); a > best {
				best = a
			}
		}
		if best == 0 {
			s.AllTokensMatched = false
		}
		s.Total += best
	}
	if importantTotal > 0 {
		s.ImportantFraction = float64(importantHit) / float64(importantTotal)
	}
	return s
}

// partialAward scores a query token against a single descriptor token.
func partialAward(qt, dt string) float64 {
	award := 0.0
	if strings.Contains(qt, dt) || strings.Contains(dt, qt) {
		award = containsAward
	}
	if sharesEdges(qt, dt) {
		award = edgeRunesAward
	}
	return award
}

// sharesEdges reports whether two tokens agree on both their first two and
// last two runes. Tokens shorter than four runes never qualify; the rule
// would degenerate to near-equality there anyway.
func sharesEdges(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < 4 || len(rb) < 4 {
		return false
	}
	return ra[0] == rb[0] && ra[1] == rb[1] &&
		ra[len(ra)-2] == rb[len(rb)-2] && ra[len(ra)-1] == rb[len(rb)-1]
}
