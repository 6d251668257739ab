package resolver

import (
	"strings"

	"github.com/handsfree/webnav/internal/shared/types"
)

// Scoring weights are empirical constants carried over from production
// tuning. Their relative order (exact > aria > per-term) is load-bearing;
// the absolute values are not derived from anything.
const (
	WeightExactText = 1.0
	WeightAriaLabel = 0.8
	WeightTermHit   = 0.25

	// termCreditCap keeps accumulated per-term credit below an aria match.
	termCreditCap = 0.75
)

// ScoringWeights configures candidate ranking.
type ScoringWeights struct {
	ExactText float64
	AriaLabel float64
	TermHit   float64
}

// DefaultScoringWeights returns the production weights.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		ExactText: WeightExactText,
		AriaLabel: WeightAriaLabel,
		TermHit:   WeightTermHit,
	}
}

// queryTerms splits a normalized query into matchable terms.
func queryTerms(query string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(query)))
}

// scoreAnchor rates one anchor against the query. Returns the score, the
// reason the anchor matched, and whether it qualifies as a candidate at all.
func (w ScoringWeights) scoreAnchor(query string, terms []string, text, aria string) (float64, types.SelectionReason, bool) {
	text = strings.ToLower(text)
	aria = strings.ToLower(aria)

	if text != "" && text == query {
		return w.ExactText, types.ReasonTextMatch, true
	}
	if aria != "" && (aria == query || strings.Contains(aria, query)) {
		return w.AriaLabel, types.ReasonAriaLabel, true
	}

	hits := 0
	for _, term := range terms {
		if strings.Contains(text, term) || strings.Contains(aria, term) {
			hits++
		}
	}
	if hits == 0 {
		return 0, "", false
	}

	credit := float64(hits) * w.TermHit
	if credit > termCreditCap {
		credit = termCreditCap
	}
	return credit, types.ReasonTextMatch, true
}

// selectCandidate picks the best-scored candidate; position breaks ties.
// Returns the winner, the selection reason and whether anything qualified.
func selectCandidate(candidates []scored) (types.LinkCandidate, types.SelectionReason, bool) {
	if len(candidates) == 0 {
		return types.LinkCandidate{}, "", false
	}

	best := candidates[0]
	reason := best.reason
	for _, c := range candidates[1:] {
		switch {
		case c.score > best.score:
			best = c
			reason = c.reason
		case c.score == best.score:
			if c.candidate.PositionScore > best.candidate.PositionScore {
				best = c
			}
			reason = types.ReasonPosition
		}
	}
	return best.candidate, reason, true
}

// scored pairs a candidate with its rating during selection.
type scored struct {
	candidate types.LinkCandidate
	score     float64
	reason    types.SelectionReason
}
