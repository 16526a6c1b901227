package matcher

import "github.com/lexiweek/matcher/internal/domain"

// trivialTokenMax is the content-token count at or below which a guess
// is considered trivially short.
const trivialTokenMax = 2

// SpecificityGate penalizes guesses that are both short and
// conceptually thin. A short guess that nails the theme's key concept
// (high keyword overlap) incurs no penalty.
type SpecificityGate struct {
	keywords   *KeywordAnalyzer
	overlapMin float64
	maxPenalty float64
}

// NewSpecificityGate creates a gate sharing the analyzer's stop-word
// filtering. overlapMin is the gating threshold below which a trivial
// guess is penalized; maxPenalty caps the penalty.
func NewSpecificityGate(keywords *KeywordAnalyzer, overlapMin, maxPenalty float64) *SpecificityGate {
	return &SpecificityGate{
		keywords:   keywords,
		overlapMin: overlapMin,
		maxPenalty: maxPenalty,
	}
}

// Check evaluates the guess against the already-computed keyword
// overlap. The penalty scales linearly with how far below the gating
// threshold the overlap sits, capped at maxPenalty.
func (g *SpecificityGate) Check(guessRaw string, overlap domain.KeywordOverlapResult) domain.SpecificityResult {
	content := g.keywords.Keywords(guessRaw)

	res := domain.SpecificityResult{
		ContentTokens:  len(content),
		IsTrivialGuess: len(content) <= trivialTokenMax,
	}

	if !res.IsTrivialGuess || overlap.WeightedOverlap >= g.overlapMin {
		return res
	}

	penalty := (g.overlapMin - overlap.WeightedOverlap) * 2 * g.maxPenalty
	if penalty > g.maxPenalty {
		penalty = g.maxPenalty
	}
	res.PenaltyApplied = penalty
	return res
}
