package matcher

import (
	"github.com/lexiweek/matcher/internal/config"
	"github.com/lexiweek/matcher/internal/domain"
)

// Strategy names, one per rule. Exactly one is recorded on every
// decision, for explainability and test assertions.
const (
	StrategyNegationMismatch   = "negation_mismatch"
	StrategyContradiction      = "contradiction_override"
	StrategyKeywordSevere      = "keyword_mismatch_severe"
	StrategyKeywordModerate    = "keyword_mismatch_moderate"
	StrategyTrivialGuess       = "trivial_guess"
	StrategyStrongEntailment   = "strong_entailment"
	StrategyWeightedBlend      = "weighted_blend"
	StrategyEmbeddingThreshold = "embedding_threshold"
	StrategyNLIFallback        = "nli_fallback"
	StrategyLexicalOnly        = "lexical_only"
)

// Fixed rule boundaries of the decision ladder. The tunable thresholds
// (embedding, hybrid, entailment, contradiction, overlap) live in
// MatcherConfig; these constants shape the rules themselves.
const (
	negationFactor      = 0.6  // score multiplier penalty on property-type mismatch
	contradictionStrong = 0.5  // combined contradiction above this overrides everything below
	severeSimMin        = 0.75 // embedding floor for the severe keyword-mismatch rule
	severeOverlapMax    = 0.3  // overlap ceiling for the severe keyword-mismatch rule
	moderateSimMin      = 0.7  // embedding floor for the moderate keyword-mismatch rule
	moderateOverlapMax  = 0.7  // overlap ceiling for the moderate keyword-mismatch rule
	strongEntailMin     = 0.7  // combined entailment floor for unconditional acceptance
	strongSimMin        = 0.6  // embedding floor for unconditional acceptance
	residualFactor      = 0.4  // residual keyword penalty slope in the default blend
)

// Signals carries everything the decision policy consumes. A nil
// Embedding or NLI pointer means that signal is unavailable (failed
// after retries, or skipped); the policy degrades gracefully around it.
type Signals struct {
	Embedding   *domain.EmbeddingResult
	NLI         *domain.NLIResult
	Keywords    domain.KeywordOverlapResult
	Specificity domain.SpecificityResult
	Negation    domain.NegationResult
}

// DecisionPolicy is the priority-ordered rule engine combining all
// signals into one verdict. Rules are evaluated in a fixed order and
// the first match wins.
type DecisionPolicy struct {
	cfg config.MatcherConfig
}

// NewDecisionPolicy creates a policy over the given thresholds.
func NewDecisionPolicy(cfg config.MatcherConfig) *DecisionPolicy {
	return &DecisionPolicy{cfg: cfg}
}

// Decide produces the final score, match verdict, and the name of the
// single rule that fired. It is deterministic for fixed signal values.
func (p *DecisionPolicy) Decide(s Signals) domain.HybridDecision {
	switch {
	case s.Embedding != nil && s.NLI != nil:
		return p.decideHybrid(s)
	case s.Embedding != nil:
		return p.decideEmbeddingOnly(s)
	case s.NLI != nil:
		return p.decideNLIFallback(s)
	default:
		return p.decideLexicalOnly(s)
	}
}

// decideHybrid is the full rule ladder: negation, contradiction,
// keyword mismatch (severe then moderate), triviality, strong
// bidirectional entailment, then the weighted blend.
func (p *DecisionPolicy) decideHybrid(s Signals) domain.HybridDecision {
	sim := s.Embedding.Similarity
	nli := s.NLI.Combined
	overlap := s.Keywords.WeightedOverlap

	if s.Negation.ShouldPenalise {
		return decision(sim*(1-negationFactor), false, StrategyNegationMismatch)
	}

	if nli.Contradiction > contradictionStrong {
		return decision(sim*0.5, false, StrategyContradiction)
	}

	if sim > severeSimMin && overlap < severeOverlapMax {
		score := sim * (0.5 + overlap*0.5)
		return decision(score, score >= p.cfg.HybridThreshold, StrategyKeywordSevere)
	}

	if sim > moderateSimMin && overlap < moderateOverlapMax {
		score := sim * (1 - (1-overlap)*0.5)
		return decision(score, score >= p.cfg.HybridThreshold, StrategyKeywordModerate)
	}

	if s.Specificity.PenaltyApplied > 0 {
		score := sim * (1 - s.Specificity.PenaltyApplied)
		return decision(score, score >= p.cfg.HybridThreshold, StrategyTrivialGuess)
	}

	if nli.Entailment > strongEntailMin && sim > strongSimMin && overlap >= p.cfg.OverlapMin {
		return decision((sim+nli.Entailment)/2, true, StrategyStrongEntailment)
	}

	score := sim*p.cfg.EmbeddingWeight + max(0, nli.Entailment-nli.Contradiction*0.5)*p.cfg.EntailmentWeight
	score *= p.residualKeywordPenalty(overlap)
	return decision(score, score >= p.cfg.HybridThreshold, StrategyWeightedBlend)
}

// decideEmbeddingOnly is the degraded ladder used when entailment is
// skipped (embedding-only mode) or failed: the same rule families
// minus the entailment-dependent ones, compared against the embedding
// threshold instead of the hybrid threshold.
func (p *DecisionPolicy) decideEmbeddingOnly(s Signals) domain.HybridDecision {
	sim := s.Embedding.Similarity
	overlap := s.Keywords.WeightedOverlap

	if s.Negation.ShouldPenalise {
		return decision(sim*(1-negationFactor), false, StrategyNegationMismatch)
	}

	if sim > severeSimMin && overlap < severeOverlapMax {
		score := sim * (0.5 + overlap*0.5)
		return decision(score, score >= p.cfg.EmbeddingThreshold, StrategyKeywordSevere)
	}

	if sim > moderateSimMin && overlap < moderateOverlapMax {
		score := sim * (1 - (1-overlap)*0.5)
		return decision(score, score >= p.cfg.EmbeddingThreshold, StrategyKeywordModerate)
	}

	if s.Specificity.PenaltyApplied > 0 {
		score := sim * (1 - s.Specificity.PenaltyApplied)
		return decision(score, score >= p.cfg.EmbeddingThreshold, StrategyTrivialGuess)
	}

	return decision(sim, sim >= p.cfg.EmbeddingThreshold, StrategyEmbeddingThreshold)
}

// decideNLIFallback handles an embedding outage survived by the NLI
// and lexical signals: the entailment margin carries most of the
// weight, keyword overlap the rest.
func (p *DecisionPolicy) decideNLIFallback(s Signals) domain.HybridDecision {
	nli := s.NLI.Combined
	base := max(0, nli.Entailment-nli.Contradiction*0.5)

	if s.Negation.ShouldPenalise {
		return decision(base*(1-negationFactor), false, StrategyNegationMismatch)
	}

	if nli.Contradiction > contradictionStrong {
		return decision(base*0.5, false, StrategyContradiction)
	}

	score := base*0.7 + s.Keywords.WeightedOverlap*0.3
	ok := score >= p.cfg.HybridThreshold && nli.Contradiction < p.cfg.ContradictionMax
	return decision(score, ok, StrategyNLIFallback)
}

// decideLexicalOnly is the total-outage floor: the lexical signals
// alone are never confident enough to accept a paraphrase.
func (p *DecisionPolicy) decideLexicalOnly(s Signals) domain.HybridDecision {
	score := s.Keywords.WeightedOverlap * 0.5
	if s.Negation.ShouldPenalise {
		score *= 1 - negationFactor
	}
	return decision(score, false, StrategyLexicalOnly)
}

// residualKeywordPenalty dampens the default blend when the guess
// misses the theme's substance but no earlier keyword rule applied.
func (p *DecisionPolicy) residualKeywordPenalty(overlap float64) float64 {
	if overlap >= p.cfg.OverlapMin {
		return 1
	}
	return 1 - (p.cfg.OverlapMin-overlap)*residualFactor
}

func decision(score float64, isMatch bool, strategy string) domain.HybridDecision {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return domain.HybridDecision{FinalScore: score, IsMatch: isMatch, Strategy: strategy}
}
