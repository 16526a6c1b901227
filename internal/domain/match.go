package domain

// MatchRequest is the immutable input to one theme-scoring invocation.
// ContextWords is the ordered list of the week's other target words and
// is used only to enrich the templates sent to the semantic models.
type MatchRequest struct {
	RawTheme     string
	RawGuess     string
	ContextWords []string
}

// RawInputs holds the trim-only user text. Raw strings are the only
// form the lexical analyzers ever see.
type RawInputs struct {
	Theme        string
	Guess        string
	ContextWords []string
}

// ProcessedInputs holds the template-wrapped text sent to the remote
// embedding and entailment models. Raw strings never reach the network.
type ProcessedInputs struct {
	Theme string
	Guess string
}

// TemplatesUsed records which templates produced the processed form,
// for auditability.
type TemplatesUsed struct {
	Theme string
	Guess string
}

// PreparedInputs is derived once per request by the input preparer.
type PreparedInputs struct {
	Raw           RawInputs
	Processed     ProcessedInputs
	TemplatesUsed TemplatesUsed
}

// EmbeddingResult is the thresholded semantic-similarity signal.
type EmbeddingResult struct {
	Similarity float64
	IsMatch    bool
	Threshold  float64
}

// NLITriplet is a three-way probability distribution over the
// entailment outcomes. The three values sum to approximately 1.
type NLITriplet struct {
	Entailment    float64
	Contradiction float64
	Neutral       float64
}

// NLIResult combines the forward (guess⇒theme) and reverse
// (theme⇒guess) entailment directions. Combined uses
// min(entailment) / max(contradiction) strict-equivalence semantics:
// both directions must support a relation for it to count as
// entailment, either direction is enough to flag contradiction.
type NLIResult struct {
	Combined NLITriplet
	Forward  NLITriplet
	Reverse  NLITriplet
	IsMatch  bool
}

// MatchType classifies how a theme keyword was matched in the guess.
type MatchType string

const (
	MatchExact     MatchType = "exact"
	MatchStem      MatchType = "stem"
	MatchSynonym   MatchType = "synonym"
	MatchSubstring MatchType = "substring"
	MatchNone      MatchType = "none"
)

// MatchDetail records the best match found for one theme keyword.
type MatchDetail struct {
	ThemeKeyword string
	GuessToken   string
	MatchType    MatchType
	Score        float64
}

// KeywordOverlapResult is the lexical overlap signal.
// WeightedOverlap is the mean of best-match scores across theme
// keywords (unmatched keywords score 0); Overlap is the plain fraction
// of theme keywords matched by any method.
type KeywordOverlapResult struct {
	ThemeKeywords     []string
	GuessKeywords     []string
	MatchDetails      []MatchDetail
	WeightedOverlap   float64
	Overlap           float64
	HasSynonymMatches bool
	IsMatch           bool
}

// SpecificityResult is the triviality-gate signal. A short guess is
// only penalized when it is also conceptually thin.
type SpecificityResult struct {
	IsTrivialGuess bool
	ContentTokens  int
	PenaltyApplied float64
}

// NegationResult is the negation/qualifier-mismatch signal.
type NegationResult struct {
	GuessHasNegation  bool
	ThemeHasNegation  bool
	GuessHasQualifier bool
	ThemeHasQualifier bool
	ShouldPenalise    bool
	Reason            string
}

// HybridDecision is the final verdict of the decision policy.
// Strategy names exactly one fired rule, for explainability and tests.
type HybridDecision struct {
	FinalScore float64
	IsMatch    bool
	Strategy   string
}

// Scoring methods reported on ThemeScore.
const (
	MethodExact    = "exact"
	MethodHybrid   = "hybrid"
	MethodSemantic = "semantic"
	MethodError    = "error"
)

// ThemeScore is the inbound contract consumed by the game loop.
// Confidence is 0..100. Err carries a remote-service failure that was
// survived by graceful degradation; the engine never returns a Go
// error for remote failures.
type ThemeScore struct {
	IsCorrect  bool    `json:"isCorrect"`
	Method     string  `json:"method"`
	Confidence int     `json:"confidence"`
	Similarity float64 `json:"similarity,omitempty"`
	Strategy   string  `json:"strategy,omitempty"`
	Err        string  `json:"error,omitempty"`
}
