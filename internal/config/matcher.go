package config

// MatcherConfig holds decision thresholds, blend weights, and the four
// prompt templates. Templates may reference the {theme}, {guess} and
// {words} placeholders.
type MatcherConfig struct {
	EmbeddingThreshold float64 `yaml:"embedding_threshold" env:"MATCHER_EMBEDDING_THRESHOLD" env-default:"0.78"`
	HybridThreshold    float64 `yaml:"hybrid_threshold"    env:"MATCHER_HYBRID_THRESHOLD"    env-default:"0.65"`
	EntailmentMin      float64 `yaml:"entailment_min"      env:"MATCHER_ENTAILMENT_MIN"      env-default:"0.5"`
	ContradictionMax   float64 `yaml:"contradiction_max"   env:"MATCHER_CONTRADICTION_MAX"   env-default:"0.3"`
	OverlapMin         float64 `yaml:"overlap_min"         env:"MATCHER_OVERLAP_MIN"         env-default:"0.5"`
	MaxTrivialPenalty  float64 `yaml:"max_trivial_penalty" env:"MATCHER_MAX_TRIVIAL_PENALTY" env-default:"0.25"`

	EmbeddingWeight  float64 `yaml:"embedding_weight"  env:"MATCHER_EMBEDDING_WEIGHT"  env-default:"0.6"`
	EntailmentWeight float64 `yaml:"entailment_weight" env:"MATCHER_ENTAILMENT_WEIGHT" env-default:"0.4"`

	// EmbeddingOnly skips the entailment producer entirely, trading
	// accuracy for one remote call instead of three.
	EmbeddingOnly bool `yaml:"embedding_only" env:"MATCHER_EMBEDDING_ONLY" env-default:"false"`

	ThemeTemplate           string `yaml:"theme_template"            env:"MATCHER_THEME_TEMPLATE"            env-default:"What connects this week's words? {theme}"`
	GuessTemplate           string `yaml:"guess_template"            env:"MATCHER_GUESS_TEMPLATE"            env-default:"{guess}"`
	ThemeTemplateContextual string `yaml:"theme_template_contextual" env:"MATCHER_THEME_TEMPLATE_CONTEXTUAL" env-default:"What connects the words {words}? {theme}"`
	GuessTemplateContextual string `yaml:"guess_template_contextual" env:"MATCHER_GUESS_TEMPLATE_CONTEXTUAL" env-default:"What connects the words {words}? {guess}"`

	// ExtraStopWordsRaw extends the built-in stop-word set (comma-separated).
	ExtraStopWordsRaw string `yaml:"extra_stop_words" env:"MATCHER_EXTRA_STOP_WORDS"`

	// ExtraStopWords is parsed from ExtraStopWordsRaw during validation.
	ExtraStopWords []string `yaml:"-" env:"-"`
}
