package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Inference.validate(); err != nil {
		return fmt.Errorf("inference: %w", err)
	}
	if err := c.Matcher.validate(); err != nil {
		return fmt.Errorf("matcher: %w", err)
	}
	return nil
}

func (c *InferenceConfig) validate() error {
	if c.EmbedURL == "" {
		return fmt.Errorf("embed_url must not be empty")
	}
	if c.EntailURL == "" {
		return fmt.Errorf("entail_url must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", c.MaxRetries)
	}
	if c.BaseDelay <= 0 {
		return fmt.Errorf("base_delay must be > 0 (got %v)", c.BaseDelay)
	}
	if c.MaxDelay < c.BaseDelay {
		return fmt.Errorf("max_delay must be >= base_delay (got %v < %v)", c.MaxDelay, c.BaseDelay)
	}
	if c.Jitter < 0 {
		return fmt.Errorf("jitter must be >= 0 (got %v)", c.Jitter)
	}
	if c.CacheMaxEntries <= 0 {
		return fmt.Errorf("cache_max_entries must be > 0 (got %d)", c.CacheMaxEntries)
	}

	statuses, err := ParseStatusList(c.RetryableStatusesRaw)
	if err != nil {
		return fmt.Errorf("retryable_statuses: %w", err)
	}
	c.RetryableStatuses = statuses

	return nil
}

func (c *MatcherConfig) validate() error {
	unit := map[string]float64{
		"embedding_threshold": c.EmbeddingThreshold,
		"hybrid_threshold":    c.HybridThreshold,
		"entailment_min":      c.EntailmentMin,
		"contradiction_max":   c.ContradictionMax,
		"overlap_min":         c.OverlapMin,
	}
	for name, v := range unit {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%s must be in (0, 1] (got %v)", name, v)
		}
	}

	if c.MaxTrivialPenalty < 0 || c.MaxTrivialPenalty >= 1 {
		return fmt.Errorf("max_trivial_penalty must be in [0, 1) (got %v)", c.MaxTrivialPenalty)
	}
	if c.EmbeddingWeight < 0 || c.EntailmentWeight < 0 {
		return fmt.Errorf("blend weights must be >= 0 (got %v, %v)", c.EmbeddingWeight, c.EntailmentWeight)
	}
	if c.EmbeddingWeight+c.EntailmentWeight == 0 {
		return fmt.Errorf("blend weights must not both be zero")
	}
	if c.ThemeTemplate == "" || c.GuessTemplate == "" {
		return fmt.Errorf("theme_template and guess_template must not be empty")
	}

	c.ExtraStopWords = ParseWordList(c.ExtraStopWordsRaw)

	return nil
}
