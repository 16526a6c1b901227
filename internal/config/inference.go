package config

import "time"

// InferenceConfig holds remote inference service settings: endpoints,
// authentication, the per-attempt timeout, the bounded retry policy,
// and the similarity response cache.
type InferenceConfig struct {
	EmbedURL  string `yaml:"embed_url"  env:"INFERENCE_EMBED_URL"  env-default:"https://inference.lexiweek.app/embed"`
	EntailURL string `yaml:"entail_url" env:"INFERENCE_ENTAIL_URL" env-default:"https://inference.lexiweek.app/entail"`

	// APIToken is the bearer credential for the inference service. Its
	// absence is a configuration error raised on first use, never a
	// retry condition.
	APIToken string `yaml:"api_token" env:"INFERENCE_API_TOKEN"`

	Timeout    time.Duration `yaml:"timeout"     env:"INFERENCE_TIMEOUT"     env-default:"10s"`
	MaxRetries int           `yaml:"max_retries" env:"INFERENCE_MAX_RETRIES" env-default:"3"`
	BaseDelay  time.Duration `yaml:"base_delay"  env:"INFERENCE_BASE_DELAY"  env-default:"500ms"`
	MaxDelay   time.Duration `yaml:"max_delay"   env:"INFERENCE_MAX_DELAY"   env-default:"8s"`
	Jitter     time.Duration `yaml:"jitter"      env:"INFERENCE_JITTER"      env-default:"250ms"`

	RetryableStatusesRaw string `yaml:"retryable_statuses" env:"INFERENCE_RETRYABLE_STATUSES" env-default:"429,500,502,503,504"`

	CacheTTL        time.Duration `yaml:"cache_ttl"         env:"INFERENCE_CACHE_TTL"         env-default:"10m"`
	CacheMaxEntries int           `yaml:"cache_max_entries" env:"INFERENCE_CACHE_MAX_ENTRIES" env-default:"1024"`
	CacheSweepEvery time.Duration `yaml:"cache_sweep_every" env:"INFERENCE_CACHE_SWEEP_EVERY" env-default:"5m"`

	// RetryableStatuses is parsed from RetryableStatusesRaw during validation.
	RetryableStatuses []int `yaml:"-" env:"-"`
}
