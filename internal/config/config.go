package config

import (
	"strconv"
	"strings"
)

// Config is the root application configuration.
type Config struct {
	Inference InferenceConfig `yaml:"inference"`
	Matcher   MatcherConfig   `yaml:"matcher"`
	Log       LogConfig       `yaml:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// ParseStatusList parses a comma-separated list of HTTP status codes
// (e.g. "429,503"). An empty string returns a nil slice.
func ParseStatusList(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	statuses := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		code, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, code)
	}
	return statuses, nil
}

// ParseWordList parses a comma-separated word list, trimming and
// lower-casing each entry. An empty string returns a nil slice.
func ParseWordList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			words = append(words, p)
		}
	}
	return words
}
