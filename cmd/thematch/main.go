// Command thematch scores a single theme guess against a target theme
// phrase using the hybrid matching engine (embedding similarity +
// bidirectional entailment + lexical analyzers).
//
// Usage:
//
//	thematch -theme "groups of animals" -guess "animal collectives" [-words "pride,murder,school"]
//
// Configuration comes from CONFIG_PATH / ./config.yaml / environment
// (see internal/config). The decision is printed to stdout as JSON.
//
// Exit codes: 0 = success, 1 = error, 2 = configuration error.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/lexiweek/matcher/internal/adapter/inference"
	"github.com/lexiweek/matcher/internal/app"
	"github.com/lexiweek/matcher/internal/config"
	"github.com/lexiweek/matcher/internal/domain"
	"github.com/lexiweek/matcher/internal/matcher"
)

func main() {
	theme := flag.String("theme", "", "target theme phrase")
	guess := flag.String("guess", "", "player's free-text guess")
	words := flag.String("words", "", "comma-separated context words of the week")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := app.NewLogger(cfg.Log)

	if *theme == "" || *guess == "" {
		fmt.Fprintln(os.Stderr, "both -theme and -guess are required")
		flag.Usage()
		os.Exit(1)
	}

	engine := buildEngine(cfg, logger)

	score, err := engine.ScoreThemeGuess(context.Background(), *guess, *theme, config.ParseWordList(*words))
	if err != nil {
		logger.Error("scoring failed", slog.String("error", err.Error()))
		if errors.Is(err, domain.ErrConfiguration) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	out, err := json.MarshalIndent(score, "", "  ")
	if err != nil {
		logger.Error("encode result", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(string(out))

	if !score.IsCorrect && score.Method == domain.MethodError {
		os.Exit(1)
	}
}

// buildEngine assembles the resilient client, the cached embedding
// producer, and the NLI producer around the matching engine.
func buildEngine(cfg *config.Config, logger *slog.Logger) *matcher.Engine {
	client := inference.NewClient(cfg.Inference, logger)

	cache := inference.NewCache(cfg.Inference.CacheTTL, cfg.Inference.CacheMaxEntries, nil)
	embedder := inference.NewCachedSimilarity(
		inference.NewEmbedder(client, cfg.Inference.EmbedURL, logger),
		cache,
	)

	var entailer matcher.EntailmentProvider
	if !cfg.Matcher.EmbeddingOnly {
		entailer = inference.NewNLIProducer(client, cfg.Inference.EntailURL, logger)
	}

	return matcher.NewEngine(cfg.Matcher, embedder, entailer, logger)
}
