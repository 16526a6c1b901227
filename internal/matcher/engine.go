package matcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lexiweek/matcher/internal/config"
	"github.com/lexiweek/matcher/internal/domain"
	"github.com/lexiweek/matcher/pkg/ctxutil"
)

// SimilarityProvider is the remote embedding capability as the engine
// consumes it: processed guess and theme in, scalar similarity out.
type SimilarityProvider interface {
	Similarity(ctx context.Context, processedGuess, processedTheme string) (float64, error)
}

// EntailmentProvider is the remote NLI capability, already combined
// bidirectionally by the producer.
type EntailmentProvider interface {
	Bidirectional(ctx context.Context, processedGuess, processedTheme string) (domain.NLIResult, error)
}

// Engine scores free-text theme guesses. It holds no mutable state
// across invocations: every request derives its own signals and
// discards them after the decision is returned.
type Engine struct {
	cfg       config.MatcherConfig
	templates Templates
	keywords  *KeywordAnalyzer
	gate      *SpecificityGate
	policy    *DecisionPolicy
	embedder  SimilarityProvider
	entailer  EntailmentProvider
	log       *slog.Logger
}

// NewEngine wires the lexical analyzers and the decision policy around
// the two remote signal providers. entailer may be nil when running
// embedding-only.
func NewEngine(cfg config.MatcherConfig, embedder SimilarityProvider, entailer EntailmentProvider, logger *slog.Logger) *Engine {
	keywords := NewKeywordAnalyzer(cfg.OverlapMin, WithExtraStopWords(cfg.ExtraStopWords))
	return &Engine{
		cfg: cfg,
		templates: Templates{
			Theme:           cfg.ThemeTemplate,
			Guess:           cfg.GuessTemplate,
			ThemeContextual: cfg.ThemeTemplateContextual,
			GuessContextual: cfg.GuessTemplateContextual,
		},
		keywords: keywords,
		gate:     NewSpecificityGate(keywords, cfg.OverlapMin, cfg.MaxTrivialPenalty),
		policy:   NewDecisionPolicy(cfg),
		embedder: embedder,
		entailer: entailer,
		log:      logger.With("component", "matcher"),
	}
}

// ScoreThemeGuess decides whether the guess correctly names the theme.
//
// An exact case/whitespace-insensitive match short-circuits before any
// analyzer or network call. Remote-service failures never produce a Go
// error: the engine degrades to whichever signals survived and records
// the failure on the result. The returned error is non-nil only for
// configuration errors (missing credential), which admit no partial
// decision.
func (e *Engine) ScoreThemeGuess(ctx context.Context, guess, theme string, contextWords []string) (domain.ThemeScore, error) {
	reqID := ctxutil.RequestIDFromCtx(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
		ctx = ctxutil.WithRequestID(ctx, reqID)
	}
	log := e.log.With(slog.String("request_id", reqID))

	normGuess := domain.NormalizeText(guess)
	normTheme := domain.NormalizeText(theme)
	if normGuess != "" && normGuess == normTheme {
		log.DebugContext(ctx, "exact match shortcut")
		return domain.ThemeScore{
			IsCorrect:  true,
			Method:     domain.MethodExact,
			Confidence: 100,
			Similarity: 1,
		}, nil
	}

	prep := Prepare(theme, guess, contextWords, e.templates)

	signals := Signals{
		Keywords: e.keywords.Overlap(prep.Raw.Theme, prep.Raw.Guess),
		Negation: DetectNegation(prep.Raw.Theme, prep.Raw.Guess),
	}
	signals.Specificity = e.gate.Check(prep.Raw.Guess, signals.Keywords)

	sim, nli, simErr, nliErr := e.fetchSignals(ctx, prep.Processed)
	if err := configurationError(simErr, nliErr); err != nil {
		return domain.ThemeScore{}, err
	}

	nliSkipped := e.cfg.EmbeddingOnly || e.entailer == nil

	if simErr == nil {
		signals.Embedding = &domain.EmbeddingResult{
			Similarity: sim,
			Threshold:  e.cfg.EmbeddingThreshold,
			IsMatch:    sim >= e.cfg.EmbeddingThreshold,
		}
	}
	if !nliSkipped && nliErr == nil {
		nli.IsMatch = nli.Combined.Entailment >= e.cfg.EntailmentMin &&
			nli.Combined.Contradiction < e.cfg.ContradictionMax
		signals.NLI = &nli
	}

	dec := e.policy.Decide(signals)

	score := domain.ThemeScore{
		IsCorrect:  dec.IsMatch,
		Method:     scoringMethod(nliSkipped, simErr, nliErr),
		Confidence: int(math.Round(dec.FinalScore * 100)),
		Strategy:   dec.Strategy,
	}
	if signals.Embedding != nil {
		score.Similarity = signals.Embedding.Similarity
	}
	if err := errors.Join(simErr, nliErr); err != nil {
		score.Err = err.Error()
	}
	if score.Method == domain.MethodError {
		// Total remote outage: the lexical verdict is logged for
		// operators but the caller gets the fallback contract.
		score.IsCorrect = false
		score.Confidence = 0
	}

	log.InfoContext(ctx, "theme guess scored",
		slog.String("method", score.Method),
		slog.String("strategy", dec.Strategy),
		slog.Bool("is_correct", score.IsCorrect),
		slog.Int("confidence", score.Confidence),
		slog.Float64("weighted_overlap", signals.Keywords.WeightedOverlap),
	)

	return score, nil
}

// fetchSignals runs the embedding call and the bidirectional NLI call
// concurrently. A failure in one never cancels the other: each signal
// records its own error and the decision policy degrades around it.
func (e *Engine) fetchSignals(ctx context.Context, processed domain.ProcessedInputs) (sim float64, nli domain.NLIResult, simErr, nliErr error) {
	var g errgroup.Group

	g.Go(func() error {
		sim, simErr = e.embedder.Similarity(ctx, processed.Guess, processed.Theme)
		return nil
	})

	if !e.cfg.EmbeddingOnly && e.entailer != nil {
		g.Go(func() error {
			nli, nliErr = e.entailer.Bidirectional(ctx, processed.Guess, processed.Theme)
			return nil
		})
	}

	// The closures never return errors; per-signal failures are kept
	// separate so one outage cannot cancel the sibling call.
	_ = g.Wait()
	return sim, nli, simErr, nliErr
}

// configurationError promotes a missing-credential failure over
// graceful degradation: no partial decision is returned for it.
func configurationError(errs ...error) error {
	for _, err := range errs {
		if err != nil && errors.Is(err, domain.ErrConfiguration) {
			return fmt.Errorf("matcher: %w", err)
		}
	}
	return nil
}

// scoringMethod maps the surviving signal set onto the inbound
// contract's method vocabulary.
func scoringMethod(nliSkipped bool, simErr, nliErr error) string {
	switch {
	case simErr == nil && nliSkipped:
		return domain.MethodSemantic
	case simErr == nil && nliErr != nil:
		return domain.MethodSemantic
	case simErr == nil:
		return domain.MethodHybrid
	case !nliSkipped && nliErr == nil:
		return domain.MethodHybrid
	default:
		return domain.MethodError
	}
}
