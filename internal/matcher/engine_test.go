package matcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexiweek/matcher/internal/domain"
)

// ===========================================================================
// Manual mocks (func fields)
// ===========================================================================

type mockEmbedder struct {
	calls          atomic.Int32
	SimilarityFunc func(ctx context.Context, guess, theme string) (float64, error)
}

func (m *mockEmbedder) Similarity(ctx context.Context, guess, theme string) (float64, error) {
	m.calls.Add(1)
	if m.SimilarityFunc != nil {
		return m.SimilarityFunc(ctx, guess, theme)
	}
	return 0.5, nil
}

type mockEntailer struct {
	calls             atomic.Int32
	BidirectionalFunc func(ctx context.Context, guess, theme string) (domain.NLIResult, error)
}

func (m *mockEntailer) Bidirectional(ctx context.Context, guess, theme string) (domain.NLIResult, error) {
	m.calls.Add(1)
	if m.BidirectionalFunc != nil {
		return m.BidirectionalFunc(ctx, guess, theme)
	}
	return domain.NLIResult{Combined: domain.NLITriplet{Neutral: 1}}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(emb *mockEmbedder, ent *mockEntailer) *Engine {
	return NewEngine(testMatcherConfig(), emb, ent, discardLogger())
}

// ===========================================================================
// Tests
// ===========================================================================

func TestScoreThemeGuess_ExactMatchShortcut(t *testing.T) {
	t.Parallel()

	emb := &mockEmbedder{}
	ent := &mockEntailer{}
	engine := newTestEngine(emb, ent)

	score, err := engine.ScoreThemeGuess(context.Background(), "  Groups of Animals ", "groups  of animals", nil)
	require.NoError(t, err)

	assert.True(t, score.IsCorrect)
	assert.Equal(t, domain.MethodExact, score.Method)
	assert.Equal(t, 100, score.Confidence)
	assert.Equal(t, int32(0), emb.calls.Load(), "exact match must not call the network")
	assert.Equal(t, int32(0), ent.calls.Load(), "exact match must not call the network")
}

func TestScoreThemeGuess_HybridAccept(t *testing.T) {
	t.Parallel()

	emb := &mockEmbedder{SimilarityFunc: func(ctx context.Context, guess, theme string) (float64, error) {
		return 0.82, nil
	}}
	ent := &mockEntailer{BidirectionalFunc: func(ctx context.Context, guess, theme string) (domain.NLIResult, error) {
		return domain.NLIResult{Combined: domain.NLITriplet{Entailment: 0.85, Contradiction: 0.03, Neutral: 0.12}}, nil
	}}
	engine := newTestEngine(emb, ent)

	score, err := engine.ScoreThemeGuess(context.Background(), "collections of animals", "groups of animals", nil)
	require.NoError(t, err)

	assert.True(t, score.IsCorrect)
	assert.Equal(t, domain.MethodHybrid, score.Method)
	assert.Equal(t, StrategyStrongEntailment, score.Strategy)
	assert.Empty(t, score.Err)
}

// End-to-end scenario from the product: "basketball" vs "baseball".
// Same sports domain, so embedding similarity is high, but the theme's
// specific token is missing and a keyword-mismatch rule must fire.
func TestScoreThemeGuess_KeywordMismatchScenario(t *testing.T) {
	t.Parallel()

	emb := &mockEmbedder{SimilarityFunc: func(ctx context.Context, guess, theme string) (float64, error) {
		return 0.86, nil
	}}
	ent := &mockEntailer{BidirectionalFunc: func(ctx context.Context, guess, theme string) (domain.NLIResult, error) {
		return domain.NLIResult{Combined: domain.NLITriplet{Entailment: 0.35, Contradiction: 0.15, Neutral: 0.5}}, nil
	}}
	engine := newTestEngine(emb, ent)

	score, err := engine.ScoreThemeGuess(context.Background(), "basketball", "baseball", nil)
	require.NoError(t, err)

	assert.False(t, score.IsCorrect)
	assert.Contains(t, []string{StrategyKeywordSevere, StrategyKeywordModerate}, score.Strategy)
}

func TestScoreThemeGuess_ProcessedTextReachesNetwork(t *testing.T) {
	t.Parallel()

	var gotGuess, gotTheme string
	emb := &mockEmbedder{SimilarityFunc: func(ctx context.Context, guess, theme string) (float64, error) {
		gotGuess, gotTheme = guess, theme
		return 0.5, nil
	}}
	engine := newTestEngine(emb, &mockEntailer{})

	_, err := engine.ScoreThemeGuess(context.Background(), "fear", "phobias", []string{"spider", "height"})
	require.NoError(t, err)

	assert.Equal(t, "What connects the words spider, height? fear", gotGuess)
	assert.Equal(t, "What connects the words spider, height? phobias", gotTheme)
}

func TestScoreThemeGuess_NLIFailureDegradesToSemantic(t *testing.T) {
	t.Parallel()

	emb := &mockEmbedder{SimilarityFunc: func(ctx context.Context, guess, theme string) (float64, error) {
		return 0.9, nil
	}}
	ent := &mockEntailer{BidirectionalFunc: func(ctx context.Context, guess, theme string) (domain.NLIResult, error) {
		return domain.NLIResult{}, errors.New("nli: inference: 4 attempts exhausted: retryable status 503")
	}}
	engine := newTestEngine(emb, ent)

	score, err := engine.ScoreThemeGuess(context.Background(), "creature groups", "groups of animals", nil)
	require.NoError(t, err)

	assert.Equal(t, domain.MethodSemantic, score.Method)
	assert.NotEmpty(t, score.Err)
}

func TestScoreThemeGuess_EmbeddingFailureUsesNLIFallback(t *testing.T) {
	t.Parallel()

	emb := &mockEmbedder{SimilarityFunc: func(ctx context.Context, guess, theme string) (float64, error) {
		return 0, errors.New("embedding: inference: 4 attempts exhausted: transport: connection refused")
	}}
	ent := &mockEntailer{BidirectionalFunc: func(ctx context.Context, guess, theme string) (domain.NLIResult, error) {
		return domain.NLIResult{Combined: domain.NLITriplet{Entailment: 0.9, Contradiction: 0.02, Neutral: 0.08}}, nil
	}}
	engine := newTestEngine(emb, ent)

	score, err := engine.ScoreThemeGuess(context.Background(), "animal groups", "groups of animals", nil)
	require.NoError(t, err)

	assert.Equal(t, domain.MethodHybrid, score.Method)
	assert.Equal(t, StrategyNLIFallback, score.Strategy)
	assert.True(t, score.IsCorrect)
	assert.NotEmpty(t, score.Err)
}

func TestScoreThemeGuess_TotalOutageReturnsErrorMethod(t *testing.T) {
	t.Parallel()

	down := errors.New("inference: 4 attempts exhausted: transport: connection refused")
	emb := &mockEmbedder{SimilarityFunc: func(ctx context.Context, guess, theme string) (float64, error) {
		return 0, down
	}}
	ent := &mockEntailer{BidirectionalFunc: func(ctx context.Context, guess, theme string) (domain.NLIResult, error) {
		return domain.NLIResult{}, down
	}}
	engine := newTestEngine(emb, ent)

	score, err := engine.ScoreThemeGuess(context.Background(), "animal groups", "groups of animals", nil)
	require.NoError(t, err, "remote failures never surface as Go errors")

	assert.False(t, score.IsCorrect)
	assert.Equal(t, domain.MethodError, score.Method)
	assert.Equal(t, 0, score.Confidence)
	assert.NotEmpty(t, score.Err)
}

func TestScoreThemeGuess_MissingCredentialSurfaces(t *testing.T) {
	t.Parallel()

	emb := &mockEmbedder{SimilarityFunc: func(ctx context.Context, guess, theme string) (float64, error) {
		return 0, fmt.Errorf("embedding: missing API token: %w", domain.ErrConfiguration)
	}}
	engine := newTestEngine(emb, &mockEntailer{})

	_, err := engine.ScoreThemeGuess(context.Background(), "fear", "phobias", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestScoreThemeGuess_EmbeddingOnlyModeSkipsNLI(t *testing.T) {
	t.Parallel()

	cfg := testMatcherConfig()
	cfg.EmbeddingOnly = true

	emb := &mockEmbedder{SimilarityFunc: func(ctx context.Context, guess, theme string) (float64, error) {
		return 0.9, nil
	}}
	ent := &mockEntailer{}
	engine := NewEngine(cfg, emb, ent, discardLogger())

	score, err := engine.ScoreThemeGuess(context.Background(), "animal groups", "groups of animals", nil)
	require.NoError(t, err)

	assert.Equal(t, domain.MethodSemantic, score.Method)
	assert.Equal(t, int32(0), ent.calls.Load(), "embedding-only mode must not call NLI")
	assert.True(t, score.IsCorrect)
}

func TestScoreThemeGuess_NegationMismatchRejects(t *testing.T) {
	t.Parallel()

	emb := &mockEmbedder{SimilarityFunc: func(ctx context.Context, guess, theme string) (float64, error) {
		return 0.93, nil
	}}
	ent := &mockEntailer{BidirectionalFunc: func(ctx context.Context, guess, theme string) (domain.NLIResult, error) {
		return domain.NLIResult{Combined: domain.NLITriplet{Entailment: 0.7, Contradiction: 0.1, Neutral: 0.2}}, nil
	}}
	engine := newTestEngine(emb, ent)

	score, err := engine.ScoreThemeGuess(context.Background(), "words that never repeat", "words that repeat", nil)
	require.NoError(t, err)

	assert.False(t, score.IsCorrect)
	assert.Equal(t, StrategyNegationMismatch, score.Strategy)
}
