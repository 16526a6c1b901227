package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// embedRequest is the wire format of the remote embedding capability:
// the similarity of source_sentence against each listed sentence.
type embedRequest struct {
	SourceSentence string   `json:"source_sentence"`
	Sentences      []string `json:"sentences"`
}

// Embedder produces the scalar semantic-similarity signal. It only
// ever sees processed (template-wrapped) text.
type Embedder struct {
	client *Client
	url    string
	log    *slog.Logger
}

// NewEmbedder creates an Embedder calling the given endpoint through
// the shared resilient client.
func NewEmbedder(client *Client, url string, logger *slog.Logger) *Embedder {
	return &Embedder{
		client: client,
		url:    url,
		log:    logger.With("producer", "embedding"),
	}
}

// Similarity returns the semantic similarity of guess against theme,
// clamped to [0,1]. Transport failures after retries propagate as-is;
// fallback behavior is the caller's choice.
func (e *Embedder) Similarity(ctx context.Context, processedGuess, processedTheme string) (float64, error) {
	body, err := e.client.PostJSON(ctx, e.url, embedRequest{
		SourceSentence: processedGuess,
		Sentences:      []string{processedTheme},
	})
	if err != nil {
		return 0, fmt.Errorf("embedding: %w", err)
	}

	var scores []float64
	if err := json.Unmarshal(body, &scores); err != nil {
		return 0, fmt.Errorf("embedding: decode response: %w", err)
	}
	if len(scores) == 0 {
		return 0, fmt.Errorf("embedding: empty response")
	}

	sim := clamp01(scores[0])
	e.log.DebugContext(ctx, "embedding similarity", slog.Float64("similarity", sim))
	return sim, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
