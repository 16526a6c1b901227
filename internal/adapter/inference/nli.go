package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lexiweek/matcher/internal/domain"
)

// nliRequest is the wire format of the remote entailment capability:
// text is the premise, text_pair the hypothesis.
type nliRequest struct {
	Text     string `json:"text"`
	TextPair string `json:"text_pair"`
}

// nliLabel is one scored label of the remote model's response.
type nliLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NLIProducer classifies entailment between processed guess and theme
// text. The bidirectional min/max combination rule lives here, behind
// this type, so it can be revisited without touching the decision
// policy.
type NLIProducer struct {
	client *Client
	url    string
	log    *slog.Logger
}

// NewNLIProducer creates a producer calling the given endpoint through
// the shared resilient client.
func NewNLIProducer(client *Client, url string, logger *slog.Logger) *NLIProducer {
	return &NLIProducer{
		client: client,
		url:    url,
		log:    logger.With("producer", "nli"),
	}
}

// Classify runs one premise⇒hypothesis entailment call and returns the
// normalized triplet.
func (p *NLIProducer) Classify(ctx context.Context, premise, hypothesis string) (domain.NLITriplet, error) {
	body, err := p.client.PostJSON(ctx, p.url, nliRequest{Text: premise, TextPair: hypothesis})
	if err != nil {
		return domain.NLITriplet{}, fmt.Errorf("nli: %w", err)
	}

	labels, err := decodeLabels(body)
	if err != nil {
		return domain.NLITriplet{}, err
	}

	triplet, err := tripletFromLabels(labels)
	if err != nil {
		return domain.NLITriplet{}, err
	}
	return triplet, nil
}

// Bidirectional classifies both directions concurrently and combines
// them with strict-equivalence semantics: min for entailment (both
// directions must support the relation), max for contradiction (either
// direction is enough to flag it).
func (p *NLIProducer) Bidirectional(ctx context.Context, processedGuess, processedTheme string) (domain.NLIResult, error) {
	var forward, reverse domain.NLITriplet

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		forward, err = p.Classify(gctx, processedGuess, processedTheme)
		return err
	})
	g.Go(func() error {
		var err error
		reverse, err = p.Classify(gctx, processedTheme, processedGuess)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.NLIResult{}, err
	}

	combined := domain.NLITriplet{
		Entailment:    min(forward.Entailment, reverse.Entailment),
		Contradiction: max(forward.Contradiction, reverse.Contradiction),
	}
	combined.Neutral = clamp01(1 - combined.Entailment - combined.Contradiction)

	p.log.DebugContext(ctx, "nli combined",
		slog.Float64("entailment", combined.Entailment),
		slog.Float64("contradiction", combined.Contradiction),
	)

	return domain.NLIResult{Combined: combined, Forward: forward, Reverse: reverse}, nil
}

// decodeLabels accepts both a flat label array and the nested
// [[{label,score},...]] form some model servers produce.
func decodeLabels(body []byte) ([]nliLabel, error) {
	var labels []nliLabel
	if err := json.Unmarshal(body, &labels); err == nil && len(labels) > 0 {
		return labels, nil
	}

	var nested [][]nliLabel
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0], nil
	}

	return nil, fmt.Errorf("nli: decode response: unrecognized shape")
}

// tripletFromLabels maps the model's label vocabulary onto the three
// canonical outcomes and renormalizes the scores to sum to 1.
func tripletFromLabels(labels []nliLabel) (domain.NLITriplet, error) {
	var t domain.NLITriplet
	var sum float64
	seen := false

	for _, l := range labels {
		outcome, ok := canonicalLabel(l.Label)
		if !ok {
			continue
		}
		seen = true
		sum += l.Score
		switch outcome {
		case "entailment":
			t.Entailment += l.Score
		case "contradiction":
			t.Contradiction += l.Score
		case "neutral":
			t.Neutral += l.Score
		}
	}

	if !seen {
		return t, fmt.Errorf("nli: no recognizable labels in response")
	}
	if sum > 0 {
		t.Entailment /= sum
		t.Contradiction /= sum
		t.Neutral /= sum
	}
	return t, nil
}

// canonicalLabel maps any of the observed label spellings to one of
// the three canonical outcomes. Positional LABEL_0/1/2 follows the
// common NLI head convention (0=entailment, 1=neutral, 2=contradiction).
func canonicalLabel(label string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "entailment", "entail", "entails", "label_0":
		return "entailment", true
	case "neutral", "label_1":
		return "neutral", true
	case "contradiction", "contradict", "contradictory", "label_2":
		return "contradiction", true
	default:
		return "", false
	}
}
