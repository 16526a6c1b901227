package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmbedder(t *testing.T, handler http.HandlerFunc) *Embedder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(testInferenceConfig(), testLogger())
	return NewEmbedder(client, srv.URL, testLogger())
}

func TestSimilarity_ParsesScore(t *testing.T) {
	t.Parallel()

	emb := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "guess text", req.SourceSentence)
		assert.Equal(t, []string{"theme text"}, req.Sentences)

		w.Write([]byte(`[0.8123]`))
	})

	sim, err := emb.Similarity(context.Background(), "guess text", "theme text")
	require.NoError(t, err)
	assert.InDelta(t, 0.8123, sim, 1e-9)
}

func TestSimilarity_ClampsOutOfRangeScores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		body string
		want float64
	}{
		{`[1.07]`, 1},
		{`[-0.12]`, 0},
		{`[0.5]`, 0.5},
	}
	for _, tt := range tests {
		emb := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(tt.body))
		})
		sim, err := emb.Similarity(context.Background(), "g", "t")
		require.NoError(t, err)
		assert.InDelta(t, tt.want, sim, 1e-9)
	}
}

func TestSimilarity_MalformedResponse(t *testing.T) {
	t.Parallel()

	emb := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected": true}`))
	})

	_, err := emb.Similarity(context.Background(), "g", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestSimilarity_EmptyResponse(t *testing.T) {
	t.Parallel()

	emb := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := emb.Similarity(context.Background(), "g", "t")
	require.Error(t, err)
}

func TestSimilarity_RemoteFailurePropagates(t *testing.T) {
	t.Parallel()

	emb := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := emb.Similarity(context.Background(), "g", "t")
	require.Error(t, err)
	assert.True(t, IsRemoteFailure(err))
}
