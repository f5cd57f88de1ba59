package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/DRSN-tech/film-indexer/internal/cfg"
	"github.com/DRSN-tech/film-indexer/pkg/e"
	"github.com/DRSN-tech/film-indexer/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const embeddingOK = `{
	"object": "list",
	"data": [{"object": "embedding", "index": 0, "embedding": [0.1, 0.2]}],
	"model": "text-embedding-3-small",
	"usage": {"prompt_tokens": 1, "total_tokens": 1}
}`

func newTestEmbedder(srv *httptest.Server, dims int) *Embedder {
	return NewEmbedder(srv.Client(), &cfg.EmbeddingCfg{
		BaseURL:    srv.URL,
		ApiKey:     "sk-test",
		Model:      "text-embedding-3-small",
		Dimensions: dims,
	}, logger.NewDiscard())
}

func TestEmbedSendsInputAndModel(t *testing.T) {
	var body map[string]any
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(embeddingOK))
	}))
	defer srv.Close()

	m := newTestEmbedder(srv, 0)
	vec, err := m.Embed(context.Background(), "A quiet town")
	require.NoError(t, err)

	assert.Equal(t, []float32{0.1, 0.2}, vec)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "/embeddings", path)
	assert.Equal(t, "A quiet town", body["input"])
	assert.Equal(t, "text-embedding-3-small", body["model"])
	assert.NotContains(t, body, "dimensions")
	assert.Equal(t, "text-embedding-3-small", m.ModelName())
}

func TestEmbedSendsDimensionsWhenConfigured(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(embeddingOK))
	}))
	defer srv.Close()

	_, err := newTestEmbedder(srv, 256).Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.EqualValues(t, 256, body["dimensions"])
}

func TestEmbedAPIErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
	}))
	defer srv.Close()

	_, err := newTestEmbedder(srv, 0).Embed(context.Background(), "x")
	require.ErrorIs(t, err, e.ErrEmbeddingFailed)
	assert.EqualValues(t, 1, calls.Load())

	msg, ok := e.PublicMessage(err)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(msg, "Error obtaining embedding: "), msg)
}

func TestEmbedEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[],"model":"m","usage":{"prompt_tokens":0,"total_tokens":0}}`))
	}))
	defer srv.Close()

	_, err := newTestEmbedder(srv, 0).Embed(context.Background(), "x")
	require.ErrorIs(t, err, e.ErrEmbeddingFailed)

	msg, _ := e.PublicMessage(err)
	assert.Equal(t, "Error obtaining embedding: embedding is empty", msg)
}

func TestEmbedErrorFieldInSuccessfulResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":{"message":"This model's maximum context length is exceeded","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := newTestEmbedder(srv, 0).Embed(context.Background(), "x")
	require.ErrorIs(t, err, e.ErrEmbeddingFailed)

	msg, _ := e.PublicMessage(err)
	assert.Equal(t, "Error obtaining embedding: This model's maximum context length is exceeded", msg)
}

func TestErrorField(t *testing.T) {
	msg, ok := errorField(`{"error":{"message":"quota exceeded"}}`)
	assert.True(t, ok)
	assert.Equal(t, "quota exceeded", msg)

	_, ok = errorField(`{"object":"list","data":[]}`)
	assert.False(t, ok)

	_, ok = errorField("")
	assert.False(t, ok)
}
