package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newServer answers /api/embeddings with a vector derived from the prompt
// length and /api/tags with an empty model list.
func newServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[]}`))
		case "/api/embeddings":
			if calls != nil {
				atomic.AddInt32(calls, 1)
			}
			var req embedRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if req.Prompt == "fail" {
				http.Error(w, "model not loaded", http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(embedResponse{
				Embedding: []float64{float64(len(req.Prompt)), 0.5},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewEmbedder_Defaults(t *testing.T) {
	e := NewEmbedder(Config{})

	assert.Equal(t, DefaultBaseURL, e.baseURL)
	assert.Equal(t, DefaultModel, e.ModelName())
	assert.Equal(t, DefaultConcurrency, e.concurrency)
	assert.Equal(t, DefaultTimeout, e.client.Timeout)
}

func TestEmbedder_Embed(t *testing.T) {
	server := newServer(t, nil)
	e := NewEmbedder(Config{BaseURL: server.URL, Model: "test-model"})

	vector, err := e.Embed(context.Background(), "Hello")

	require.NoError(t, err)
	assert.Equal(t, []float32{5, 0.5}, vector)
}

func TestEmbedder_Embed_ServerError(t *testing.T) {
	server := newServer(t, nil)
	e := NewEmbedder(Config{BaseURL: server.URL})

	_, err := e.Embed(context.Background(), "fail")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama returned an error")
}

func TestEmbedder_Embed_EmptyVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embedding":[]}`))
	}))
	defer server.Close()
	e := NewEmbedder(Config{BaseURL: server.URL})

	_, err := e.Embed(context.Background(), "x")

	assert.Error(t, err)
}

func TestEmbedder_EmbedBatch_PreservesOrder(t *testing.T) {
	var calls int32
	server := newServer(t, &calls)
	e := NewEmbedder(Config{BaseURL: server.URL, Concurrency: 2})

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	vectors, err := e.EmbedBatch(context.Background(), texts)

	require.NoError(t, err)
	require.Len(t, vectors, len(texts))
	for i, text := range texts {
		assert.Equal(t, float32(len(text)), vectors[i][0])
	}
	assert.Equal(t, int32(len(texts)), atomic.LoadInt32(&calls))
}

func TestEmbedder_EmbedBatch_Error(t *testing.T) {
	server := newServer(t, nil)
	e := NewEmbedder(Config{BaseURL: server.URL})

	vectors, err := e.EmbedBatch(context.Background(), []string{"ok", "fail"})

	assert.Nil(t, vectors)
	assert.Error(t, err)
}

func TestEmbedder_EmbedBatch_Empty(t *testing.T) {
	e := NewEmbedder(Config{})

	vectors, err := e.EmbedBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestEmbedder_Ping(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		server := newServer(t, nil)
		e := NewEmbedder(Config{BaseURL: server.URL})

		assert.NoError(t, e.Ping(context.Background()))
	})

	t.Run("error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()
		e := NewEmbedder(Config{BaseURL: server.URL})

		assert.Error(t, e.Ping(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()
		e := NewEmbedder(Config{BaseURL: url})

		assert.Error(t, e.Ping(context.Background()))
	})
}
