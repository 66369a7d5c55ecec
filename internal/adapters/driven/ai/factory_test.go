package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
)

// ollamaStub answers the ping endpoint only.
func ollamaStub(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models":[]}`))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func deadURL() string {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	return url
}

type nopPromptStore struct{}

func (nopPromptStore) Load(string) (string, error) { return "", errors.New("none") }
func (nopPromptStore) Reload()                     {}

func TestCreateEmbedder(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.EmbeddingSettings
		wantNil  bool
		wantErr  bool
	}{
		{name: "nil settings returns nil", settings: nil, wantNil: true},
		{name: "unconfigured settings returns nil", settings: &domain.EmbeddingSettings{}, wantNil: true},
		{
			name:     "ollama provider creates embedder",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "nomic-embed-text"},
		},
		{
			name:     "unknown provider fails",
			settings: &domain.EmbeddingSettings{Provider: "unknown"},
			wantNil:  true,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder, err := CreateEmbedder(tt.settings)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported embedding provider")
			} else {
				require.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, embedder)
			} else {
				require.NotNil(t, embedder)
				assert.Equal(t, tt.settings.Model, embedder.ModelName())
			}
		})
	}
}

func TestCreateSummariser(t *testing.T) {
	t.Run("nil settings returns nil", func(t *testing.T) {
		s, err := CreateSummariser(nil, nil)
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("ollama provider creates summariser with prompts", func(t *testing.T) {
		s, err := CreateSummariser(&domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.2"}, nopPromptStore{})
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, "llama3.2", s.ModelName())
	})

	t.Run("unknown provider fails", func(t *testing.T) {
		_, err := CreateSummariser(&domain.LLMSettings{Provider: "openai"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported LLM provider")
	})
}

func TestCreateAndValidateEmbedder(t *testing.T) {
	ctx := context.Background()

	t.Run("reachable server", func(t *testing.T) {
		server := ollamaStub(t)
		e, err := CreateAndValidateEmbedder(ctx, &domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama, BaseURL: server.URL,
		})
		require.NoError(t, err)
		assert.NotNil(t, e)
	})

	t.Run("unreachable server", func(t *testing.T) {
		e, err := CreateAndValidateEmbedder(ctx, &domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama, BaseURL: deadURL(),
		})
		assert.Nil(t, e)
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})

	t.Run("unconfigured", func(t *testing.T) {
		e, err := CreateAndValidateEmbedder(ctx, &domain.EmbeddingSettings{})
		assert.NoError(t, err)
		assert.Nil(t, e)
	})
}

func TestCreateAndValidateSummariser(t *testing.T) {
	ctx := context.Background()

	t.Run("reachable server", func(t *testing.T) {
		server := ollamaStub(t)
		s, err := CreateAndValidateSummariser(ctx, &domain.LLMSettings{
			Provider: domain.AIProviderOllama, BaseURL: server.URL,
		}, nil)
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("unreachable server", func(t *testing.T) {
		s, err := CreateAndValidateSummariser(ctx, &domain.LLMSettings{
			Provider: domain.AIProviderOllama, BaseURL: deadURL(),
		}, nil)
		assert.Nil(t, s)
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})
}

func TestInit(t *testing.T) {
	t.Run("nothing configured", func(t *testing.T) {
		settings := domain.DefaultAppSettings()

		result := Init(context.Background(), &settings, nil)

		assert.Nil(t, result.Embedder)
		assert.Nil(t, result.Summariser)
		assert.Empty(t, result.Warnings)
	})

	t.Run("unreachable collaborators become warnings", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: deadURL()}
		settings.LLM = domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: deadURL()}

		result := Init(context.Background(), &settings, nil)

		assert.Nil(t, result.Embedder)
		assert.Nil(t, result.Summariser)
		assert.Len(t, result.Warnings, 2)
	})

	t.Run("reachable collaborators", func(t *testing.T) {
		server := ollamaStub(t)
		settings := domain.DefaultAppSettings()
		settings.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL}
		settings.LLM = domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL}

		result := Init(context.Background(), &settings, nopPromptStore{})

		assert.NotNil(t, result.Embedder)
		assert.NotNil(t, result.Summariser)
		assert.Empty(t, result.Warnings)
	})
}

func TestConfigValidator(t *testing.T) {
	var _ driven.AIConfigValidator = NewConfigValidator(context.Background())
	v := NewConfigValidator(context.Background())

	assert.NoError(t, v.ValidateEmbedding(nil))
	assert.NoError(t, v.ValidateLLM(&domain.LLMSettings{}))

	err := v.ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: deadURL()})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	server := ollamaStub(t)
	assert.NoError(t, v.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL}))
}
