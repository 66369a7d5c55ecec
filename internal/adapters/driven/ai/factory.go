// Package ai provides factory functions for creating AI collaborator adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/raggamuffin/raggamuffin/internal/adapters/driven/embedding/ollama"
	ollamallm "github.com/raggamuffin/raggamuffin/internal/adapters/driven/llm/ollama"
	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
	"github.com/raggamuffin/raggamuffin/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the collaborators available for this run.
type InitResult struct {
	Embedder   driven.Embedder
	Summariser driven.Summariser
	Warnings   []string // Non-fatal issues that left a collaborator disabled.
}

// Init creates and pings the configured collaborators. A collaborator that
// cannot be created or reached is left nil and reported in Warnings, so
// commands that do not need it still run.
func Init(ctx context.Context, settings *domain.AppSettings, prompts driven.PromptStore) *InitResult {
	result := &InitResult{}

	embedder, err := CreateAndValidateEmbedder(ctx, &settings.Embedding)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	}
	result.Embedder = embedder

	summariser, err := CreateAndValidateSummariser(ctx, &settings.LLM, prompts)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	}
	result.Summariser = summariser

	for _, w := range result.Warnings {
		logger.Warn("%s", w)
	}
	return result
}

// CreateAndValidateEmbedder creates an embedder and validates connectivity.
// Returns nil without error when embeddings are not configured.
func CreateAndValidateEmbedder(ctx context.Context, settings *domain.EmbeddingSettings) (driven.Embedder, error) {
	embedder, err := CreateEmbedder(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if embedder == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := embedder.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return embedder, nil
}

// CreateAndValidateSummariser creates a summariser and validates connectivity.
// Returns nil without error when summaries are not configured.
func CreateAndValidateSummariser(
	ctx context.Context,
	settings *domain.LLMSettings,
	prompts driven.PromptStore,
) (driven.Summariser, error) {
	summariser, err := CreateSummariser(settings, prompts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if summariser == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := summariser.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}
	return summariser, nil
}

// CreateEmbedder creates the embedder for the configured provider.
// Returns nil if the provider is not configured.
func CreateEmbedder(settings *domain.EmbeddingSettings) (driven.Embedder, error) {
	if settings == nil || settings.Provider == "" {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbedder(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateSummariser creates the summariser for the configured provider.
// Returns nil if the provider is not configured.
func CreateSummariser(settings *domain.LLMSettings, prompts driven.PromptStore) (driven.Summariser, error) {
	if settings == nil || settings.Provider == "" {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		s := ollamallm.NewSummariser(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if prompts != nil {
			s.SetPromptStore(prompts)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
