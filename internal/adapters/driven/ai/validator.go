package ai

import (
	"context"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks a provider configuration by building the adapter
// and pinging it. Unconfigured providers pass.
type ConfigValidator struct {
	ctx context.Context
}

// NewConfigValidator creates a validator whose pings are bounded by ctx
// as well as the ping timeout.
func NewConfigValidator(ctx context.Context) *ConfigValidator {
	return &ConfigValidator{ctx: ctx}
}

// ValidateEmbedding validates an embedding configuration.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	_, err := CreateAndValidateEmbedder(v.ctx, config)
	return err
}

// ValidateLLM validates an LLM configuration.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	_, err := CreateAndValidateSummariser(v.ctx, config, nil)
	return err
}
