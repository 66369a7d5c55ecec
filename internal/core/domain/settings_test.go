package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider(t *testing.T) {
	assert.True(t, AIProviderOllama.IsValid())
	assert.True(t, AIProviderOllama.IsLocal())
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())

	unknown := AIProvider("openai")
	assert.False(t, unknown.IsValid())
	assert.False(t, unknown.IsLocal())
	assert.Equal(t, unknownDescription, unknown.Description())
	assert.Equal(t, "openai", unknown.String())
}

func TestChunkerSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ChunkerSettings
		wantErr bool
	}{
		{name: "defaults", cfg: ChunkerSettings{Size: 1000, Overlap: 200}},
		{name: "zero overlap", cfg: ChunkerSettings{Size: 10, Overlap: 0}},
		{name: "zero size", cfg: ChunkerSettings{Size: 0}, wantErr: true},
		{name: "negative overlap", cfg: ChunkerSettings{Size: 10, Overlap: -1}, wantErr: true},
		{name: "overlap equals size", cfg: ChunkerSettings{Size: 10, Overlap: 10}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDefaultAppSettings(t *testing.T) {
	settings := DefaultAppSettings()

	assert.Equal(t, ChunkerSettings{Size: 1000, Overlap: 200}, settings.Chunker)
	assert.NoError(t, settings.Chunker.Validate())
	assert.Equal(t, IngestSettings{Glob: "**/*.txt", Chunk: true}, settings.Ingest)
	assert.False(t, settings.Embedding.IsConfigured())
	assert.False(t, settings.LLM.IsConfigured())
	assert.False(t, settings.Entities.AllowHierarchyCycles)
	assert.Empty(t, settings.Store.DataDir)
}

func TestDefaultModels(t *testing.T) {
	assert.Equal(t, "nomic-embed-text", DefaultEmbeddingModels()[AIProviderOllama])
	assert.Equal(t, "llama3.2", DefaultLLMModels()[AIProviderOllama])
}
