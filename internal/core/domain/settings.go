package domain

import "fmt"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or summaries.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	return p == AIProviderOllama
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// StoreSettings holds storage configuration.
type StoreSettings struct {
	// DataDir is the directory holding the database. Empty means the default.
	DataDir string
}

// ChunkerSettings holds the fixed-window chunker configuration.
type ChunkerSettings struct {
	// Size is the window length in characters.
	Size int

	// Overlap is the number of characters shared by consecutive windows.
	Overlap int
}

// Validate checks the window parameters.
func (c ChunkerSettings) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d: %w", c.Size, ErrInvalidInput)
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return fmt.Errorf("overlap must be in [0, %d), got %d: %w", c.Size, c.Overlap, ErrInvalidInput)
	}
	return nil
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider. Empty disables embeddings.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Provider.IsValid()
}

// LLMSettings holds summarisation provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider. Empty disables summaries.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider.IsValid()
}

// EntitySettings holds entity graph rules.
type EntitySettings struct {
	// AllowHierarchyCycles skips the acyclicity check on hierarchy links.
	AllowHierarchyCycles bool
}

// IngestSettings holds directory ingestion defaults.
type IngestSettings struct {
	// Glob selects files relative to the ingestion root.
	Glob string

	// Chunk runs the chunker on every ingested document.
	Chunk bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	Store     StoreSettings
	Chunker   ChunkerSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Entities  EntitySettings
	Ingest    IngestSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// AI features (Embedding, LLM) are left unconfigured by default.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunker: ChunkerSettings{
			Size:    1000,
			Overlap: 200,
		},
		// Embedding and LLM stay unconfigured until a provider is set
		Embedding: EmbeddingSettings{},
		LLM:       LLMSettings{},
		Ingest: IngestSettings{
			Glob:  "**/*.txt",
			Chunk: true,
		},
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llama3.2",
	}
}
