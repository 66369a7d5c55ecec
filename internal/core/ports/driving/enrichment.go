package driving

import "context"

// EnrichmentService fills embedding slots and summaries using the
// configured collaborators.
type EnrichmentService interface {
	// EmbedDocument stores the dense embedding of a text document.
	EmbedDocument(ctx context.Context, documentID string) error

	// EmbedChunks stores dense embeddings for every chunk of a document and
	// returns how many were written.
	EmbedChunks(ctx context.Context, documentID string) (int, error)

	// SummariseDocument stores and returns a summary of a text document.
	SummariseDocument(ctx context.Context, documentID string, maxLength int) (string, error)
}
