package driving

import (
	"context"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// ChunkService manages the chunks of text documents.
type ChunkService interface {
	// Rechunk atomically replaces all chunks of a document. Sequences are
	// assigned 0..n-1 in the order of specs.
	Rechunk(ctx context.Context, documentID string, specs []domain.ChunkSpec) ([]domain.Chunk, error)

	// ChunkDocument runs the chunker over the document text and rechunks.
	ChunkDocument(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ListChunks returns the chunks of a document ordered by sequence.
	ListChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)
}
