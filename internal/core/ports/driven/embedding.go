package driven

import (
	"context"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// Embedder generates dense vector embeddings from text.
// This is an optional collaborator - when nil, embedding is disabled.
//
// The core never interprets vectors; enrichment encodes them with the
// embedding codec and stores opaque bytes.
type Embedder interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error
}

// VectorCodec converts vectors to the opaque bytes stored in embedding
// slots and back.
type VectorCodec interface {
	EncodeDense(v []float32) []byte
	DecodeDense(b []byte) ([]float32, error)
	EncodeSparse(v domain.SparseVector) ([]byte, error)
	DecodeSparse(b []byte) (domain.SparseVector, error)
}
