package driving

import (
	"context"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// DocumentService manages documents and their variant payloads.
type DocumentService interface {
	// CreateTextDocument creates a text_document base row and its payload.
	CreateTextDocument(ctx context.Context, sourceID, text string, metadata domain.Metadata) (*domain.Document, error)

	// CreateImage creates an image base row and its payload.
	CreateImage(ctx context.Context, sourceID string, width, height *int, data []byte) (*domain.Document, error)

	// AttachCreator links an entity as creator of a document. Idempotent.
	AttachCreator(ctx context.Context, documentID, entityID string) error

	// DetachCreator removes a creator link. Missing links are ignored.
	DetachCreator(ctx context.Context, documentID, entityID string) error

	// SetEmbedding overwrites one embedding slot of a document, entity or chunk.
	SetEmbedding(ctx context.Context, target domain.EmbeddingTarget, id string,
		kind domain.EmbeddingKind, data []byte) error

	// SetSummary overwrites the summary of a document or entity.
	SetSummary(ctx context.Context, target domain.EmbeddingTarget, id, summary string) error

	// GetDocument returns the fully hydrated document.
	// Returns domain.ErrIntegrityCorruption if the payloads disagree with the base row.
	GetDocument(ctx context.Context, id string) (*domain.DocumentView, error)

	// ListDocuments returns documents of a source, or all when sourceID is empty.
	ListDocuments(ctx context.Context, sourceID string) ([]domain.Document, error)

	// DeleteDocument removes a document with its payloads, chunks and links.
	DeleteDocument(ctx context.Context, id string) error

	// GetText returns the text of a text document or chunk.
	GetText(ctx context.Context, ref domain.TextRef) (string, error)
}
