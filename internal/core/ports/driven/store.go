package driven

import (
	"context"
	"time"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// Store provides transactional access to the persisted model.
// Every multi-row write of the core runs inside exactly one Update call, so
// readers never observe a base row without its payload or a partially
// replaced chunk set.
type Store interface {
	// Update runs fn in a read-write transaction. A non-nil error from fn,
	// a panic, or a cancelled context rolls the transaction back fully.
	Update(ctx context.Context, fn func(tx Tx) error) error

	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(tx Tx) error) error

	// Close releases resources.
	Close() error
}

// Tx exposes the row-level operations of one transaction.
// Getters return an error wrapping domain.ErrNotFound for missing rows.
type Tx interface {
	ReferenceTx
	EntityTx
	DocumentTx
	EventTx
	ChunkTx
	DocumentSetTx
	LinkTx
	EmbeddingTx
}

// ReferenceTx persists source types and sources.
type ReferenceTx interface {
	// InsertSourceType fails with domain.ErrDuplicateSlug if the slug exists.
	InsertSourceType(ctx context.Context, st domain.SourceType) error
	GetSourceType(ctx context.Context, id string) (*domain.SourceType, error)
	GetSourceTypeBySlug(ctx context.Context, slug string) (*domain.SourceType, error)
	ListSourceTypes(ctx context.Context) ([]domain.SourceType, error)

	InsertSource(ctx context.Context, src domain.Source) error
	GetSource(ctx context.Context, id string) (*domain.Source, error)
	ListSources(ctx context.Context) ([]domain.Source, error)
}

// EntityTx persists the shared person/organization shape.
type EntityTx interface {
	InsertEntity(ctx context.Context, e *domain.Entity) error
	GetEntity(ctx context.Context, id string) (*domain.Entity, error)

	// ListEntities returns entities of the given kind, or all when kind is empty.
	ListEntities(ctx context.Context, kind domain.EntityKind) ([]domain.Entity, error)

	// DeleteEntity removes the entity and every link row that references it.
	DeleteEntity(ctx context.Context, id string) error
}

// DocumentTx persists document base rows and their variant payloads.
type DocumentTx interface {
	InsertDocument(ctx context.Context, doc *domain.Document) error
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns documents of a source, or all when sourceID is empty.
	ListDocuments(ctx context.Context, sourceID string) ([]domain.Document, error)

	// DeleteDocument removes the base row, its payloads, event payloads,
	// chunks and every link row that references it.
	DeleteDocument(ctx context.Context, id string) error

	InsertTextPayload(ctx context.Context, p domain.TextDocument) error
	GetTextPayload(ctx context.Context, id string) (*domain.TextDocument, error)
	InsertImagePayload(ctx context.Context, p domain.Image) error
	GetImagePayload(ctx context.Context, id string) (*domain.Image, error)

	// ListPayloadIDs returns the ids present in the payload table of kind.
	ListPayloadIDs(ctx context.Context, kind domain.DocumentKind) ([]string, error)
}

// EventTx persists the event payloads that extend text documents.
type EventTx interface {
	InsertMessage(ctx context.Context, m domain.Message) error
	GetMessage(ctx context.Context, id string) (*domain.Message, error)
	InsertMeeting(ctx context.Context, m domain.Meeting) error
	GetMeeting(ctx context.Context, id string) (*domain.Meeting, error)

	// ListEventIDs returns the ids present in the event table of kind.
	ListEventIDs(ctx context.Context, kind domain.EventKind) ([]string, error)

	// CountMessagesFor counts messages sent or received by the entity.
	CountMessagesFor(ctx context.Context, entityID string) (int, error)
}

// ChunkTx persists chunks.
type ChunkTx interface {
	// DeleteChunks removes every chunk of the document.
	DeleteChunks(ctx context.Context, documentID string) error

	// InsertChunk fails with domain.ErrAlreadyExists if the document already
	// has a chunk with the same sequence.
	InsertChunk(ctx context.Context, c *domain.Chunk) error
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// ListChunks returns the chunks of a document ordered by sequence.
	ListChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)
	CountChunks(ctx context.Context, documentID string) (int, error)
}

// DocumentSetTx persists document sets and conversations.
type DocumentSetTx interface {
	InsertDocumentSet(ctx context.Context, set domain.DocumentSet) error
	GetDocumentSet(ctx context.Context, id string) (*domain.DocumentSet, error)
	ListDocumentSets(ctx context.Context) ([]domain.DocumentSet, error)

	// DeleteDocumentSet removes the set and its membership links.
	DeleteDocumentSet(ctx context.Context, id string) error
}

// LinkTx persists the composite-keyed link tables.
type LinkTx interface {
	// InsertLink fails with domain.ErrDuplicateEdge if (Left, Right) exists.
	InsertLink(ctx context.Context, l domain.Link) error

	// UpsertLink inserts the link or overwrites its order.
	UpsertLink(ctx context.Context, l domain.Link) error

	// DeleteLink removes the link. Deleting a missing link is not an error.
	DeleteLink(ctx context.Context, kind domain.LinkKind, left, right string) error

	HasLink(ctx context.Context, kind domain.LinkKind, left, right string) (bool, error)

	// ListLinks returns links of kind whose side equals id, or every link of
	// kind when id is empty. Results are sorted by (Order, Left, Right).
	ListLinks(ctx context.Context, kind domain.LinkKind, side domain.LinkSide, id string) ([]domain.Link, error)
}

// EmbeddingTx overwrites embedding slots and summaries.
type EmbeddingTx interface {
	// SetEmbedding overwrites one slot and sets Modified (chunks have no
	// timestamps). Fails with domain.ErrNotFound when the row is missing.
	SetEmbedding(ctx context.Context, target domain.EmbeddingTarget, id string,
		kind domain.EmbeddingKind, data []byte, now time.Time) error

	// SetSummary overwrites the summary of a document or entity.
	SetSummary(ctx context.Context, target domain.EmbeddingTarget, id, summary string, now time.Time) error
}
