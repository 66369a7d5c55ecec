package driving

import (
	"context"
	"time"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// DocumentSetService manages document sets and conversations.
type DocumentSetService interface {
	CreateDocumentSet(ctx context.Context) (*domain.DocumentSet, error)

	// CreateConversation creates a time-bounded set.
	// Returns domain.ErrInvalidRange if end is before start.
	CreateConversation(ctx context.Context, start, end time.Time) (*domain.DocumentSet, error)

	// AddDocument adds a document to a set, or overwrites its order.
	AddDocument(ctx context.Context, setID, documentID string, order int) error

	// RemoveDocument removes a document from a set. Missing links are ignored.
	RemoveDocument(ctx context.Context, setID, documentID string) error

	// GetDocumentSet returns the set with members ordered by (order, document id).
	GetDocumentSet(ctx context.Context, id string) (*domain.DocumentSetView, error)

	ListDocumentSets(ctx context.Context) ([]domain.DocumentSet, error)

	// DeleteDocumentSet removes a set and its membership links.
	DeleteDocumentSet(ctx context.Context, id string) error
}
