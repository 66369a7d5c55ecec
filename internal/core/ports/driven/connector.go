package driven

import (
	"context"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// Connector fetches raw documents for the ingestion collaborator.
type Connector interface {
	// Type returns the source type slug the connector produces, e.g. "file".
	Type() string

	// Validate checks the connector is ready, e.g. that a root path exists.
	Validate(ctx context.Context) error

	// FullSync fetches all documents. The documents channel is closed when
	// the walk ends; at most one error is sent on the error channel.
	FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error)
}
