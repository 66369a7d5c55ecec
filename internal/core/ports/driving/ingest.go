package driving

import (
	"context"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// IngestService imports files as text documents.
type IngestService interface {
	// IngestDirectory creates one text document per matching file under a
	// new source of type "file". Undecodable files are skipped.
	IngestDirectory(ctx context.Context, opts domain.IngestOptions) (*domain.IngestResult, error)
}
