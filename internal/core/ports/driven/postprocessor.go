package driven

import (
	"context"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// PostProcessor derives chunk spans from a document's text.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process splits text into chunk specs with character offsets.
	Process(ctx context.Context, text string) ([]domain.ChunkSpec, error)
}
