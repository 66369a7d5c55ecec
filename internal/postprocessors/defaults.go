package postprocessors

import (
	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
	"github.com/raggamuffin/raggamuffin/internal/postprocessors/chunker"
)

// DefaultProcessor is the processor used when none is named.
const DefaultProcessor = "chunker"

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
}

// NewDefaultRegistry returns a registry with the built-in processors.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// buildChunker creates a chunker processor. The window is validated first
// so a bad configuration is reported instead of silently replaced.
func buildChunker(cfg domain.ChunkerSettings) (driven.PostProcessor, error) {
	if cfg.Size == 0 && cfg.Overlap == 0 {
		return chunker.New(), nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return chunker.New(chunker.WithChunkSize(cfg.Size), chunker.WithOverlap(cfg.Overlap)), nil
}
