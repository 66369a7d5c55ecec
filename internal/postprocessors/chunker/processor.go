// Package chunker provides a fixed-size text chunking processor.
package chunker

import (
	"context"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor splits text into fixed-size, overlapping chunks.
// Sizes and offsets count characters (runes), not bytes.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits text into chunk specs. Each spec carries its text and
// its [start, end) character offsets. Empty text produces no chunks.
func (p *Processor) Process(ctx context.Context, text string) ([]domain.ChunkSpec, error) {
	runes := []rune(text)
	total := len(runes)
	if total == 0 {
		return nil, nil
	}

	step := p.chunkSize - p.overlap
	specs := make([]domain.ChunkSpec, 0, total/step+1)

	for start := 0; start < total; start += step {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(start+p.chunkSize, total)
		specs = append(specs, domain.Span(string(runes[start:end]), start, end))

		if end == total {
			break
		}
	}

	return specs, nil
}
