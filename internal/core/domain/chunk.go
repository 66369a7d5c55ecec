package domain

import "fmt"

// Chunk is a contiguous span of a document's text.
// Start and End are character offsets and are either both set or both nil.
type Chunk struct {
	ID         string
	DocumentID string
	Sequence   int
	Start      *int
	End        *int
	Text       string

	// Chunks use the embedding slots only; Summary stays nil.
	Embeddings
}

// ChunkSpec describes one chunk to insert during a rechunk.
type ChunkSpec struct {
	Text  string
	Start *int
	End   *int
}

// Validate checks the offsets against the owning document's text length,
// counted in characters (runes).
func (c ChunkSpec) Validate(textLen int) error {
	if c.Start == nil && c.End == nil {
		return nil
	}
	if c.Start == nil || c.End == nil {
		return fmt.Errorf("start and end must be given together: %w", ErrInvalidOffsets)
	}
	start, end := *c.Start, *c.End
	if start < 0 {
		return fmt.Errorf("start %d is negative: %w", start, ErrInvalidOffsets)
	}
	if end < start {
		return fmt.Errorf("end %d before start %d: %w", end, start, ErrInvalidOffsets)
	}
	if end > textLen {
		return fmt.Errorf("end %d beyond text length %d: %w", end, textLen, ErrInvalidOffsets)
	}
	return nil
}

// Span returns a ChunkSpec with both offsets set.
func Span(text string, start, end int) ChunkSpec {
	return ChunkSpec{Text: text, Start: &start, End: &end}
}
