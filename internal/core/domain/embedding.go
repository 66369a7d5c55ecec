package domain

// EmbeddingKind distinguishes the two embedding slots of a record.
type EmbeddingKind string

// Embedding kinds.
const (
	EmbeddingSparse EmbeddingKind = "sparse"
	EmbeddingDense  EmbeddingKind = "dense"
)

// IsValid returns true if the embedding kind is recognised.
func (k EmbeddingKind) IsValid() bool {
	return k == EmbeddingSparse || k == EmbeddingDense
}

// EmbeddingTarget names the record type that owns embedding slots.
type EmbeddingTarget string

// Records with embedding slots.
const (
	TargetDocument EmbeddingTarget = "document"
	TargetEntity   EmbeddingTarget = "entity"
	TargetChunk    EmbeddingTarget = "chunk"
)

// IsValid returns true if the target is recognised.
func (t EmbeddingTarget) IsValid() bool {
	switch t {
	case TargetDocument, TargetEntity, TargetChunk:
		return true
	default:
		return false
	}
}

// HasSummary reports whether records of this target carry a summary.
func (t EmbeddingTarget) HasSummary() bool {
	return t == TargetDocument || t == TargetEntity
}

// TextRef addresses a record whose text can be read by a collaborator.
// Only document and chunk targets have text.
type TextRef struct {
	Target EmbeddingTarget
	ID     string
}

// SparseVector is a sparse embedding: parallel slices of strictly
// increasing indices and their values.
type SparseVector struct {
	Indices []uint32
	Values  []float32
}
