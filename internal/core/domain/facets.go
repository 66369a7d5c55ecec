package domain

import "time"

// Dated records when a row was created and last modified.
type Dated struct {
	Created  time.Time
	Modified time.Time
}

// Touch sets Modified, and Created when it is still zero.
func (d *Dated) Touch(now time.Time) {
	if d.Created.IsZero() {
		d.Created = now
	}
	d.Modified = now
}

// Embeddings holds the opaque embedding payloads of a record.
// Encoding is owned by the embedding collaborator; the store keeps bytes.
type Embeddings struct {
	Sparse []byte
	Dense  []byte

	// Summary is nil until a summariser has run. Chunks never carry one.
	Summary *string
}

// Get returns the payload of the given kind.
func (e Embeddings) Get(kind EmbeddingKind) []byte {
	if kind == EmbeddingSparse {
		return e.Sparse
	}
	return e.Dense
}

// EventFacet is shared by the event payloads.
type EventFacet struct {
	EventDate time.Time
}
