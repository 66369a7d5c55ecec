package memory

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// DeleteChunks removes every chunk of a document.
func (t *tx) DeleteChunks(_ context.Context, documentID string) error {
	if err := t.writable(); err != nil {
		return err
	}
	for id, c := range t.st.chunks {
		if c.DocumentID == documentID {
			delete(t.st.chunks, id)
		}
	}
	return nil
}

// InsertChunk stores a chunk.
func (t *tx) InsertChunk(_ context.Context, c *domain.Chunk) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.st.documents[c.DocumentID]; !ok {
		return goerr.Wrap(domain.ErrUnknownDocument, "failed to insert chunk", goerr.V("document_id", c.DocumentID))
	}
	if (c.Start == nil) != (c.End == nil) ||
		(c.Start != nil && (*c.Start < 0 || *c.End < *c.Start)) {
		return goerr.Wrap(domain.ErrInvalidOffsets, "failed to insert chunk", goerr.V("id", c.ID))
	}
	if _, ok := t.st.chunks[c.ID]; ok {
		return goerr.Wrap(domain.ErrAlreadyExists, "chunk exists", goerr.V("id", c.ID))
	}
	for _, existing := range t.st.chunks {
		if existing.DocumentID == c.DocumentID && existing.Sequence == c.Sequence {
			return goerr.Wrap(domain.ErrAlreadyExists, "chunk sequence exists",
				goerr.V("document_id", c.DocumentID), goerr.V("sequence", c.Sequence))
		}
	}
	t.st.chunks[c.ID] = cloneChunk(*c)
	return nil
}

// GetChunk retrieves a chunk by ID.
func (t *tx) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	c, ok := t.st.chunks[id]
	if !ok {
		return nil, goerr.Wrap(domain.ErrUnknownChunk, "chunk not found", goerr.V("id", id))
	}
	c = cloneChunk(c)
	return &c, nil
}

// ListChunks returns the chunks of a document ordered by sequence.
func (t *tx) ListChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	var chunks []domain.Chunk //nolint:prealloc // filtered
	for _, c := range t.st.chunks {
		if c.DocumentID == documentID {
			chunks = append(chunks, cloneChunk(c))
		}
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Sequence < chunks[j].Sequence })
	return chunks, nil
}

// CountChunks returns the number of chunks of a document.
func (t *tx) CountChunks(_ context.Context, documentID string) (int, error) {
	n := 0
	for _, c := range t.st.chunks {
		if c.DocumentID == documentID {
			n++
		}
	}
	return n, nil
}

func cloneChunk(c domain.Chunk) domain.Chunk {
	c.Start = cloneInt(c.Start)
	c.End = cloneInt(c.End)
	c.Embeddings = cloneEmbeddings(c.Embeddings)
	return c
}
