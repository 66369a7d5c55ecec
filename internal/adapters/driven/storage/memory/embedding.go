package memory

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

func setSlot(e *domain.Embeddings, kind domain.EmbeddingKind, data []byte) {
	if kind == domain.EmbeddingSparse {
		e.Sparse = cloneBytes(data)
	} else {
		e.Dense = cloneBytes(data)
	}
}

// SetEmbedding overwrites one embedding slot of a document, entity or chunk.
func (t *tx) SetEmbedding(_ context.Context, target domain.EmbeddingTarget, id string,
	kind domain.EmbeddingKind, data []byte, now time.Time) error {
	if err := t.writable(); err != nil {
		return err
	}
	if !kind.IsValid() {
		return goerr.Wrap(domain.ErrInvalidInput, "unknown embedding kind", goerr.V("kind", kind))
	}

	switch target {
	case domain.TargetDocument:
		doc, ok := t.st.documents[id]
		if !ok {
			return goerr.Wrap(domain.ErrUnknownDocument, "failed to set embedding", goerr.V("id", id))
		}
		setSlot(&doc.Embeddings, kind, data)
		doc.Modified = now
		t.st.documents[id] = doc
	case domain.TargetEntity:
		e, ok := t.st.entities[id]
		if !ok {
			return goerr.Wrap(domain.ErrUnknownEntity, "failed to set embedding", goerr.V("id", id))
		}
		setSlot(&e.Embeddings, kind, data)
		e.Modified = now
		t.st.entities[id] = e
	case domain.TargetChunk:
		c, ok := t.st.chunks[id]
		if !ok {
			return goerr.Wrap(domain.ErrUnknownChunk, "failed to set embedding", goerr.V("id", id))
		}
		setSlot(&c.Embeddings, kind, data)
		t.st.chunks[id] = c
	default:
		return goerr.Wrap(domain.ErrInvalidInput, "unknown embedding target", goerr.V("target", target))
	}
	return nil
}

// SetSummary overwrites the summary of a document or entity.
func (t *tx) SetSummary(_ context.Context, target domain.EmbeddingTarget, id, summary string, now time.Time) error {
	if err := t.writable(); err != nil {
		return err
	}
	switch target {
	case domain.TargetDocument:
		doc, ok := t.st.documents[id]
		if !ok {
			return goerr.Wrap(domain.ErrUnknownDocument, "failed to set summary", goerr.V("id", id))
		}
		doc.Summary = &summary
		doc.Modified = now
		t.st.documents[id] = doc
	case domain.TargetEntity:
		e, ok := t.st.entities[id]
		if !ok {
			return goerr.Wrap(domain.ErrUnknownEntity, "failed to set summary", goerr.V("id", id))
		}
		e.Summary = &summary
		e.Modified = now
		t.st.entities[id] = e
	case domain.TargetChunk:
		return goerr.Wrap(domain.ErrConstraintViolation, "target has no summary", goerr.V("target", target))
	default:
		return goerr.Wrap(domain.ErrInvalidInput, "unknown embedding target", goerr.V("target", target))
	}
	return nil
}
