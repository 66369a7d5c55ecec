package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driving"
	"github.com/raggamuffin/raggamuffin/internal/logger"
)

// Ensure EnrichmentService implements the interface.
var _ driving.EnrichmentService = (*EnrichmentService)(nil)

// EnrichmentService fills embedding slots and summaries.
// Collaborator calls happen outside store transactions; only the final
// write takes the write lock.
type EnrichmentService struct {
	store      driven.Store
	embedder   driven.Embedder
	summariser driven.Summariser
	codec      driven.VectorCodec
}

// NewEnrichmentService creates a new enrichment service.
// embedder and summariser are optional.
func NewEnrichmentService(
	store driven.Store,
	embedder driven.Embedder,
	summariser driven.Summariser,
	codec driven.VectorCodec,
) *EnrichmentService {
	return &EnrichmentService{
		store:      store,
		embedder:   embedder,
		summariser: summariser,
		codec:      codec,
	}
}

func (s *EnrichmentService) text(ctx context.Context, ref domain.TextRef) (string, error) {
	var text string
	err := s.store.View(ctx, func(tx driven.Tx) error {
		var err error
		text, err = readText(ctx, tx, ref)
		return err
	})
	return text, err
}

// EmbedDocument stores the dense embedding of a text document.
func (s *EnrichmentService) EmbedDocument(ctx context.Context, documentID string) error {
	if s.store == nil || s.codec == nil {
		return domain.ErrNotImplemented
	}
	if s.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	text, err := s.text(ctx, domain.TextRef{Target: domain.TargetDocument, ID: documentID})
	if err != nil {
		return fmt.Errorf("embed document %s: %w", documentID, err)
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed document %s: %w", documentID, err)
	}
	data := s.codec.EncodeDense(vec)

	err = s.store.Update(ctx, func(tx driven.Tx) error {
		return tx.SetEmbedding(ctx, domain.TargetDocument, documentID, domain.EmbeddingDense, data, now())
	})
	if err != nil {
		return fmt.Errorf("store embedding of %s: %w", documentID, err)
	}
	logger.Debug("embedded document %s with %s (%d dims)", documentID, s.embedder.ModelName(), len(vec))
	return nil
}

// EmbedChunks stores dense embeddings for every chunk of a document.
func (s *EnrichmentService) EmbedChunks(ctx context.Context, documentID string) (int, error) {
	if s.store == nil || s.codec == nil {
		return 0, domain.ErrNotImplemented
	}
	if s.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}

	var chunks []domain.Chunk
	err := s.store.View(ctx, func(tx driven.Tx) error {
		if _, err := tx.GetDocument(ctx, documentID); err != nil {
			return err
		}
		var err error
		chunks, err = tx.ListChunks(ctx, documentID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("embed chunks of %s: %w", documentID, err)
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks of %s: %w", documentID, err)
	}
	if len(vecs) != len(chunks) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks: %w",
			len(vecs), len(chunks), domain.ErrInvalidInput)
	}

	err = s.store.Update(ctx, func(tx driven.Tx) error {
		ts := now()
		for i, c := range chunks {
			if err := tx.SetEmbedding(ctx, domain.TargetChunk, c.ID, domain.EmbeddingDense,
				s.codec.EncodeDense(vecs[i]), ts); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("store chunk embeddings of %s: %w", documentID, err)
	}
	logger.Debug("embedded %d chunk(s) of document %s", len(chunks), documentID)
	return len(chunks), nil
}

// SummariseDocument stores and returns a summary of a text document.
func (s *EnrichmentService) SummariseDocument(ctx context.Context, documentID string, maxLength int) (string, error) {
	if s.store == nil {
		return "", domain.ErrNotImplemented
	}
	if s.summariser == nil {
		return "", domain.ErrLLMUnavailable
	}
	if maxLength <= 0 {
		return "", fmt.Errorf("max length must be positive: %w", domain.ErrInvalidInput)
	}

	text, err := s.text(ctx, domain.TextRef{Target: domain.TargetDocument, ID: documentID})
	if err != nil {
		return "", fmt.Errorf("summarise %s: %w", documentID, err)
	}
	summary, err := s.summariser.Summarise(ctx, text, maxLength)
	if err != nil {
		return "", fmt.Errorf("summarise %s: %w", documentID, err)
	}
	summary = strings.TrimSpace(summary)

	err = s.store.Update(ctx, func(tx driven.Tx) error {
		return tx.SetSummary(ctx, domain.TargetDocument, documentID, summary, now())
	})
	if err != nil {
		return "", fmt.Errorf("store summary of %s: %w", documentID, err)
	}
	return summary, nil
}
