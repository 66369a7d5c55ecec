package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driving"
	"github.com/raggamuffin/raggamuffin/internal/logger"
)

// Ensure ChunkService implements the interface.
var _ driving.ChunkService = (*ChunkService)(nil)

// ChunkService manages the chunks of text documents.
type ChunkService struct {
	store   driven.Store
	chunker driven.PostProcessor
}

// NewChunkService creates a new chunk service. The chunker may be nil,
// in which case only explicit rechunks are available.
func NewChunkService(store driven.Store, chunker driven.PostProcessor) *ChunkService {
	return &ChunkService{store: store, chunker: chunker}
}

// Rechunk atomically replaces all chunks of a document.
func (s *ChunkService) Rechunk(ctx context.Context, documentID string, specs []domain.ChunkSpec) ([]domain.Chunk, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	var chunks []domain.Chunk
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		text, err := readText(ctx, tx, domain.TextRef{Target: domain.TargetDocument, ID: documentID})
		if err != nil {
			return err
		}
		chunks, err = rechunk(ctx, tx, documentID, text, specs)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("rechunk %s: %w", documentID, err)
	}
	return chunks, nil
}

// ChunkDocument runs the chunker over the document text and rechunks.
func (s *ChunkService) ChunkDocument(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	if s.store == nil || s.chunker == nil {
		return nil, domain.ErrNotImplemented
	}
	var chunks []domain.Chunk
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		var err error
		chunks, err = chunkText(ctx, tx, s.chunker, documentID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", documentID, err)
	}
	return chunks, nil
}

// chunkText splits a stored document with the chunker and replaces its chunks.
func chunkText(ctx context.Context, tx driven.Tx, chunker driven.PostProcessor, documentID string) ([]domain.Chunk, error) {
	text, err := readText(ctx, tx, domain.TextRef{Target: domain.TargetDocument, ID: documentID})
	if err != nil {
		return nil, err
	}
	specs, err := chunker.Process(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", chunker.Name(), err)
	}
	return rechunk(ctx, tx, documentID, text, specs)
}

// rechunk validates every spec against the text before deleting the old
// chunks, then inserts the new ones with sequences 0..n-1.
func rechunk(ctx context.Context, tx driven.Tx, documentID, text string, specs []domain.ChunkSpec) ([]domain.Chunk, error) {
	textLen := utf8.RuneCountInString(text)
	for i, spec := range specs {
		if err := spec.Validate(textLen); err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
	}
	if err := tx.DeleteChunks(ctx, documentID); err != nil {
		return nil, err
	}

	chunks := make([]domain.Chunk, 0, len(specs))
	for i, spec := range specs {
		c := domain.Chunk{
			ID:         newID(),
			DocumentID: documentID,
			Sequence:   i,
			Start:      spec.Start,
			End:        spec.End,
			Text:       spec.Text,
		}
		if err := tx.InsertChunk(ctx, &c); err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	logger.Debug("document %s now has %d chunk(s)", documentID, len(chunks))
	return chunks, nil
}

// ListChunks returns the chunks of a document ordered by sequence.
func (s *ChunkService) ListChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
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
	return chunks, err
}

// GetChunk retrieves a chunk by ID.
func (s *ChunkService) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	var c *domain.Chunk
	err := s.store.View(ctx, func(tx driven.Tx) error {
		var err error
		c, err = tx.GetChunk(ctx, id)
		return err
	})
	return c, err
}
