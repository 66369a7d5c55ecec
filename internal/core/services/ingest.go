package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driving"
	"github.com/raggamuffin/raggamuffin/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService imports connector output as text documents.
type IngestService struct {
	store      driven.Store
	build      driven.ConnectorBuilder
	normaliser driven.Normaliser
	chunker    driven.PostProcessor
}

// NewIngestService creates a new ingest service. The chunker is only
// required for runs that request chunking.
func NewIngestService(
	store driven.Store,
	build driven.ConnectorBuilder,
	normaliser driven.Normaliser,
	chunker driven.PostProcessor,
) *IngestService {
	return &IngestService{
		store:      store,
		build:      build,
		normaliser: normaliser,
		chunker:    chunker,
	}
}

// IngestDirectory creates one text document per matching file under a
// new source. Each document, with its chunks, is written in its own
// transaction; files that cannot be decoded are skipped.
func (s *IngestService) IngestDirectory(ctx context.Context, opts domain.IngestOptions) (*domain.IngestResult, error) {
	if s.store == nil || s.build == nil || s.normaliser == nil {
		return nil, domain.ErrNotImplemented
	}
	if opts.Chunk && s.chunker == nil {
		return nil, fmt.Errorf("chunking requested without a chunker: %w", domain.ErrNotImplemented)
	}

	connector, err := s.build(opts.Root, opts.Glob)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	if err := connector.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate connector: %w", err)
	}

	source, err := NewReferenceService(s.store).EnsureSource(ctx, connector.Type())
	if err != nil {
		return nil, err
	}
	result := &domain.IngestResult{SourceID: source.ID}

	logger.Info("Ingesting %s (%s) into source %s", opts.Root, opts.Glob, source.ID)
	docsCh, errsCh := connector.FullSync(ctx)
	if err := s.process(ctx, opts, docsCh, errsCh, result); err != nil {
		return result, err
	}
	logger.Info("Ingest complete: %d documents, %d chunks, %d skipped",
		len(result.DocumentIDs), result.Chunks, len(result.Skipped))
	return result, nil
}

func (s *IngestService) process(
	ctx context.Context,
	opts domain.IngestOptions,
	docsCh <-chan domain.RawDocument,
	errsCh <-chan error,
	result *domain.IngestResult,
) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			if err != nil {
				return fmt.Errorf("connector error: %w", err)
			}

		case raw, ok := <-docsCh:
			if !ok {
				// A connector may queue its error just before closing both
				// channels, so a closed docsCh does not mean a clean walk.
				if errsCh != nil {
					for err := range errsCh {
						if err != nil {
							return fmt.Errorf("connector error: %w", err)
						}
					}
				}
				return nil
			}

			logger.Debug("Processing: %s", raw.URI)
			id, chunks, err := s.processOne(ctx, result.SourceID, opts.Chunk, &raw)
			if errors.Is(err, domain.ErrInvalidInput) {
				logger.Warn("Skipping %s: %v", raw.URI, err)
				result.Skipped = append(result.Skipped, raw.URI)
				continue
			}
			if err != nil {
				return fmt.Errorf("ingest %s: %w", raw.URI, err)
			}
			result.DocumentIDs = append(result.DocumentIDs, id)
			result.Chunks += chunks
		}
	}
}

// processOne normalises a raw document and writes it, with its chunks
// when requested, in one transaction.
func (s *IngestService) processOne(
	ctx context.Context,
	sourceID string,
	chunk bool,
	raw *domain.RawDocument,
) (string, int, error) {
	normalised, err := s.normaliser.Normalise(ctx, raw)
	if err != nil {
		return "", 0, err
	}

	metadata := domain.Metadata{}
	for k, v := range raw.Metadata {
		metadata[k] = v
	}
	for k, v := range normalised.Metadata {
		metadata[k] = v
	}
	metadata["path"] = raw.URI
	metadata["size"] = int64(len(raw.Content))

	var id string
	var count int
	err = s.store.Update(ctx, func(tx driven.Tx) error {
		doc, err := insertText(ctx, tx, sourceID, normalised.Text, metadata)
		if err != nil {
			return err
		}
		id = doc.ID
		if !chunk {
			return nil
		}
		chunks, err := chunkText(ctx, tx, s.chunker, doc.ID)
		count = len(chunks)
		return err
	})
	if err != nil {
		return "", 0, err
	}
	return id, count, nil
}
