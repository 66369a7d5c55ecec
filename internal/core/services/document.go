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

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages documents and their variant payloads.
type DocumentService struct {
	store driven.Store
}

// NewDocumentService creates a new document service.
func NewDocumentService(store driven.Store) *DocumentService {
	return &DocumentService{store: store}
}

// CreateTextDocument creates a text_document base row and its payload.
func (s *DocumentService) CreateTextDocument(
	ctx context.Context,
	sourceID, text string,
	metadata domain.Metadata,
) (*domain.Document, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	var doc *domain.Document
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		var err error
		doc, err = insertText(ctx, tx, sourceID, text, metadata)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create text document: %w", err)
	}
	return doc, nil
}

// insertText writes the base row and the text payload of a new document.
func insertText(ctx context.Context, tx driven.Tx, sourceID, text string, metadata domain.Metadata) (*domain.Document, error) {
	md, err := metadata.Normalize()
	if err != nil {
		return nil, err
	}
	doc := &domain.Document{
		ID:       newID(),
		Kind:     domain.DocumentText,
		SourceID: sourceID,
		Metadata: md,
	}
	doc.Touch(now())
	if err := tx.InsertDocument(ctx, doc); err != nil {
		return nil, err
	}
	if err := tx.InsertTextPayload(ctx, domain.TextDocument{ID: doc.ID, Text: text}); err != nil {
		return nil, err
	}
	return doc, nil
}

// CreateImage creates an image base row and its payload.
func (s *DocumentService) CreateImage(
	ctx context.Context,
	sourceID string,
	width, height *int,
	data []byte,
) (*domain.Document, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if (width != nil && *width < 0) || (height != nil && *height < 0) {
		return nil, fmt.Errorf("image dimensions must not be negative: %w", domain.ErrConstraintViolation)
	}

	doc := &domain.Document{
		ID:       newID(),
		Kind:     domain.DocumentImage,
		SourceID: sourceID,
		Metadata: domain.Metadata{},
	}
	doc.Touch(now())
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		if err := tx.InsertDocument(ctx, doc); err != nil {
			return err
		}
		return tx.InsertImagePayload(ctx, domain.Image{
			ID:     doc.ID,
			Width:  width,
			Height: height,
			Data:   data,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}
	return doc, nil
}

// AttachCreator links an entity as creator of a document.
func (s *DocumentService) AttachCreator(ctx context.Context, documentID, entityID string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		if _, err := tx.GetDocument(ctx, documentID); err != nil {
			return err
		}
		if _, err := tx.GetEntity(ctx, entityID); err != nil {
			return err
		}
		return tx.UpsertLink(ctx, domain.Link{
			Kind:  domain.LinkDocumentCreator,
			Left:  documentID,
			Right: entityID,
		})
	})
	if err != nil {
		return fmt.Errorf("attach creator: %w", err)
	}
	return nil
}

// DetachCreator removes a creator link.
func (s *DocumentService) DetachCreator(ctx context.Context, documentID, entityID string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	return s.store.Update(ctx, func(tx driven.Tx) error {
		return tx.DeleteLink(ctx, domain.LinkDocumentCreator, documentID, entityID)
	})
}

// SetEmbedding overwrites one embedding slot.
func (s *DocumentService) SetEmbedding(
	ctx context.Context,
	target domain.EmbeddingTarget,
	id string,
	kind domain.EmbeddingKind,
	data []byte,
) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	if !target.IsValid() {
		return fmt.Errorf("unknown embedding target %q: %w", target, domain.ErrInvalidInput)
	}
	if !kind.IsValid() {
		return fmt.Errorf("unknown embedding kind %q: %w", kind, domain.ErrInvalidInput)
	}
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		return tx.SetEmbedding(ctx, target, id, kind, data, now())
	})
	if err != nil {
		return fmt.Errorf("set %s embedding of %s %s: %w", kind, target, id, err)
	}
	return nil
}

// SetSummary overwrites the summary of a document or entity.
func (s *DocumentService) SetSummary(ctx context.Context, target domain.EmbeddingTarget, id, summary string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	if !target.HasSummary() {
		return fmt.Errorf("%s records carry no summary: %w", target, domain.ErrConstraintViolation)
	}
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		return tx.SetSummary(ctx, target, id, summary, now())
	})
	if err != nil {
		return fmt.Errorf("set summary of %s %s: %w", target, id, err)
	}
	return nil
}

// GetDocument returns the fully hydrated document.
func (s *DocumentService) GetDocument(ctx context.Context, id string) (*domain.DocumentView, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	var view *domain.DocumentView
	err := s.store.View(ctx, func(tx driven.Tx) error {
		var err error
		view, err = hydrate(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// hydrate loads a document with every payload that exists for its id and
// checks the result against the exactly-one-variant rule.
func hydrate(ctx context.Context, tx driven.Tx, id string) (*domain.DocumentView, error) {
	doc, err := tx.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &domain.DocumentView{Document: *doc}

	if view.Text, err = optional(tx.GetTextPayload(ctx, id)); err != nil {
		return nil, err
	}
	if view.Image, err = optional(tx.GetImagePayload(ctx, id)); err != nil {
		return nil, err
	}
	if view.Message, err = optional(tx.GetMessage(ctx, id)); err != nil {
		return nil, err
	}
	meeting, err := optional(tx.GetMeeting(ctx, id))
	if err != nil {
		return nil, err
	}
	if meeting != nil {
		participants, err := linked(ctx, tx, domain.LinkMeetingParticipant, domain.SideLeft, id)
		if err != nil {
			return nil, err
		}
		view.Meeting = &domain.MeetingView{Meeting: *meeting, ParticipantIDs: participants}
	}
	if err := view.CheckVariant(); err != nil {
		return nil, err
	}

	if view.CreatorIDs, err = linked(ctx, tx, domain.LinkDocumentCreator, domain.SideLeft, id); err != nil {
		return nil, err
	}
	if view.ChunkCount, err = tx.CountChunks(ctx, id); err != nil {
		return nil, err
	}
	return view, nil
}

// optional turns a not-found lookup into a nil result.
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return v, err
}

// ListDocuments returns documents of a source, or all when sourceID is empty.
func (s *DocumentService) ListDocuments(ctx context.Context, sourceID string) ([]domain.Document, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	var docs []domain.Document
	err := s.store.View(ctx, func(tx driven.Tx) error {
		var err error
		docs, err = tx.ListDocuments(ctx, sourceID)
		return err
	})
	return docs, err
}

// DeleteDocument removes a document with its payloads, chunks and links.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		return tx.DeleteDocument(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	logger.Debug("deleted document %s", id)
	return nil
}

// GetText returns the text of a text document or chunk.
func (s *DocumentService) GetText(ctx context.Context, ref domain.TextRef) (string, error) {
	if s.store == nil {
		return "", domain.ErrNotImplemented
	}
	var text string
	err := s.store.View(ctx, func(tx driven.Tx) error {
		var err error
		text, err = readText(ctx, tx, ref)
		return err
	})
	return text, err
}

// readText resolves the text behind a reference.
func readText(ctx context.Context, tx driven.Tx, ref domain.TextRef) (string, error) {
	switch ref.Target {
	case domain.TargetChunk:
		c, err := tx.GetChunk(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		return c.Text, nil
	case domain.TargetDocument:
		doc, err := tx.GetDocument(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		if doc.Kind != domain.DocumentText {
			return "", fmt.Errorf("document %s is a %s: %w", ref.ID, doc.Kind, domain.ErrNotATextDocument)
		}
		p, err := tx.GetTextPayload(ctx, ref.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("document %s has no text payload: %w", ref.ID, domain.ErrIntegrityCorruption)
		}
		if err != nil {
			return "", err
		}
		return p.Text, nil
	default:
		return "", fmt.Errorf("%s records carry no text: %w", ref.Target, domain.ErrInvalidInput)
	}
}
