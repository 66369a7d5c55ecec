package services

import (
	"context"
	"fmt"
	"time"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driving"
)

// Ensure DocumentSetService implements the interface.
var _ driving.DocumentSetService = (*DocumentSetService)(nil)

// DocumentSetService manages document sets and conversations.
type DocumentSetService struct {
	store driven.Store
}

// NewDocumentSetService creates a new document set service.
func NewDocumentSetService(store driven.Store) *DocumentSetService {
	return &DocumentSetService{store: store}
}

// CreateDocumentSet creates an unbounded set.
func (s *DocumentSetService) CreateDocumentSet(ctx context.Context) (*domain.DocumentSet, error) {
	return s.create(ctx, domain.DocumentSet{ID: newID(), Kind: domain.SetGeneric})
}

// CreateConversation creates a time-bounded set. Equal bounds are allowed.
func (s *DocumentSetService) CreateConversation(ctx context.Context, start, end time.Time) (*domain.DocumentSet, error) {
	start, end = start.UTC(), end.UTC()
	return s.create(ctx, domain.DocumentSet{
		ID:        newID(),
		Kind:      domain.SetConversation,
		StartDate: &start,
		EndDate:   &end,
	})
}

func (s *DocumentSetService) create(ctx context.Context, set domain.DocumentSet) (*domain.DocumentSet, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("create %s: %w", set.Kind, err)
	}
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		return tx.InsertDocumentSet(ctx, set)
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", set.Kind, err)
	}
	return &set, nil
}

// AddDocument adds a document to a set, or overwrites its order.
func (s *DocumentSetService) AddDocument(ctx context.Context, setID, documentID string, order int) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		if _, err := tx.GetDocumentSet(ctx, setID); err != nil {
			return err
		}
		if _, err := tx.GetDocument(ctx, documentID); err != nil {
			return err
		}
		return tx.UpsertLink(ctx, domain.Link{
			Kind:  domain.LinkDocumentSetDocument,
			Left:  setID,
			Right: documentID,
			Order: order,
		})
	})
	if err != nil {
		return fmt.Errorf("add document to set: %w", err)
	}
	return nil
}

// RemoveDocument removes a document from a set.
func (s *DocumentSetService) RemoveDocument(ctx context.Context, setID, documentID string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	return s.store.Update(ctx, func(tx driven.Tx) error {
		return tx.DeleteLink(ctx, domain.LinkDocumentSetDocument, setID, documentID)
	})
}

// GetDocumentSet returns the set with its ordered members.
func (s *DocumentSetService) GetDocumentSet(ctx context.Context, id string) (*domain.DocumentSetView, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	var view *domain.DocumentSetView
	err := s.store.View(ctx, func(tx driven.Tx) error {
		set, err := tx.GetDocumentSet(ctx, id)
		if err != nil {
			return err
		}
		links, err := tx.ListLinks(ctx, domain.LinkDocumentSetDocument, domain.SideLeft, id)
		if err != nil {
			return err
		}
		view = &domain.DocumentSetView{DocumentSet: *set, Members: make([]domain.SetMember, 0, len(links))}
		for _, l := range links {
			view.Members = append(view.Members, domain.SetMember{DocumentID: l.Right, Order: l.Order})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListDocumentSets returns all sets.
func (s *DocumentSetService) ListDocumentSets(ctx context.Context) ([]domain.DocumentSet, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	var sets []domain.DocumentSet
	err := s.store.View(ctx, func(tx driven.Tx) error {
		var err error
		sets, err = tx.ListDocumentSets(ctx)
		return err
	})
	return sets, err
}

// DeleteDocumentSet removes a set and its membership links.
func (s *DocumentSetService) DeleteDocumentSet(ctx context.Context, id string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		return tx.DeleteDocumentSet(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete document set %s: %w", id, err)
	}
	return nil
}
