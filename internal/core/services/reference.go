package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driving"
)

// Ensure ReferenceService implements the interface.
var _ driving.ReferenceService = (*ReferenceService)(nil)

// ReferenceService manages source types and sources.
type ReferenceService struct {
	store driven.Store
}

// NewReferenceService creates a new reference service.
func NewReferenceService(store driven.Store) *ReferenceService {
	return &ReferenceService{store: store}
}

// CreateSourceType registers a new provenance category.
func (s *ReferenceService) CreateSourceType(ctx context.Context, slug string) (*domain.SourceType, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("source type slug is required: %w", domain.ErrInvalidInput)
	}

	st := domain.SourceType{ID: newID(), Slug: slug}
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		return tx.InsertSourceType(ctx, st)
	})
	if err != nil {
		return nil, fmt.Errorf("create source type %q: %w", slug, err)
	}
	return &st, nil
}

// CreateSource creates an instance of a source type.
func (s *ReferenceService) CreateSource(ctx context.Context, sourceTypeID string) (*domain.Source, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	src := domain.Source{ID: newID(), SourceTypeID: sourceTypeID}
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		if _, err := tx.GetSourceType(ctx, sourceTypeID); err != nil {
			return err
		}
		return tx.InsertSource(ctx, src)
	})
	if err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}
	return &src, nil
}

// EnsureSource creates a source of the type with the given slug, creating
// the type first when needed. Both writes share one transaction.
func (s *ReferenceService) EnsureSource(ctx context.Context, slug string) (*domain.Source, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("source type slug is required: %w", domain.ErrInvalidInput)
	}

	var src domain.Source
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		st, err := tx.GetSourceTypeBySlug(ctx, slug)
		if errors.Is(err, domain.ErrNotFound) {
			st = &domain.SourceType{ID: newID(), Slug: slug}
			err = tx.InsertSourceType(ctx, *st)
		}
		if err != nil {
			return err
		}
		src = domain.Source{ID: newID(), SourceTypeID: st.ID}
		return tx.InsertSource(ctx, src)
	})
	if err != nil {
		return nil, fmt.Errorf("ensure source %q: %w", slug, err)
	}
	return &src, nil
}

// GetSourceType retrieves a source type by ID.
func (s *ReferenceService) GetSourceType(ctx context.Context, id string) (*domain.SourceType, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	var st *domain.SourceType
	err := s.store.View(ctx, func(tx driven.Tx) error {
		var err error
		st, err = tx.GetSourceType(ctx, id)
		return err
	})
	return st, err
}

// GetSourceTypeBySlug retrieves a source type by slug.
func (s *ReferenceService) GetSourceTypeBySlug(ctx context.Context, slug string) (*domain.SourceType, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	var st *domain.SourceType
	err := s.store.View(ctx, func(tx driven.Tx) error {
		var err error
		st, err = tx.GetSourceTypeBySlug(ctx, strings.TrimSpace(slug))
		return err
	})
	return st, err
}

// ListSourceTypes returns all source types.
func (s *ReferenceService) ListSourceTypes(ctx context.Context) ([]domain.SourceType, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	var types []domain.SourceType
	err := s.store.View(ctx, func(tx driven.Tx) error {
		var err error
		types, err = tx.ListSourceTypes(ctx)
		return err
	})
	return types, err
}

// GetSource retrieves a source by ID.
func (s *ReferenceService) GetSource(ctx context.Context, id string) (*domain.Source, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	var src *domain.Source
	err := s.store.View(ctx, func(tx driven.Tx) error {
		var err error
		src, err = tx.GetSource(ctx, id)
		return err
	})
	return src, err
}

// ListSources returns all sources.
func (s *ReferenceService) ListSources(ctx context.Context) ([]domain.Source, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	var sources []domain.Source
	err := s.store.View(ctx, func(tx driven.Tx) error {
		var err error
		sources, err = tx.ListSources(ctx)
		return err
	})
	return sources, err
}
