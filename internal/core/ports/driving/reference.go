package driving

import (
	"context"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// ReferenceService manages source types and sources.
type ReferenceService interface {
	// CreateSourceType registers a new provenance category.
	// Returns domain.ErrDuplicateSlug if the slug is taken.
	CreateSourceType(ctx context.Context, slug string) (*domain.SourceType, error)

	// CreateSource creates an instance of a source type.
	// Returns domain.ErrUnknownSourceType if the type does not exist.
	CreateSource(ctx context.Context, sourceTypeID string) (*domain.Source, error)

	// EnsureSource creates a source of the type with the given slug,
	// creating the type first when it does not exist.
	EnsureSource(ctx context.Context, slug string) (*domain.Source, error)

	GetSourceType(ctx context.Context, id string) (*domain.SourceType, error)
	GetSourceTypeBySlug(ctx context.Context, slug string) (*domain.SourceType, error)
	ListSourceTypes(ctx context.Context) ([]domain.SourceType, error)
	GetSource(ctx context.Context, id string) (*domain.Source, error)
	ListSources(ctx context.Context) ([]domain.Source, error)
}
