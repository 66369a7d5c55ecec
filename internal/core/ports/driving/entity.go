package driving

import (
	"context"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// EntityService manages persons, organizations and their relations.
type EntityService interface {
	// CreateEntity creates a person or organization.
	CreateEntity(ctx context.Context, kind domain.EntityKind, name string) (*domain.Entity, error)

	// LinkMembership records that a person belongs to an organization.
	// Returns domain.ErrRoleMismatch if the kinds are wrong and
	// domain.ErrDuplicateEdge if the pair already exists.
	LinkMembership(ctx context.Context, personID, organizationID string) error

	// UnlinkMembership removes a membership. Missing links are ignored.
	UnlinkMembership(ctx context.Context, personID, organizationID string) error

	// LinkHierarchy makes child a sub-organization of parent.
	// Returns domain.ErrCycleDetected if the edge closes a cycle.
	LinkHierarchy(ctx context.Context, parentID, childID string) error

	// UnlinkHierarchy removes a hierarchy edge. Missing links are ignored.
	UnlinkHierarchy(ctx context.Context, parentID, childID string) error

	// CheckHierarchyEdge reports whether adding parent -> child would close
	// a cycle, without writing anything.
	CheckHierarchyEdge(ctx context.Context, parentID, childID string) error

	// LinkSource records that an entity was observed in a source. Idempotent.
	LinkSource(ctx context.Context, entityID, sourceID string) error

	// GetEntity returns the entity with its relations.
	GetEntity(ctx context.Context, id string) (*domain.EntityView, error)

	// ListEntities returns entities of a kind, or all when kind is empty.
	ListEntities(ctx context.Context, kind domain.EntityKind) ([]domain.Entity, error)

	// DeleteEntity removes the entity and all its links. Entities referenced
	// by a message cannot be deleted.
	DeleteEntity(ctx context.Context, id string) error
}
