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

// Ensure EntityService implements the interface.
var _ driving.EntityService = (*EntityService)(nil)

// EntityService manages persons, organizations and their relations.
type EntityService struct {
	store       driven.Store
	allowCycles bool
}

// EntityOption configures an EntityService.
type EntityOption func(*EntityService)

// WithHierarchyCycles disables the acyclicity check on the organization
// hierarchy when allow is true.
func WithHierarchyCycles(allow bool) EntityOption {
	return func(s *EntityService) {
		s.allowCycles = allow
	}
}

// NewEntityService creates a new entity service.
func NewEntityService(store driven.Store, opts ...EntityOption) *EntityService {
	s := &EntityService{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEntity creates a person or organization.
func (s *EntityService) CreateEntity(ctx context.Context, kind domain.EntityKind, name string) (*domain.Entity, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown entity kind %q: %w", kind, domain.ErrConstraintViolation)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("entity name is required: %w", domain.ErrInvalidInput)
	}

	e := &domain.Entity{ID: newID(), Kind: kind, Name: name}
	e.Touch(now())
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		return tx.InsertEntity(ctx, e)
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	return e, nil
}

// LinkMembership records that a person belongs to an organization.
func (s *EntityService) LinkMembership(ctx context.Context, personID, organizationID string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		if _, err := requireKind(ctx, tx, personID, domain.EntityPerson); err != nil {
			return err
		}
		if _, err := requireKind(ctx, tx, organizationID, domain.EntityOrganization); err != nil {
			return err
		}
		return tx.InsertLink(ctx, domain.Link{
			Kind:  domain.LinkOrganizationPerson,
			Left:  organizationID,
			Right: personID,
		})
	})
	if err != nil {
		return fmt.Errorf("link membership: %w", err)
	}
	return nil
}

// UnlinkMembership removes a membership.
func (s *EntityService) UnlinkMembership(ctx context.Context, personID, organizationID string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	return s.store.Update(ctx, func(tx driven.Tx) error {
		return tx.DeleteLink(ctx, domain.LinkOrganizationPerson, organizationID, personID)
	})
}

// LinkHierarchy makes child a sub-organization of parent.
func (s *EntityService) LinkHierarchy(ctx context.Context, parentID, childID string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		if err := s.checkEdge(ctx, tx, parentID, childID); err != nil {
			return err
		}
		return tx.InsertLink(ctx, domain.Link{
			Kind:  domain.LinkOrganizationHierarchy,
			Left:  parentID,
			Right: childID,
		})
	})
	if err != nil {
		return fmt.Errorf("link hierarchy: %w", err)
	}
	logger.Debug("linked organization %s under %s", childID, parentID)
	return nil
}

// UnlinkHierarchy removes a hierarchy edge.
func (s *EntityService) UnlinkHierarchy(ctx context.Context, parentID, childID string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	return s.store.Update(ctx, func(tx driven.Tx) error {
		return tx.DeleteLink(ctx, domain.LinkOrganizationHierarchy, parentID, childID)
	})
}

// CheckHierarchyEdge reports whether parent -> child may be added.
func (s *EntityService) CheckHierarchyEdge(ctx context.Context, parentID, childID string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	return s.store.View(ctx, func(tx driven.Tx) error {
		return s.checkEdge(ctx, tx, parentID, childID)
	})
}

func (s *EntityService) checkEdge(ctx context.Context, tx driven.Tx, parentID, childID string) error {
	if _, err := requireKind(ctx, tx, parentID, domain.EntityOrganization); err != nil {
		return err
	}
	if _, err := requireKind(ctx, tx, childID, domain.EntityOrganization); err != nil {
		return err
	}
	if s.allowCycles {
		return nil
	}
	reaches, err := reachable(ctx, tx, childID, parentID)
	if err != nil {
		return err
	}
	if reaches {
		return fmt.Errorf("edge %s -> %s closes a cycle: %w", parentID, childID, domain.ErrCycleDetected)
	}
	return nil
}

// reachable reports whether to can be reached from from by following
// hierarchy edges from parent to child. A node always reaches itself.
func reachable(ctx context.Context, tx driven.Tx, from, to string) (bool, error) {
	seen := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if node == to {
			return true, nil
		}
		children, err := linked(ctx, tx, domain.LinkOrganizationHierarchy, domain.SideLeft, node)
		if err != nil {
			return false, err
		}
		for _, child := range children {
			if !seen[child] {
				seen[child] = true
				queue = append(queue, child)
			}
		}
	}
	return false, nil
}

// LinkSource records that an entity was observed in a source.
func (s *EntityService) LinkSource(ctx context.Context, entityID, sourceID string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		if _, err := tx.GetEntity(ctx, entityID); err != nil {
			return err
		}
		if _, err := tx.GetSource(ctx, sourceID); err != nil {
			return err
		}
		return tx.UpsertLink(ctx, domain.Link{
			Kind:  domain.LinkEntitySource,
			Left:  entityID,
			Right: sourceID,
		})
	})
	if err != nil {
		return fmt.Errorf("link source: %w", err)
	}
	return nil
}

// GetEntity returns the entity with its relations.
func (s *EntityService) GetEntity(ctx context.Context, id string) (*domain.EntityView, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	var view *domain.EntityView
	err := s.store.View(ctx, func(tx driven.Tx) error {
		e, err := tx.GetEntity(ctx, id)
		if err != nil {
			return err
		}
		view = &domain.EntityView{Entity: *e}
		if view.SourceIDs, err = linked(ctx, tx, domain.LinkEntitySource, domain.SideLeft, id); err != nil {
			return err
		}
		if !e.IsOrganization() {
			view.Organizations, err = linked(ctx, tx, domain.LinkOrganizationPerson, domain.SideRight, id)
			return err
		}
		if view.Members, err = linked(ctx, tx, domain.LinkOrganizationPerson, domain.SideLeft, id); err != nil {
			return err
		}
		if view.Parents, err = linked(ctx, tx, domain.LinkOrganizationHierarchy, domain.SideRight, id); err != nil {
			return err
		}
		view.Children, err = linked(ctx, tx, domain.LinkOrganizationHierarchy, domain.SideLeft, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListEntities returns entities of a kind, or all when kind is empty.
func (s *EntityService) ListEntities(ctx context.Context, kind domain.EntityKind) ([]domain.Entity, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if kind != "" && !kind.IsValid() {
		return nil, fmt.Errorf("unknown entity kind %q: %w", kind, domain.ErrConstraintViolation)
	}
	var entities []domain.Entity
	err := s.store.View(ctx, func(tx driven.Tx) error {
		var err error
		entities, err = tx.ListEntities(ctx, kind)
		return err
	})
	return entities, err
}

// DeleteEntity removes the entity and all its links.
func (s *EntityService) DeleteEntity(ctx context.Context, id string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		if _, err := tx.GetEntity(ctx, id); err != nil {
			return err
		}
		n, err := tx.CountMessagesFor(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("entity is sender or recipient of %d message(s): %w", n, domain.ErrConstraintViolation)
		}
		return tx.DeleteEntity(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete entity %s: %w", id, err)
	}
	logger.Debug("deleted entity %s", id)
	return nil
}
