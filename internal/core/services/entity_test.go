package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
)

func TestEntityService_NilStore(t *testing.T) {
	service := NewEntityService(nil)

	_, err := service.CreateEntity(context.Background(), domain.EntityPerson, "Ada")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	assert.ErrorIs(t, service.LinkHierarchy(context.Background(), "a", "b"), domain.ErrNotImplemented)
}

func TestEntityService_CreateEntity(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewEntityService(store)
		ctx := context.Background()

		e, err := service.CreateEntity(ctx, domain.EntityPerson, "Ada Lovelace")
		require.NoError(t, err)
		assert.Equal(t, domain.EntityPerson, e.Kind)
		assert.False(t, e.Created.IsZero())
		assert.Equal(t, e.Created, e.Modified)

		view, err := service.GetEntity(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", view.Name)
		assert.Empty(t, view.SourceIDs)
		assert.Empty(t, view.Organizations)
	})
}

func TestEntityService_CreateEntity_Invalid(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewEntityService(store)
		ctx := context.Background()

		_, err := service.CreateEntity(ctx, "robot", "R2")
		assert.ErrorIs(t, err, domain.ErrConstraintViolation)

		_, err = service.CreateEntity(ctx, domain.EntityOrganization, "  ")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = service.ListEntities(ctx, "robot")
		assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	})
}

func TestEntityService_ListEntities_FiltersByKind(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewEntityService(store)
		ctx := context.Background()

		seedEntity(t, store, domain.EntityPerson, "Bob")
		seedEntity(t, store, domain.EntityPerson, "Alice")
		seedEntity(t, store, domain.EntityOrganization, "Acme")

		people, err := service.ListEntities(ctx, domain.EntityPerson)
		require.NoError(t, err)
		require.Len(t, people, 2)
		assert.Equal(t, "Alice", people[0].Name)
		assert.Equal(t, "Bob", people[1].Name)

		all, err := service.ListEntities(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}

func TestEntityService_LinkMembership(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewEntityService(store)
		ctx := context.Background()

		person := seedEntity(t, store, domain.EntityPerson, "Ada")
		org := seedEntity(t, store, domain.EntityOrganization, "Acme")

		require.NoError(t, service.LinkMembership(ctx, person.ID, org.ID))

		err := service.LinkMembership(ctx, person.ID, org.ID)
		assert.ErrorIs(t, err, domain.ErrDuplicateEdge)

		pv, err := service.GetEntity(ctx, person.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{org.ID}, pv.Organizations)

		ov, err := service.GetEntity(ctx, org.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{person.ID}, ov.Members)

		require.NoError(t, service.UnlinkMembership(ctx, person.ID, org.ID))
		require.NoError(t, service.UnlinkMembership(ctx, person.ID, org.ID))

		ov, err = service.GetEntity(ctx, org.ID)
		require.NoError(t, err)
		assert.Empty(t, ov.Members)
	})
}

func TestEntityService_LinkMembership_RoleMismatch(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewEntityService(store)
		ctx := context.Background()

		a := seedEntity(t, store, domain.EntityPerson, "Ada")
		b := seedEntity(t, store, domain.EntityPerson, "Bob")
		org := seedEntity(t, store, domain.EntityOrganization, "Acme")

		assert.ErrorIs(t, service.LinkMembership(ctx, a.ID, b.ID), domain.ErrRoleMismatch)
		assert.ErrorIs(t, service.LinkMembership(ctx, org.ID, org.ID), domain.ErrRoleMismatch)
		assert.ErrorIs(t, service.LinkMembership(ctx, "missing", org.ID), domain.ErrNotFound)
	})
}

func TestEntityService_LinkHierarchy(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewEntityService(store)
		ctx := context.Background()

		parent := seedEntity(t, store, domain.EntityOrganization, "Holding")
		child := seedEntity(t, store, domain.EntityOrganization, "Subsidiary")

		require.NoError(t, service.LinkHierarchy(ctx, parent.ID, child.ID))
		assert.ErrorIs(t, service.LinkHierarchy(ctx, parent.ID, child.ID), domain.ErrDuplicateEdge)

		pv, err := service.GetEntity(ctx, parent.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{child.ID}, pv.Children)
		assert.Empty(t, pv.Parents)

		cv, err := service.GetEntity(ctx, child.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{parent.ID}, cv.Parents)

		require.NoError(t, service.UnlinkHierarchy(ctx, parent.ID, child.ID))
		cv, err = service.GetEntity(ctx, child.ID)
		require.NoError(t, err)
		assert.Empty(t, cv.Parents)
	})
}

func TestEntityService_LinkHierarchy_RejectsPersons(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewEntityService(store)

		org := seedEntity(t, store, domain.EntityOrganization, "Acme")
		person := seedEntity(t, store, domain.EntityPerson, "Ada")

		err := service.LinkHierarchy(context.Background(), org.ID, person.ID)
		assert.ErrorIs(t, err, domain.ErrRoleMismatch)
	})
}

func TestEntityService_LinkHierarchy_Cycles(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewEntityService(store)
		ctx := context.Background()

		a := seedEntity(t, store, domain.EntityOrganization, "A")
		b := seedEntity(t, store, domain.EntityOrganization, "B")
		c := seedEntity(t, store, domain.EntityOrganization, "C")

		// Length 1.
		assert.ErrorIs(t, service.LinkHierarchy(ctx, a.ID, a.ID), domain.ErrCycleDetected)

		// Length 2.
		require.NoError(t, service.LinkHierarchy(ctx, a.ID, b.ID))
		assert.ErrorIs(t, service.LinkHierarchy(ctx, b.ID, a.ID), domain.ErrCycleDetected)

		// Length 3.
		require.NoError(t, service.LinkHierarchy(ctx, b.ID, c.ID))
		assert.ErrorIs(t, service.CheckHierarchyEdge(ctx, c.ID, a.ID), domain.ErrCycleDetected)
		err := service.LinkHierarchy(ctx, c.ID, a.ID)
		assert.ErrorIs(t, err, domain.ErrCycleDetected)
		assert.ErrorIs(t, err, domain.ErrConstraintViolation)

		// Diamonds are not cycles.
		assert.NoError(t, service.LinkHierarchy(ctx, a.ID, c.ID))

		view, err := service.GetEntity(ctx, a.ID)
		require.NoError(t, err)
		assert.Empty(t, view.Parents)
	})
}

func TestEntityService_LinkHierarchy_CyclesAllowed(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewEntityService(store, WithHierarchyCycles(true))
		ctx := context.Background()

		a := seedEntity(t, store, domain.EntityOrganization, "A")
		b := seedEntity(t, store, domain.EntityOrganization, "B")
		c := seedEntity(t, store, domain.EntityOrganization, "C")

		assert.NoError(t, service.LinkHierarchy(ctx, a.ID, a.ID))
		assert.NoError(t, service.LinkHierarchy(ctx, a.ID, b.ID))
		assert.NoError(t, service.LinkHierarchy(ctx, b.ID, c.ID))
		assert.NoError(t, service.LinkHierarchy(ctx, c.ID, a.ID))
	})
}

func TestEntityService_LinkSource_Idempotent(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewEntityService(store)
		ctx := context.Background()

		e := seedEntity(t, store, domain.EntityPerson, "Ada")
		src := seedSource(t, store)

		require.NoError(t, service.LinkSource(ctx, e.ID, src.ID))
		require.NoError(t, service.LinkSource(ctx, e.ID, src.ID))

		view, err := service.GetEntity(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{src.ID}, view.SourceIDs)

		assert.ErrorIs(t, service.LinkSource(ctx, e.ID, "missing"), domain.ErrUnknownSource)
	})
}

func TestEntityService_DeleteEntity_CascadesLinks(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		entities := NewEntityService(store)
		docs := NewDocumentService(store)
		ctx := context.Background()

		doc := seedText(t, store, "memo")
		person := seedEntity(t, store, domain.EntityPerson, "Ada")
		org := seedEntity(t, store, domain.EntityOrganization, "Acme")
		require.NoError(t, docs.AttachCreator(ctx, doc.ID, person.ID))
		require.NoError(t, entities.LinkMembership(ctx, person.ID, org.ID))

		require.NoError(t, entities.DeleteEntity(ctx, person.ID))

		view, err := docs.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Empty(t, view.CreatorIDs)

		ov, err := entities.GetEntity(ctx, org.ID)
		require.NoError(t, err)
		assert.Empty(t, ov.Members)

		_, err = entities.GetEntity(ctx, person.ID)
		assert.ErrorIs(t, err, domain.ErrUnknownEntity)

		assert.ErrorIs(t, entities.DeleteEntity(ctx, person.ID), domain.ErrNotFound)
	})
}

func TestEntityService_DeleteEntity_RefusedForMessageEndpoint(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		entities := NewEntityService(store)
		ctx := context.Background()

		doc := seedText(t, store, "hi")
		sender := seedEntity(t, store, domain.EntityPerson, "Ada")
		recipient := seedEntity(t, store, domain.EntityPerson, "Bob")
		_, err := NewEventService(store).PromoteToMessage(ctx, doc.ID, sender.ID, recipient.ID, "hi", time.Now())
		require.NoError(t, err)

		err = entities.DeleteEntity(ctx, recipient.ID)
		assert.ErrorIs(t, err, domain.ErrConstraintViolation)

		_, err = entities.GetEntity(ctx, recipient.ID)
		assert.NoError(t, err)
	})
}
