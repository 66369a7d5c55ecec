package memory

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// InsertEntity stores a new person or organization.
func (t *tx) InsertEntity(_ context.Context, e *domain.Entity) error {
	if err := t.writable(); err != nil {
		return err
	}
	if !e.Kind.IsValid() {
		return goerr.Wrap(domain.ErrConstraintViolation, "unknown entity kind", goerr.V("kind", e.Kind))
	}
	if _, ok := t.st.entities[e.ID]; ok {
		return goerr.Wrap(domain.ErrAlreadyExists, "entity exists", goerr.V("id", e.ID))
	}
	t.st.entities[e.ID] = cloneEntity(*e)
	return nil
}

// GetEntity retrieves an entity by ID.
func (t *tx) GetEntity(_ context.Context, id string) (*domain.Entity, error) {
	e, ok := t.st.entities[id]
	if !ok {
		return nil, goerr.Wrap(domain.ErrUnknownEntity, "entity not found", goerr.V("id", id))
	}
	e = cloneEntity(e)
	return &e, nil
}

// ListEntities returns entities of a kind, or all, ordered by name then ID.
func (t *tx) ListEntities(_ context.Context, kind domain.EntityKind) ([]domain.Entity, error) {
	var entities []domain.Entity //nolint:prealloc // filtered
	for _, e := range t.st.entities {
		if kind != "" && e.Kind != kind {
			continue
		}
		entities = append(entities, cloneEntity(e))
	}
	sort.Slice(entities, func(i, j int) bool {
		if entities[i].Name != entities[j].Name {
			return entities[i].Name < entities[j].Name
		}
		return entities[i].ID < entities[j].ID
	})
	return entities, nil
}

// DeleteEntity removes an entity and every link that references it.
func (t *tx) DeleteEntity(_ context.Context, id string) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.st.entities[id]; !ok {
		return goerr.Wrap(domain.ErrUnknownEntity, "failed to delete entity", goerr.V("id", id))
	}
	for _, m := range t.st.messages {
		if m.SenderID == id || m.RecipientID == id {
			return goerr.Wrap(domain.ErrConstraintViolation, "entity is referenced by a message",
				goerr.V("id", id), goerr.V("message_id", m.ID))
		}
	}
	delete(t.st.entities, id)
	t.cascade(endpointEntity, id)
	return nil
}

func cloneEntity(e domain.Entity) domain.Entity {
	e.Embeddings = cloneEmbeddings(e.Embeddings)
	return e
}
