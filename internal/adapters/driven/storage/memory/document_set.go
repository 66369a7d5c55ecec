package memory

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// InsertDocumentSet stores a document set or conversation.
func (t *tx) InsertDocumentSet(_ context.Context, set domain.DocumentSet) error {
	if err := t.writable(); err != nil {
		return err
	}
	if err := set.Validate(); err != nil {
		return goerr.Wrap(err, "failed to insert document set", goerr.V("id", set.ID))
	}
	if _, ok := t.st.sets[set.ID]; ok {
		return goerr.Wrap(domain.ErrAlreadyExists, "document set exists", goerr.V("id", set.ID))
	}
	t.st.sets[set.ID] = set
	return nil
}

// GetDocumentSet retrieves a document set by ID.
func (t *tx) GetDocumentSet(_ context.Context, id string) (*domain.DocumentSet, error) {
	set, ok := t.st.sets[id]
	if !ok {
		return nil, goerr.Wrap(domain.ErrUnknownDocumentSet, "document set not found", goerr.V("id", id))
	}
	return &set, nil
}

// ListDocumentSets returns all document sets ordered by ID.
func (t *tx) ListDocumentSets(_ context.Context) ([]domain.DocumentSet, error) {
	sets := make([]domain.DocumentSet, 0, len(t.st.sets))
	for _, set := range t.st.sets {
		sets = append(sets, set)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].ID < sets[j].ID })
	return sets, nil
}

// DeleteDocumentSet removes a set and its membership links.
func (t *tx) DeleteDocumentSet(_ context.Context, id string) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.st.sets[id]; !ok {
		return goerr.Wrap(domain.ErrUnknownDocumentSet, "failed to delete document set", goerr.V("id", id))
	}
	delete(t.st.sets, id)
	t.cascade(endpointDocumentSet, id)
	return nil
}
