package memory

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// InsertSourceType stores a new source type.
func (t *tx) InsertSourceType(_ context.Context, st domain.SourceType) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.st.sourceTypes[st.ID]; ok {
		return goerr.Wrap(domain.ErrAlreadyExists, "source type exists", goerr.V("id", st.ID))
	}
	for _, existing := range t.st.sourceTypes {
		if existing.Slug == st.Slug {
			return goerr.Wrap(domain.ErrDuplicateSlug, "failed to insert source type", goerr.V("slug", st.Slug))
		}
	}
	t.st.sourceTypes[st.ID] = st
	return nil
}

// GetSourceType retrieves a source type by ID.
func (t *tx) GetSourceType(_ context.Context, id string) (*domain.SourceType, error) {
	st, ok := t.st.sourceTypes[id]
	if !ok {
		return nil, goerr.Wrap(domain.ErrUnknownSourceType, "source type not found", goerr.V("id", id))
	}
	return &st, nil
}

// GetSourceTypeBySlug retrieves a source type by slug.
func (t *tx) GetSourceTypeBySlug(_ context.Context, slug string) (*domain.SourceType, error) {
	for _, st := range t.st.sourceTypes {
		if st.Slug == slug {
			return &st, nil
		}
	}
	return nil, goerr.Wrap(domain.ErrUnknownSourceType, "source type not found", goerr.V("slug", slug))
}

// ListSourceTypes returns all source types ordered by slug.
func (t *tx) ListSourceTypes(_ context.Context) ([]domain.SourceType, error) {
	types := make([]domain.SourceType, 0, len(t.st.sourceTypes))
	for _, st := range t.st.sourceTypes {
		types = append(types, st)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Slug < types[j].Slug })
	return types, nil
}

// InsertSource stores a new source.
func (t *tx) InsertSource(_ context.Context, src domain.Source) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.st.sources[src.ID]; ok {
		return goerr.Wrap(domain.ErrAlreadyExists, "source exists", goerr.V("id", src.ID))
	}
	if _, ok := t.st.sourceTypes[src.SourceTypeID]; !ok {
		return goerr.Wrap(domain.ErrUnknownSourceType, "failed to insert source",
			goerr.V("source_type_id", src.SourceTypeID))
	}
	t.st.sources[src.ID] = src
	return nil
}

// GetSource retrieves a source by ID.
func (t *tx) GetSource(_ context.Context, id string) (*domain.Source, error) {
	src, ok := t.st.sources[id]
	if !ok {
		return nil, goerr.Wrap(domain.ErrUnknownSource, "source not found", goerr.V("id", id))
	}
	return &src, nil
}

// ListSources returns all sources ordered by ID.
func (t *tx) ListSources(_ context.Context) ([]domain.Source, error) {
	sources := make([]domain.Source, 0, len(t.st.sources))
	for _, src := range t.st.sources {
		sources = append(sources, src)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].ID < sources[j].ID })
	return sources, nil
}
