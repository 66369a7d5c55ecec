package sqlite

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// InsertSourceType stores a new source type.
func (t *tx) InsertSourceType(ctx context.Context, st domain.SourceType) error {
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO source_type (id, slug) VALUES (?, ?)", st.ID, st.Slug)
	return translate(err, domain.ErrDuplicateSlug, "failed to insert source type", goerr.V("slug", st.Slug))
}

// GetSourceType retrieves a source type by ID.
func (t *tx) GetSourceType(ctx context.Context, id string) (*domain.SourceType, error) {
	var st domain.SourceType
	err := t.tx.QueryRowContext(ctx,
		"SELECT id, slug FROM source_type WHERE id = ?", id).Scan(&st.ID, &st.Slug)
	if err != nil {
		return nil, notFound(err, domain.ErrUnknownSourceType, "failed to get source type", goerr.V("id", id))
	}
	return &st, nil
}

// GetSourceTypeBySlug retrieves a source type by its unique slug.
func (t *tx) GetSourceTypeBySlug(ctx context.Context, slug string) (*domain.SourceType, error) {
	var st domain.SourceType
	err := t.tx.QueryRowContext(ctx,
		"SELECT id, slug FROM source_type WHERE slug = ?", slug).Scan(&st.ID, &st.Slug)
	if err != nil {
		return nil, notFound(err, domain.ErrUnknownSourceType, "failed to get source type", goerr.V("slug", slug))
	}
	return &st, nil
}

// ListSourceTypes returns all source types ordered by slug.
func (t *tx) ListSourceTypes(ctx context.Context) ([]domain.SourceType, error) {
	rows, err := t.tx.QueryContext(ctx, "SELECT id, slug FROM source_type ORDER BY slug")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query source types")
	}
	defer rows.Close()

	var types []domain.SourceType //nolint:prealloc // size unknown from query
	for rows.Next() {
		var st domain.SourceType
		if err := rows.Scan(&st.ID, &st.Slug); err != nil {
			return nil, goerr.Wrap(err, "failed to scan source type")
		}
		types = append(types, st)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate source types")
	}
	return types, nil
}

// InsertSource stores a new source.
func (t *tx) InsertSource(ctx context.Context, src domain.Source) error {
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO source (id, source_type_id) VALUES (?, ?)", src.ID, src.SourceTypeID)
	if category := constraintCategory(err); category == domain.ErrNotFound {
		return goerr.Wrap(domain.ErrUnknownSourceType, "failed to insert source",
			goerr.V("source_type_id", src.SourceTypeID))
	}
	return translate(err, nil, "failed to insert source", goerr.V("id", src.ID))
}

// GetSource retrieves a source by ID.
func (t *tx) GetSource(ctx context.Context, id string) (*domain.Source, error) {
	var src domain.Source
	err := t.tx.QueryRowContext(ctx,
		"SELECT id, source_type_id FROM source WHERE id = ?", id).Scan(&src.ID, &src.SourceTypeID)
	if err != nil {
		return nil, notFound(err, domain.ErrUnknownSource, "failed to get source", goerr.V("id", id))
	}
	return &src, nil
}

// ListSources returns all sources ordered by ID.
func (t *tx) ListSources(ctx context.Context) ([]domain.Source, error) {
	rows, err := t.tx.QueryContext(ctx, "SELECT id, source_type_id FROM source ORDER BY id")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query sources")
	}
	defer rows.Close()

	var sources []domain.Source //nolint:prealloc // size unknown from query
	for rows.Next() {
		var src domain.Source
		if err := rows.Scan(&src.ID, &src.SourceTypeID); err != nil {
			return nil, goerr.Wrap(err, "failed to scan source")
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate sources")
	}
	return sources, nil
}
