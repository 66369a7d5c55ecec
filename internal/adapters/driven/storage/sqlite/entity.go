package sqlite

import (
	"context"
	"database/sql"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

const entityColumns = `id, type, name, created, modified, sparse_embedding, dense_embedding, summary`

// InsertEntity stores a new person or organization.
func (t *tx) InsertEntity(ctx context.Context, e *domain.Entity) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO entity (`+entityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, string(e.Kind), e.Name, e.Created.UTC(), e.Modified.UTC(),
		blob(e.Sparse), blob(e.Dense), nullString(e.Summary))
	return translate(err, nil, "failed to insert entity", goerr.V("id", e.ID))
}

// GetEntity retrieves an entity by ID.
func (t *tx) GetEntity(ctx context.Context, id string) (*domain.Entity, error) {
	row := t.tx.QueryRowContext(ctx, "SELECT "+entityColumns+" FROM entity WHERE id = ?", id)
	e, err := scanEntity(row)
	if err != nil {
		return nil, notFound(err, domain.ErrUnknownEntity, "failed to get entity", goerr.V("id", id))
	}
	return e, nil
}

// ListEntities returns entities of a kind, or all entities, ordered by name then ID.
func (t *tx) ListEntities(ctx context.Context, kind domain.EntityKind) ([]domain.Entity, error) {
	query := "SELECT " + entityColumns + " FROM entity"
	var args []any
	if kind != "" {
		query += " WHERE type = ?"
		args = append(args, string(kind))
	}
	query += " ORDER BY name, id"

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query entities")
	}
	defer rows.Close()

	var entities []domain.Entity //nolint:prealloc // size unknown from query
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan entity")
		}
		entities = append(entities, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate entities")
	}
	return entities, nil
}

// DeleteEntity removes an entity; link rows cascade.
func (t *tx) DeleteEntity(ctx context.Context, id string) error {
	res, err := t.tx.ExecContext(ctx, "DELETE FROM entity WHERE id = ?", id)
	if constraintCategory(err) == domain.ErrNotFound {
		// Still referenced by a message.
		return goerr.Wrap(domain.ErrConstraintViolation, "entity is referenced by a message",
			goerr.V("id", id), goerr.V("cause", err.Error()))
	}
	if err != nil {
		return translate(err, nil, "failed to delete entity", goerr.V("id", id))
	}
	return requireAffected(res, domain.ErrUnknownEntity, "failed to delete entity", goerr.V("id", id))
}

func scanEntity(row scanner) (*domain.Entity, error) {
	var e domain.Entity
	var kind string
	var summary sql.NullString

	if err := row.Scan(&e.ID, &kind, &e.Name, &e.Created, &e.Modified,
		&e.Sparse, &e.Dense, &summary); err != nil {
		return nil, err
	}
	e.Kind = domain.EntityKind(kind)
	e.Created = e.Created.UTC()
	e.Modified = e.Modified.UTC()
	e.Summary = stringPtr(summary)
	return &e, nil
}
