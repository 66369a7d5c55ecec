package sqlite

import (
	"context"
	"database/sql"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// InsertDocumentSet stores a document set or conversation.
func (t *tx) InsertDocumentSet(ctx context.Context, set domain.DocumentSet) error {
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO document_set (id, type, start_date, end_date) VALUES (?, ?, ?, ?)",
		set.ID, string(set.Kind), nullTime(set.StartDate), nullTime(set.EndDate))
	return translate(err, nil, "failed to insert document set", goerr.V("id", set.ID))
}

// GetDocumentSet retrieves a document set by ID.
func (t *tx) GetDocumentSet(ctx context.Context, id string) (*domain.DocumentSet, error) {
	row := t.tx.QueryRowContext(ctx,
		"SELECT id, type, start_date, end_date FROM document_set WHERE id = ?", id)
	set, err := scanDocumentSet(row)
	if err != nil {
		return nil, notFound(err, domain.ErrUnknownDocumentSet, "failed to get document set", goerr.V("id", id))
	}
	return set, nil
}

// ListDocumentSets returns all document sets ordered by ID.
func (t *tx) ListDocumentSets(ctx context.Context) ([]domain.DocumentSet, error) {
	rows, err := t.tx.QueryContext(ctx,
		"SELECT id, type, start_date, end_date FROM document_set ORDER BY id")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query document sets")
	}
	defer rows.Close()

	var sets []domain.DocumentSet //nolint:prealloc // size unknown from query
	for rows.Next() {
		set, err := scanDocumentSet(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan document set")
		}
		sets = append(sets, *set)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate document sets")
	}
	return sets, nil
}

// DeleteDocumentSet removes a set; membership links cascade.
func (t *tx) DeleteDocumentSet(ctx context.Context, id string) error {
	res, err := t.tx.ExecContext(ctx, "DELETE FROM document_set WHERE id = ?", id)
	if err != nil {
		return translate(err, nil, "failed to delete document set", goerr.V("id", id))
	}
	return requireAffected(res, domain.ErrUnknownDocumentSet, "failed to delete document set", goerr.V("id", id))
}

func scanDocumentSet(row scanner) (*domain.DocumentSet, error) {
	var set domain.DocumentSet
	var kind string
	var start, end sql.NullTime

	if err := row.Scan(&set.ID, &kind, &start, &end); err != nil {
		return nil, err
	}
	set.Kind = domain.DocumentSetKind(kind)
	set.StartDate = timePtr(start)
	set.EndDate = timePtr(end)
	return &set, nil
}
