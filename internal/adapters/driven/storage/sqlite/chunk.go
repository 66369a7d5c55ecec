package sqlite

import (
	"context"
	"database/sql"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

const chunkColumns = `id, document_id, sequence, start_offset, end_offset, text,
	sparse_embedding, dense_embedding`

// DeleteChunks removes every chunk of a document.
func (t *tx) DeleteChunks(ctx context.Context, documentID string) error {
	_, err := t.tx.ExecContext(ctx, "DELETE FROM chunk WHERE document_id = ?", documentID)
	if err != nil {
		return goerr.Wrap(err, "failed to delete chunks", goerr.V("document_id", documentID))
	}
	return nil
}

// InsertChunk stores a chunk.
func (t *tx) InsertChunk(ctx context.Context, c *domain.Chunk) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO chunk (`+chunkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.DocumentID, c.Sequence, nullInt(c.Start), nullInt(c.End), c.Text,
		blob(c.Sparse), blob(c.Dense))

	switch constraintCategory(err) {
	case domain.ErrNotFound:
		return goerr.Wrap(domain.ErrUnknownDocument, "failed to insert chunk",
			goerr.V("document_id", c.DocumentID))
	case domain.ErrConstraintViolation:
		return goerr.Wrap(domain.ErrInvalidOffsets, "failed to insert chunk",
			goerr.V("id", c.ID), goerr.V("cause", err.Error()))
	}
	return translate(err, nil, "failed to insert chunk",
		goerr.V("document_id", c.DocumentID), goerr.V("sequence", c.Sequence))
}

// GetChunk retrieves a chunk by ID.
func (t *tx) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := t.tx.QueryRowContext(ctx, "SELECT "+chunkColumns+" FROM chunk WHERE id = ?", id)
	c, err := scanChunk(row)
	if err != nil {
		return nil, notFound(err, domain.ErrUnknownChunk, "failed to get chunk", goerr.V("id", id))
	}
	return c, nil
}

// ListChunks returns the chunks of a document ordered by sequence.
func (t *tx) ListChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT `+chunkColumns+` FROM chunk
		WHERE document_id = ?
		ORDER BY sequence
	`, documentID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query chunks", goerr.V("document_id", documentID))
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan chunk")
		}
		chunks = append(chunks, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate chunks")
	}
	return chunks, nil
}

// CountChunks returns the number of chunks of a document.
func (t *tx) CountChunks(ctx context.Context, documentID string) (int, error) {
	var n int
	err := t.tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunk WHERE document_id = ?", documentID).Scan(&n)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count chunks", goerr.V("document_id", documentID))
	}
	return n, nil
}

func scanChunk(row scanner) (*domain.Chunk, error) {
	var c domain.Chunk
	var start, end sql.NullInt64

	if err := row.Scan(&c.ID, &c.DocumentID, &c.Sequence, &start, &end, &c.Text,
		&c.Sparse, &c.Dense); err != nil {
		return nil, err
	}
	c.Start = intPtr(start)
	c.End = intPtr(end)
	return &c, nil
}
