package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

const documentColumns = `id, type, source_id, metadata_json, created, modified,
	sparse_embedding, dense_embedding, summary`

// payloadTables maps each document kind to the table holding its payload.
var payloadTables = map[domain.DocumentKind]string{
	domain.DocumentText:  "text_document",
	domain.DocumentImage: "image",
}

// InsertDocument stores a document base row.
func (t *tx) InsertDocument(ctx context.Context, doc *domain.Document) error {
	metadataJSON, err := encodeMetadata(doc.Metadata)
	if err != nil {
		return goerr.Wrap(err, "failed to encode metadata", goerr.V("id", doc.ID))
	}

	_, err = t.tx.ExecContext(ctx, `
		INSERT INTO document (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, string(doc.Kind), doc.SourceID, nullString(metadataJSON),
		doc.Created.UTC(), doc.Modified.UTC(),
		blob(doc.Sparse), blob(doc.Dense), nullString(doc.Summary))

	if constraintCategory(err) == domain.ErrNotFound {
		return goerr.Wrap(domain.ErrUnknownSource, "failed to insert document",
			goerr.V("id", doc.ID), goerr.V("source_id", doc.SourceID))
	}
	return translate(err, nil, "failed to insert document", goerr.V("id", doc.ID))
}

// GetDocument retrieves a document base row by ID.
func (t *tx) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := t.tx.QueryRowContext(ctx, "SELECT "+documentColumns+" FROM document WHERE id = ?", id)
	doc, err := scanDocument(row)
	if err != nil {
		return nil, notFound(err, domain.ErrUnknownDocument, "failed to get document", goerr.V("id", id))
	}
	return doc, nil
}

// ListDocuments returns documents of a source, or all documents, oldest first.
func (t *tx) ListDocuments(ctx context.Context, sourceID string) ([]domain.Document, error) {
	query := "SELECT " + documentColumns + " FROM document"
	var args []any
	if sourceID != "" {
		query += " WHERE source_id = ?"
		args = append(args, sourceID)
	}
	query += " ORDER BY created, id"

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query documents")
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan document")
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate documents")
	}
	return docs, nil
}

// DeleteDocument removes a document. Payloads, event payloads, chunks and
// link rows cascade.
func (t *tx) DeleteDocument(ctx context.Context, id string) error {
	res, err := t.tx.ExecContext(ctx, "DELETE FROM document WHERE id = ?", id)
	if err != nil {
		return translate(err, nil, "failed to delete document", goerr.V("id", id))
	}
	return requireAffected(res, domain.ErrUnknownDocument, "failed to delete document", goerr.V("id", id))
}

// InsertTextPayload stores the payload of a text_document base row.
func (t *tx) InsertTextPayload(ctx context.Context, p domain.TextDocument) error {
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO text_document (id, type, text) VALUES (?, ?, ?)",
		p.ID, string(domain.DocumentText), p.Text)
	return payloadError(err, "failed to insert text payload", p.ID)
}

// GetTextPayload retrieves the text payload of a document.
func (t *tx) GetTextPayload(ctx context.Context, id string) (*domain.TextDocument, error) {
	var p domain.TextDocument
	err := t.tx.QueryRowContext(ctx,
		"SELECT id, text FROM text_document WHERE id = ?", id).Scan(&p.ID, &p.Text)
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound, "failed to get text payload", goerr.V("id", id))
	}
	return &p, nil
}

// InsertImagePayload stores the payload of an image base row.
func (t *tx) InsertImagePayload(ctx context.Context, p domain.Image) error {
	data := p.Data
	if data == nil {
		data = []byte{}
	}
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO image (id, type, width, height, data) VALUES (?, ?, ?, ?, ?)",
		p.ID, string(domain.DocumentImage), nullInt(p.Width), nullInt(p.Height), data)
	return payloadError(err, "failed to insert image payload", p.ID)
}

// GetImagePayload retrieves the image payload of a document.
func (t *tx) GetImagePayload(ctx context.Context, id string) (*domain.Image, error) {
	var p domain.Image
	var width, height sql.NullInt64
	err := t.tx.QueryRowContext(ctx,
		"SELECT id, width, height, data FROM image WHERE id = ?", id).
		Scan(&p.ID, &width, &height, &p.Data)
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound, "failed to get image payload", goerr.V("id", id))
	}
	p.Width = intPtr(width)
	p.Height = intPtr(height)
	return &p, nil
}

// ListPayloadIDs returns the IDs present in the payload table of kind.
func (t *tx) ListPayloadIDs(ctx context.Context, kind domain.DocumentKind) ([]string, error) {
	table, ok := payloadTables[kind]
	if !ok {
		return nil, goerr.Wrap(domain.ErrInvalidInput, "unknown document kind", goerr.V("kind", kind))
	}
	return t.listIDs(ctx, fmt.Sprintf("SELECT id FROM %s ORDER BY id", table))
}

func (t *tx) listIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query ids")
	}
	defer rows.Close()

	var ids []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, goerr.Wrap(err, "failed to scan id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate ids")
	}
	return ids, nil
}

// payloadError maps a payload insert failure. A payload whose base row is
// missing or carries another discriminator fails the composite foreign key.
func payloadError(err error, msg, id string) error {
	if constraintCategory(err) == domain.ErrNotFound {
		return goerr.Wrap(domain.ErrConstraintViolation, msg,
			goerr.V("id", id), goerr.V("cause", err.Error()))
	}
	return translate(err, nil, msg, goerr.V("id", id))
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var kind string
	var metadataJSON, summary sql.NullString

	if err := row.Scan(&doc.ID, &kind, &doc.SourceID, &metadataJSON,
		&doc.Created, &doc.Modified, &doc.Sparse, &doc.Dense, &summary); err != nil {
		return nil, err
	}
	doc.Kind = domain.DocumentKind(kind)
	doc.Created = doc.Created.UTC()
	doc.Modified = doc.Modified.UTC()
	doc.Summary = stringPtr(summary)

	metadata, err := decodeMetadata(metadataJSON)
	if err != nil {
		return nil, err
	}
	doc.Metadata = metadata
	return &doc, nil
}
