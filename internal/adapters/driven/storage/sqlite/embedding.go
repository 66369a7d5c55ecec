package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// embeddingTable names the table and missing-row error of a target.
type embeddingTable struct {
	name    string
	dated   bool
	missing error
}

var embeddingTables = map[domain.EmbeddingTarget]embeddingTable{
	domain.TargetDocument: {name: "document", dated: true, missing: domain.ErrUnknownDocument},
	domain.TargetEntity:   {name: "entity", dated: true, missing: domain.ErrUnknownEntity},
	domain.TargetChunk:    {name: "chunk", missing: domain.ErrUnknownChunk},
}

func embeddingTableFor(target domain.EmbeddingTarget) (embeddingTable, error) {
	et, ok := embeddingTables[target]
	if !ok {
		return embeddingTable{}, goerr.Wrap(domain.ErrInvalidInput, "unknown embedding target", goerr.V("target", target))
	}
	return et, nil
}

// SetEmbedding overwrites one embedding slot of a document, entity or chunk.
func (t *tx) SetEmbedding(ctx context.Context, target domain.EmbeddingTarget, id string,
	kind domain.EmbeddingKind, data []byte, now time.Time) error {
	et, err := embeddingTableFor(target)
	if err != nil {
		return err
	}
	if !kind.IsValid() {
		return goerr.Wrap(domain.ErrInvalidInput, "unknown embedding kind", goerr.V("kind", kind))
	}

	column := string(kind) + "_embedding"
	query := fmt.Sprintf("UPDATE %s SET %s = ?", et.name, column)
	args := []any{blob(data)}
	if et.dated {
		query += ", modified = ?"
		args = append(args, now.UTC())
	}
	query += " WHERE id = ?"
	args = append(args, id)

	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return goerr.Wrap(err, "failed to set embedding", goerr.V("target", target), goerr.V("id", id))
	}
	return requireAffected(res, et.missing, "failed to set embedding", goerr.V("target", target), goerr.V("id", id))
}

// SetSummary overwrites the summary of a document or entity.
func (t *tx) SetSummary(ctx context.Context, target domain.EmbeddingTarget, id, summary string, now time.Time) error {
	et, err := embeddingTableFor(target)
	if err != nil {
		return err
	}
	if !target.HasSummary() {
		return goerr.Wrap(domain.ErrConstraintViolation, "target has no summary", goerr.V("target", target))
	}

	query := fmt.Sprintf("UPDATE %s SET summary = ?, modified = ? WHERE id = ?", et.name)
	res, err := t.tx.ExecContext(ctx, query, summary, now.UTC(), id)
	if err != nil {
		return goerr.Wrap(err, "failed to set summary", goerr.V("target", target), goerr.V("id", id))
	}
	return requireAffected(res, et.missing, "failed to set summary", goerr.V("target", target), goerr.V("id", id))
}
