package sqlite

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// linkTable names the table and key columns backing a link kind.
type linkTable struct {
	name    string
	left    string
	right   string
	ordered bool
}

var linkTables = map[domain.LinkKind]linkTable{
	domain.LinkDocumentCreator:       {name: "document_creator_link", left: "document_id", right: "creator_id"},
	domain.LinkDocumentSetDocument:   {name: "document_set_document_link", left: "document_set_id", right: "document_id", ordered: true},
	domain.LinkEntitySource:          {name: "entity_source_link", left: "entity_id", right: "source_id"},
	domain.LinkOrganizationPerson:    {name: "organization_person_link", left: "organization_id", right: "person_id"},
	domain.LinkOrganizationHierarchy: {name: "organization_hierarchy_link", left: "parent_id", right: "child_id"},
	domain.LinkMeetingParticipant:    {name: "meeting_participant_link", left: "meeting_id", right: "participant_id"},
}

func tableFor(kind domain.LinkKind) (linkTable, error) {
	lt, ok := linkTables[kind]
	if !ok {
		return linkTable{}, goerr.Wrap(domain.ErrInvalidInput, "unknown link kind", goerr.V("kind", kind))
	}
	return lt, nil
}

// orderExpr is the order column, or a constant for unordered tables.
func (lt linkTable) orderExpr() string {
	if lt.ordered {
		return `"order"`
	}
	return "0"
}

// InsertLink stores a link; an existing (left, right) pair is ErrDuplicateEdge.
func (t *tx) InsertLink(ctx context.Context, l domain.Link) error {
	lt, err := tableFor(l.Kind)
	if err != nil {
		return err
	}

	var query string
	args := []any{l.Left, l.Right}
	if lt.ordered {
		query = fmt.Sprintf(`INSERT INTO %s (%s, %s, "order") VALUES (?, ?, ?)`, lt.name, lt.left, lt.right)
		args = append(args, l.Order)
	} else {
		query = fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES (?, ?)`, lt.name, lt.left, lt.right)
	}

	_, err = t.tx.ExecContext(ctx, query, args...)
	return translate(err, domain.ErrDuplicateEdge, "failed to insert link",
		goerr.V("kind", l.Kind), goerr.V("left", l.Left), goerr.V("right", l.Right))
}

// UpsertLink stores a link or overwrites the order of an existing one.
func (t *tx) UpsertLink(ctx context.Context, l domain.Link) error {
	lt, err := tableFor(l.Kind)
	if err != nil {
		return err
	}

	var query string
	args := []any{l.Left, l.Right}
	if lt.ordered {
		query = fmt.Sprintf(`
			INSERT INTO %s (%s, %s, "order") VALUES (?, ?, ?)
			ON CONFLICT(%s, %s) DO UPDATE SET "order" = excluded."order"
		`, lt.name, lt.left, lt.right, lt.left, lt.right)
		args = append(args, l.Order)
	} else {
		query = fmt.Sprintf(`
			INSERT INTO %s (%s, %s) VALUES (?, ?)
			ON CONFLICT(%s, %s) DO NOTHING
		`, lt.name, lt.left, lt.right, lt.left, lt.right)
	}

	_, err = t.tx.ExecContext(ctx, query, args...)
	return translate(err, nil, "failed to upsert link",
		goerr.V("kind", l.Kind), goerr.V("left", l.Left), goerr.V("right", l.Right))
}

// DeleteLink removes a link if present.
func (t *tx) DeleteLink(ctx context.Context, kind domain.LinkKind, left, right string) error {
	lt, err := tableFor(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND %s = ?", lt.name, lt.left, lt.right)
	if _, err := t.tx.ExecContext(ctx, query, left, right); err != nil {
		return goerr.Wrap(err, "failed to delete link",
			goerr.V("kind", kind), goerr.V("left", left), goerr.V("right", right))
	}
	return nil
}

// HasLink reports whether the (left, right) pair exists.
func (t *tx) HasLink(ctx context.Context, kind domain.LinkKind, left, right string) (bool, error) {
	lt, err := tableFor(kind)
	if err != nil {
		return false, err
	}
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = ? AND %s = ?)", lt.name, lt.left, lt.right)

	var exists bool
	if err := t.tx.QueryRowContext(ctx, query, left, right).Scan(&exists); err != nil {
		return false, goerr.Wrap(err, "failed to check link",
			goerr.V("kind", kind), goerr.V("left", left), goerr.V("right", right))
	}
	return exists, nil
}

// ListLinks returns the links of kind matching id on side, or all of them
// when id is empty, sorted by (order, left, right).
func (t *tx) ListLinks(ctx context.Context, kind domain.LinkKind, side domain.LinkSide, id string) ([]domain.Link, error) {
	lt, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s, %s, %s FROM %s", lt.left, lt.right, lt.orderExpr(), lt.name)
	var args []any
	if id != "" {
		column := lt.left
		if side == domain.SideRight {
			column = lt.right
		}
		query += fmt.Sprintf(" WHERE %s = ?", column)
		args = append(args, id)
	}
	if lt.ordered {
		query += fmt.Sprintf(` ORDER BY "order", %s, %s`, lt.left, lt.right)
	} else {
		query += fmt.Sprintf(" ORDER BY %s, %s", lt.left, lt.right)
	}

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query links", goerr.V("kind", kind))
	}
	defer rows.Close()

	var links []domain.Link //nolint:prealloc // size unknown from query
	for rows.Next() {
		l := domain.Link{Kind: kind}
		if err := rows.Scan(&l.Left, &l.Right, &l.Order); err != nil {
			return nil, goerr.Wrap(err, "failed to scan link", goerr.V("kind", kind))
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate links", goerr.V("kind", kind))
	}
	return links, nil
}
