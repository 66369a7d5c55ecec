package sqlite

import (
	"context"
	"database/sql"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// eventTables maps each event kind to its table.
var eventTables = map[domain.EventKind]string{
	domain.EventMessage: "message",
	domain.EventMeeting: "meeting",
}

// InsertMessage stores a message payload. The single-event triggers reject
// a text document that already holds a meeting.
func (t *tx) InsertMessage(ctx context.Context, m domain.Message) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO message (id, event_date, sender_id, recipient_id, content)
		VALUES (?, ?, ?, ?, ?)
	`, m.ID, m.EventDate.UTC(), m.SenderID, m.RecipientID, m.Content)
	return eventError(err, "failed to insert message", m.ID)
}

// GetMessage retrieves a message payload.
func (t *tx) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	var m domain.Message
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, event_date, sender_id, recipient_id, content FROM message WHERE id = ?
	`, id).Scan(&m.ID, &m.EventDate, &m.SenderID, &m.RecipientID, &m.Content)
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound, "failed to get message", goerr.V("id", id))
	}
	m.EventDate = m.EventDate.UTC()
	return &m, nil
}

// InsertMeeting stores a meeting payload.
func (t *tx) InsertMeeting(ctx context.Context, m domain.Meeting) error {
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO meeting (id, event_date, transcript) VALUES (?, ?, ?)",
		m.ID, m.EventDate.UTC(), nullString(m.Transcript))
	return eventError(err, "failed to insert meeting", m.ID)
}

// GetMeeting retrieves a meeting payload.
func (t *tx) GetMeeting(ctx context.Context, id string) (*domain.Meeting, error) {
	var m domain.Meeting
	var transcript sql.NullString
	err := t.tx.QueryRowContext(ctx,
		"SELECT id, event_date, transcript FROM meeting WHERE id = ?", id).
		Scan(&m.ID, &m.EventDate, &transcript)
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound, "failed to get meeting", goerr.V("id", id))
	}
	m.EventDate = m.EventDate.UTC()
	m.Transcript = stringPtr(transcript)
	return &m, nil
}

// ListEventIDs returns the IDs present in the event table of kind.
func (t *tx) ListEventIDs(ctx context.Context, kind domain.EventKind) ([]string, error) {
	table, ok := eventTables[kind]
	if !ok {
		return nil, goerr.Wrap(domain.ErrInvalidInput, "unknown event kind", goerr.V("kind", kind))
	}
	return t.listIDs(ctx, "SELECT id FROM "+table+" ORDER BY id")
}

// CountMessagesFor counts messages the entity sent or received.
func (t *tx) CountMessagesFor(ctx context.Context, entityID string) (int, error) {
	var n int
	err := t.tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM message WHERE sender_id = ? OR recipient_id = ?",
		entityID, entityID).Scan(&n)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count messages", goerr.V("entity_id", entityID))
	}
	return n, nil
}

// eventError maps an event insert failure: a second event on the same text
// document, by either primary key or trigger, is ErrAlreadyPromoted.
func eventError(err error, msg, id string) error {
	switch constraintCategory(err) {
	case nil:
		return translate(err, nil, msg, goerr.V("id", id))
	case domain.ErrAlreadyExists, domain.ErrAlreadyPromoted:
		return goerr.Wrap(domain.ErrAlreadyPromoted, msg, goerr.V("id", id))
	case domain.ErrNotFound:
		return goerr.Wrap(domain.ErrNotFound, msg, goerr.V("id", id), goerr.V("cause", err.Error()))
	default:
		return translate(err, nil, msg, goerr.V("id", id))
	}
}
