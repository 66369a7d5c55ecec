package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// checkEvent mirrors the event foreign key and the single-event triggers.
func (t *tx) checkEvent(id string) error {
	if _, ok := t.st.texts[id]; !ok {
		return goerr.Wrap(domain.ErrNotFound, "text payload not found", goerr.V("id", id))
	}
	_, message := t.st.messages[id]
	_, meeting := t.st.meetings[id]
	if message || meeting {
		return goerr.Wrap(domain.ErrAlreadyPromoted, "text document already holds an event", goerr.V("id", id))
	}
	return nil
}

// InsertMessage stores a message payload.
func (t *tx) InsertMessage(_ context.Context, m domain.Message) error {
	if err := t.writable(); err != nil {
		return err
	}
	if err := t.checkEvent(m.ID); err != nil {
		return err
	}
	if !t.exists(endpointEntity, m.SenderID) || !t.exists(endpointEntity, m.RecipientID) {
		return goerr.Wrap(domain.ErrNotFound, "message endpoint not found",
			goerr.V("sender_id", m.SenderID), goerr.V("recipient_id", m.RecipientID))
	}
	t.st.messages[m.ID] = m
	return nil
}

// GetMessage retrieves a message payload.
func (t *tx) GetMessage(_ context.Context, id string) (*domain.Message, error) {
	m, ok := t.st.messages[id]
	if !ok {
		return nil, goerr.Wrap(domain.ErrNotFound, "message not found", goerr.V("id", id))
	}
	return &m, nil
}

// InsertMeeting stores a meeting payload.
func (t *tx) InsertMeeting(_ context.Context, m domain.Meeting) error {
	if err := t.writable(); err != nil {
		return err
	}
	if err := t.checkEvent(m.ID); err != nil {
		return err
	}
	m.Transcript = cloneString(m.Transcript)
	t.st.meetings[m.ID] = m
	return nil
}

// GetMeeting retrieves a meeting payload.
func (t *tx) GetMeeting(_ context.Context, id string) (*domain.Meeting, error) {
	m, ok := t.st.meetings[id]
	if !ok {
		return nil, goerr.Wrap(domain.ErrNotFound, "meeting not found", goerr.V("id", id))
	}
	m.Transcript = cloneString(m.Transcript)
	return &m, nil
}

// ListEventIDs returns the IDs present in the event table of kind.
func (t *tx) ListEventIDs(_ context.Context, kind domain.EventKind) ([]string, error) {
	switch kind {
	case domain.EventMessage:
		return sortedKeys(t.st.messages), nil
	case domain.EventMeeting:
		return sortedKeys(t.st.meetings), nil
	default:
		return nil, goerr.Wrap(domain.ErrInvalidInput, "unknown event kind", goerr.V("kind", kind))
	}
}

// CountMessagesFor counts messages the entity sent or received.
func (t *tx) CountMessagesFor(_ context.Context, entityID string) (int, error) {
	n := 0
	for _, m := range t.st.messages {
		if m.SenderID == entityID || m.RecipientID == entityID {
			n++
		}
	}
	return n, nil
}
