package driving

import (
	"context"
	"time"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// EventService promotes text documents to messages and meetings.
type EventService interface {
	// PromoteToMessage attaches a message payload to a text document.
	// Returns domain.ErrAlreadyPromoted if it already holds an event.
	PromoteToMessage(ctx context.Context, textDocumentID, senderID, recipientID, content string,
		eventDate time.Time) (*domain.Message, error)

	// PromoteToMeeting attaches a meeting payload and its participants.
	PromoteToMeeting(ctx context.Context, textDocumentID string, eventDate time.Time,
		transcript *string, participantIDs []string) (*domain.MeetingView, error)

	// AddParticipant links an entity to a meeting. Idempotent.
	AddParticipant(ctx context.Context, meetingID, entityID string) error

	// RemoveParticipant unlinks an entity from a meeting. Missing links are ignored.
	RemoveParticipant(ctx context.Context, meetingID, entityID string) error
}
