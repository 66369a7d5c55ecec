package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driving"
	"github.com/raggamuffin/raggamuffin/internal/logger"
)

// Ensure EventService implements the interface.
var _ driving.EventService = (*EventService)(nil)

// EventService promotes text documents to messages and meetings.
// A text document holds at most one event payload.
type EventService struct {
	store driven.Store
}

// NewEventService creates a new event service.
func NewEventService(store driven.Store) *EventService {
	return &EventService{store: store}
}

// PromoteToMessage attaches a message payload to a text document.
func (s *EventService) PromoteToMessage(
	ctx context.Context,
	textDocumentID, senderID, recipientID, content string,
	eventDate time.Time,
) (*domain.Message, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	msg := domain.Message{
		ID:          textDocumentID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		EventFacet:  domain.EventFacet{EventDate: eventDate.UTC()},
	}
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		if err := requireText(ctx, tx, textDocumentID); err != nil {
			return err
		}
		if _, err := tx.GetEntity(ctx, senderID); err != nil {
			return fmt.Errorf("sender: %w", err)
		}
		if _, err := tx.GetEntity(ctx, recipientID); err != nil {
			return fmt.Errorf("recipient: %w", err)
		}
		return tx.InsertMessage(ctx, msg)
	})
	if err != nil {
		return nil, fmt.Errorf("promote %s to message: %w", textDocumentID, err)
	}
	logger.Debug("promoted document %s to message", textDocumentID)
	return &msg, nil
}

// PromoteToMeeting attaches a meeting payload and links its participants.
func (s *EventService) PromoteToMeeting(
	ctx context.Context,
	textDocumentID string,
	eventDate time.Time,
	transcript *string,
	participantIDs []string,
) (*domain.MeetingView, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	meeting := domain.Meeting{
		ID:         textDocumentID,
		Transcript: transcript,
		EventFacet: domain.EventFacet{EventDate: eventDate.UTC()},
	}
	var view *domain.MeetingView
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		if err := requireText(ctx, tx, textDocumentID); err != nil {
			return err
		}
		if err := tx.InsertMeeting(ctx, meeting); err != nil {
			return err
		}
		for _, id := range participantIDs {
			if err := addParticipant(ctx, tx, textDocumentID, id); err != nil {
				return err
			}
		}
		participants, err := linked(ctx, tx, domain.LinkMeetingParticipant, domain.SideLeft, textDocumentID)
		if err != nil {
			return err
		}
		view = &domain.MeetingView{Meeting: meeting, ParticipantIDs: participants}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("promote %s to meeting: %w", textDocumentID, err)
	}
	logger.Debug("promoted document %s to meeting with %d participant(s)", textDocumentID, len(view.ParticipantIDs))
	return view, nil
}

// AddParticipant links an entity to a meeting.
func (s *EventService) AddParticipant(ctx context.Context, meetingID, entityID string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	err := s.store.Update(ctx, func(tx driven.Tx) error {
		if _, err := tx.GetMeeting(ctx, meetingID); err != nil {
			return err
		}
		return addParticipant(ctx, tx, meetingID, entityID)
	})
	if err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	return nil
}

func addParticipant(ctx context.Context, tx driven.Tx, meetingID, entityID string) error {
	if _, err := tx.GetEntity(ctx, entityID); err != nil {
		return err
	}
	return tx.UpsertLink(ctx, domain.Link{
		Kind:  domain.LinkMeetingParticipant,
		Left:  meetingID,
		Right: entityID,
	})
}

// RemoveParticipant unlinks an entity from a meeting.
func (s *EventService) RemoveParticipant(ctx context.Context, meetingID, entityID string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	return s.store.Update(ctx, func(tx driven.Tx) error {
		return tx.DeleteLink(ctx, domain.LinkMeetingParticipant, meetingID, entityID)
	})
}

// requireText checks that id names an existing text payload. A missing
// document, an image, or a text base row without its payload all fail
// with ErrNotATextDocument.
func requireText(ctx context.Context, tx driven.Tx, id string) error {
	_, err := tx.GetTextPayload(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("document %s has no text payload: %w", id, domain.ErrNotATextDocument)
	}
	return err
}
