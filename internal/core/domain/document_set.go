package domain

import (
	"fmt"
	"time"
)

// DocumentSetKind is the discriminator of the shared document set shape.
type DocumentSetKind string

// Document set kinds.
const (
	SetGeneric      DocumentSetKind = "document_set"
	SetConversation DocumentSetKind = "conversation"
)

// IsValid returns true if the document set kind is recognised.
func (k DocumentSetKind) IsValid() bool {
	return k == SetGeneric || k == SetConversation
}

// DocumentSet is a named collection of documents. Conversations are
// time-bounded sets; StartDate and EndDate are nil for generic sets.
type DocumentSet struct {
	ID        string
	Kind      DocumentSetKind
	StartDate *time.Time
	EndDate   *time.Time
}

// Validate checks the date columns against the discriminator.
func (s *DocumentSet) Validate() error {
	switch s.Kind {
	case SetGeneric:
		if s.StartDate != nil || s.EndDate != nil {
			return fmt.Errorf("document_set must not carry dates: %w", ErrConstraintViolation)
		}
	case SetConversation:
		if s.StartDate == nil || s.EndDate == nil {
			return fmt.Errorf("conversation needs start and end dates: %w", ErrInvalidRange)
		}
		if s.EndDate.Before(*s.StartDate) {
			return fmt.Errorf("end %s before start %s: %w",
				s.EndDate.Format(time.RFC3339), s.StartDate.Format(time.RFC3339), ErrInvalidRange)
		}
	default:
		return fmt.Errorf("unknown document set kind %q: %w", s.Kind, ErrConstraintViolation)
	}
	return nil
}

// SetMember is one ordered membership of a document in a set.
type SetMember struct {
	DocumentID string
	Order      int
}

// DocumentSetView is a set with its members sorted by (Order, DocumentID).
type DocumentSetView struct {
	DocumentSet

	Members []SetMember
}
