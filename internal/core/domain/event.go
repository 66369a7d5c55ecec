package domain

// EventKind names the event payload attached to a text document.
type EventKind string

// Event kinds.
const (
	EventMessage EventKind = "message"
	EventMeeting EventKind = "meeting"
)

// Message is an event payload extending a text document.
type Message struct {
	ID          string
	SenderID    string
	RecipientID string
	Content     string

	EventFacet
}

// Meeting is an event payload extending a text document.
// Participants live in the meeting_participant link table.
type Meeting struct {
	ID         string
	Transcript *string

	EventFacet
}

// MeetingView is a meeting with its participant ids, sorted.
type MeetingView struct {
	Meeting

	ParticipantIDs []string
}
