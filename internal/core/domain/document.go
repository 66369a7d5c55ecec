package domain

import "fmt"

// DocumentKind is the discriminator of the document base record.
// It names the payload table that holds the variant fields.
type DocumentKind string

// Document kinds.
const (
	DocumentText  DocumentKind = "text_document"
	DocumentImage DocumentKind = "image"
)

// IsValid returns true if the document kind is recognised.
func (k DocumentKind) IsValid() bool {
	return k == DocumentText || k == DocumentImage
}

// String returns the string representation.
func (k DocumentKind) String() string {
	return string(k)
}

// Document is the base record shared by every document variant.
// It always has exactly one payload, selected by Kind.
type Document struct {
	ID       string
	Kind     DocumentKind
	SourceID string
	Metadata Metadata

	Dated
	Embeddings
}

// TextDocument is the payload of a text_document base record.
type TextDocument struct {
	ID   string
	Text string
}

// Image is the payload of an image base record.
type Image struct {
	ID     string
	Width  *int
	Height *int
	Data   []byte
}

// DocumentView is a document hydrated with its payload and relations.
// Exactly one of Text and Image is set, matching Kind.
type DocumentView struct {
	Document

	Text  *TextDocument
	Image *Image

	// Message and Meeting extend Text; at most one is set.
	Message *Message
	Meeting *MeetingView

	CreatorIDs []string
	ChunkCount int
}

// CheckVariant verifies the exactly-one-variant invariant for a hydrated view.
func (v *DocumentView) CheckVariant() error {
	switch v.Kind {
	case DocumentText:
		if v.Text == nil || v.Image != nil {
			return fmt.Errorf("document %s: text_document needs exactly one text payload: %w", v.ID, ErrIntegrityCorruption)
		}
	case DocumentImage:
		if v.Image == nil || v.Text != nil {
			return fmt.Errorf("document %s: image needs exactly one image payload: %w", v.ID, ErrIntegrityCorruption)
		}
	default:
		return fmt.Errorf("document %s: unknown discriminator %q: %w", v.ID, v.Kind, ErrIntegrityCorruption)
	}
	if v.Message != nil && v.Meeting != nil {
		return fmt.Errorf("document %s: both message and meeting payloads: %w", v.ID, ErrIntegrityCorruption)
	}
	if (v.Message != nil || v.Meeting != nil) && v.Text == nil {
		return fmt.Errorf("document %s: event payload without text payload: %w", v.ID, ErrIntegrityCorruption)
	}
	return nil
}

// PlainText returns the text of a text document, or ErrNotATextDocument.
func (v *DocumentView) PlainText() (string, error) {
	if v.Kind != DocumentText || v.Text == nil {
		return "", ErrNotATextDocument
	}
	return v.Text.Text, nil
}
