package driven

import (
	"context"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// Normaliser turns raw bytes from a connector into text.
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Normalise decodes raw content. Input that cannot be decoded fails with
	// an error wrapping domain.ErrInvalidInput so callers can skip it.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
type NormaliseResult struct {
	// Text is the decoded content.
	Text string

	// Metadata is attached to the created document.
	Metadata domain.Metadata
}
