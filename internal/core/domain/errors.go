package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a record with the same unique key already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrDuplicateEdge indicates a link with the same composite key already exists.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrConstraintViolation indicates a discriminator, range or offset rule was broken.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrAlreadyPromoted indicates a text document already carries an event payload.
	ErrAlreadyPromoted = errors.New("already promoted")

	// ErrIntegrityCorruption indicates stored rows disagree with the model:
	// a base row without exactly one payload, or a link to a deleted endpoint.
	// It is reported, never repaired.
	ErrIntegrityCorruption = errors.New("integrity corruption")

	// ErrEmbeddingUnavailable indicates the embedding collaborator is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the summarisation collaborator is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

// Specific errors. Each wraps its taxonomy category so callers can match
// either the precise failure or the category with errors.Is.
var (
	ErrUnknownSourceType  = fmt.Errorf("unknown source type: %w", ErrNotFound)
	ErrUnknownSource      = fmt.Errorf("unknown source: %w", ErrNotFound)
	ErrUnknownEntity      = fmt.Errorf("unknown entity: %w", ErrNotFound)
	ErrUnknownDocument    = fmt.Errorf("unknown document: %w", ErrNotFound)
	ErrUnknownDocumentSet = fmt.Errorf("unknown document set: %w", ErrNotFound)
	ErrUnknownChunk       = fmt.Errorf("unknown chunk: %w", ErrNotFound)

	ErrDuplicateSlug = fmt.Errorf("duplicate source type slug: %w", ErrAlreadyExists)

	ErrRoleMismatch     = fmt.Errorf("entity role mismatch: %w", ErrConstraintViolation)
	ErrNotATextDocument = fmt.Errorf("not a text document: %w", ErrConstraintViolation)
	ErrInvalidOffsets   = fmt.Errorf("invalid chunk offsets: %w", ErrConstraintViolation)
	ErrInvalidRange     = fmt.Errorf("invalid date range: %w", ErrConstraintViolation)
	ErrCycleDetected    = fmt.Errorf("hierarchy cycle: %w", ErrConstraintViolation)
)
