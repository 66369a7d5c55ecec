package driven

import "context"

// Summariser produces short summaries of document or entity text.
// This is an optional collaborator - when nil, summaries are disabled.
type Summariser interface {
	// Summarise creates a summary of content of at most maxLength words.
	Summarise(ctx context.Context, content string, maxLength int) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error
}
