package driven

// PromptStore provides access to LLM prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// PromptSummarise creates summaries of document and entity text.
// The template expects %d (word limit) and %s (content) placeholders.
const PromptSummarise = "summarise"

// PromptStoreAware is an optional interface for collaborators whose prompt
// templates can be customised after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	SetPromptStore(store PromptStore)
}
