package domain

// SourceType is a provenance category, e.g. "file" or "email".
// Slugs are unique and never change once created.
type SourceType struct {
	ID   string
	Slug string
}

// Source is one instance of a provenance category.
type Source struct {
	ID           string
	SourceTypeID string
}
