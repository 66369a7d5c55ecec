package domain

// IngestOptions controls a directory ingestion run.
type IngestOptions struct {
	// Root is the directory to walk.
	Root string

	// Glob selects files relative to Root, e.g. "**/*.txt".
	Glob string

	// Chunk runs the chunker on every created document.
	Chunk bool
}

// IngestResult summarises a directory ingestion run.
type IngestResult struct {
	// SourceID is the source every created document belongs to.
	SourceID string

	// DocumentIDs lists the created documents in walk order.
	DocumentIDs []string

	// Skipped lists the URIs that could not be decoded.
	Skipped []string

	// Chunks is the number of chunks created.
	Chunks int
}
