package domain

// RawDocument is one file as the filesystem connector read it, before the
// normaliser turns its bytes into text.
type RawDocument struct {
	// URI is the file path, joined onto the ingest root.
	URI      string
	MIMEType string
	Content  []byte

	// Metadata is merged into the text document's metadata on ingest.
	Metadata Metadata
}
