package memory

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// InsertDocument stores a document base row.
func (t *tx) InsertDocument(_ context.Context, doc *domain.Document) error {
	if err := t.writable(); err != nil {
		return err
	}
	if !doc.Kind.IsValid() {
		return goerr.Wrap(domain.ErrConstraintViolation, "unknown document kind", goerr.V("kind", doc.Kind))
	}
	if _, ok := t.st.documents[doc.ID]; ok {
		return goerr.Wrap(domain.ErrAlreadyExists, "document exists", goerr.V("id", doc.ID))
	}
	if _, ok := t.st.sources[doc.SourceID]; !ok {
		return goerr.Wrap(domain.ErrUnknownSource, "failed to insert document",
			goerr.V("id", doc.ID), goerr.V("source_id", doc.SourceID))
	}
	metadata, err := doc.Metadata.Normalize()
	if err != nil {
		return goerr.Wrap(err, "failed to insert document", goerr.V("id", doc.ID))
	}
	if doc.Metadata == nil {
		metadata = nil
	}

	stored := cloneDocument(*doc)
	stored.Metadata = metadata
	t.st.documents[doc.ID] = stored
	return nil
}

// GetDocument retrieves a document base row by ID.
func (t *tx) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := t.st.documents[id]
	if !ok {
		return nil, goerr.Wrap(domain.ErrUnknownDocument, "document not found", goerr.V("id", id))
	}
	doc = cloneDocument(doc)
	return &doc, nil
}

// ListDocuments returns documents of a source, or all, oldest first.
func (t *tx) ListDocuments(_ context.Context, sourceID string) ([]domain.Document, error) {
	var docs []domain.Document //nolint:prealloc // filtered
	for _, doc := range t.st.documents {
		if sourceID != "" && doc.SourceID != sourceID {
			continue
		}
		docs = append(docs, cloneDocument(doc))
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].Created.Equal(docs[j].Created) {
			return docs[i].Created.Before(docs[j].Created)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// DeleteDocument removes a document with its payloads, events, chunks and links.
func (t *tx) DeleteDocument(_ context.Context, id string) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.st.documents[id]; !ok {
		return goerr.Wrap(domain.ErrUnknownDocument, "failed to delete document", goerr.V("id", id))
	}
	delete(t.st.documents, id)
	delete(t.st.texts, id)
	delete(t.st.images, id)
	delete(t.st.messages, id)
	if _, ok := t.st.meetings[id]; ok {
		delete(t.st.meetings, id)
		t.cascade(endpointMeeting, id)
	}
	for chunkID, c := range t.st.chunks {
		if c.DocumentID == id {
			delete(t.st.chunks, chunkID)
		}
	}
	t.cascade(endpointDocument, id)
	return nil
}

// checkPayload mirrors the composite (id, type) foreign key of payload rows.
func (t *tx) checkPayload(id string, kind domain.DocumentKind) error {
	doc, ok := t.st.documents[id]
	if !ok || doc.Kind != kind {
		return goerr.Wrap(domain.ErrConstraintViolation, "payload does not match a base row",
			goerr.V("id", id), goerr.V("kind", kind))
	}
	_, text := t.st.texts[id]
	_, image := t.st.images[id]
	if text || image {
		return goerr.Wrap(domain.ErrAlreadyExists, "payload exists", goerr.V("id", id))
	}
	return nil
}

// InsertTextPayload stores the payload of a text_document base row.
func (t *tx) InsertTextPayload(_ context.Context, p domain.TextDocument) error {
	if err := t.writable(); err != nil {
		return err
	}
	if err := t.checkPayload(p.ID, domain.DocumentText); err != nil {
		return err
	}
	t.st.texts[p.ID] = p
	return nil
}

// GetTextPayload retrieves the text payload of a document.
func (t *tx) GetTextPayload(_ context.Context, id string) (*domain.TextDocument, error) {
	p, ok := t.st.texts[id]
	if !ok {
		return nil, goerr.Wrap(domain.ErrNotFound, "text payload not found", goerr.V("id", id))
	}
	return &p, nil
}

// InsertImagePayload stores the payload of an image base row.
func (t *tx) InsertImagePayload(_ context.Context, p domain.Image) error {
	if err := t.writable(); err != nil {
		return err
	}
	if (p.Width != nil && *p.Width < 0) || (p.Height != nil && *p.Height < 0) {
		return goerr.Wrap(domain.ErrConstraintViolation, "negative image dimension", goerr.V("id", p.ID))
	}
	if err := t.checkPayload(p.ID, domain.DocumentImage); err != nil {
		return err
	}
	t.st.images[p.ID] = cloneImage(p)
	return nil
}

// GetImagePayload retrieves the image payload of a document.
func (t *tx) GetImagePayload(_ context.Context, id string) (*domain.Image, error) {
	p, ok := t.st.images[id]
	if !ok {
		return nil, goerr.Wrap(domain.ErrNotFound, "image payload not found", goerr.V("id", id))
	}
	p = cloneImage(p)
	return &p, nil
}

// ListPayloadIDs returns the IDs present in the payload table of kind.
func (t *tx) ListPayloadIDs(_ context.Context, kind domain.DocumentKind) ([]string, error) {
	switch kind {
	case domain.DocumentText:
		return sortedKeys(t.st.texts), nil
	case domain.DocumentImage:
		return sortedKeys(t.st.images), nil
	default:
		return nil, goerr.Wrap(domain.ErrInvalidInput, "unknown document kind", goerr.V("kind", kind))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cloneDocument(doc domain.Document) domain.Document {
	if doc.Metadata != nil {
		doc.Metadata = copyMap(doc.Metadata)
	}
	doc.Embeddings = cloneEmbeddings(doc.Embeddings)
	return doc
}

func cloneImage(p domain.Image) domain.Image {
	p.Width = cloneInt(p.Width)
	p.Height = cloneInt(p.Height)
	p.Data = cloneBytes(p.Data)
	return p
}
