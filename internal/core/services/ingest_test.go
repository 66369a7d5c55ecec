package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raggamuffin/raggamuffin/internal/adapters/driven/embedding/codec"
	"github.com/raggamuffin/raggamuffin/internal/connectors/filesystem"
	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
	"github.com/raggamuffin/raggamuffin/internal/normalisers/plaintext"
	"github.com/raggamuffin/raggamuffin/internal/postprocessors/chunker"
)

// fakeConnector replays fixed documents and an optional trailing error.
type fakeConnector struct {
	docs        []domain.RawDocument
	err         error
	validateErr error
}

func (c *fakeConnector) Type() string { return "file" }

func (c *fakeConnector) Validate(_ context.Context) error { return c.validateErr }

func (c *fakeConnector) FullSync(_ context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument, len(c.docs))
	errs := make(chan error, 1)
	for _, d := range c.docs {
		docs <- d
	}
	if c.err != nil {
		errs <- c.err
	}
	close(errs)
	if c.err == nil {
		close(docs)
	}
	return docs, errs
}

func builderFor(c driven.Connector) driven.ConnectorBuilder {
	return func(_, _ string) (driven.Connector, error) { return c, nil }
}

func TestIngestService_NotConfigured(t *testing.T) {
	service := NewIngestService(nil, nil, nil, nil)

	_, err := service.IngestDirectory(context.Background(), domain.IngestOptions{Root: "."})

	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestIngestService_ChunkWithoutChunker(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewIngestService(store, builderFor(&fakeConnector{}), plaintext.New(), nil)

		_, err := service.IngestDirectory(context.Background(), domain.IngestOptions{Chunk: true})

		assert.ErrorIs(t, err, domain.ErrNotImplemented)
	})
}

func TestIngestService_ValidateFailure(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		conn := &fakeConnector{validateErr: domain.ErrInvalidInput}
		service := NewIngestService(store, builderFor(conn), plaintext.New(), nil)

		_, err := service.IngestDirectory(context.Background(), domain.IngestOptions{})
		require.ErrorIs(t, err, domain.ErrInvalidInput)

		// No source is created for a connector that fails validation.
		sources, err := NewReferenceService(store).ListSources(context.Background())
		require.NoError(t, err)
		assert.Empty(t, sources)
	})
}

func TestIngestService_SkipsUndecodable(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		conn := &fakeConnector{docs: []domain.RawDocument{
			{URI: "/a.txt", Content: []byte("alpha")},
			{URI: "/bad.txt", Content: []byte{0xff, 0xfe}},
			{URI: "/b.txt", Content: []byte("beta")},
		}}
		service := NewIngestService(store, builderFor(conn), plaintext.New(), nil)

		result, err := service.IngestDirectory(context.Background(), domain.IngestOptions{})
		require.NoError(t, err)

		assert.Len(t, result.DocumentIDs, 2)
		assert.Equal(t, []string{"/bad.txt"}, result.Skipped)
		assert.Zero(t, result.Chunks)

		docs, err := NewDocumentService(store).ListDocuments(context.Background(), result.SourceID)
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})
}

func TestIngestService_ConnectorError(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		walkErr := errors.New("walk failed")
		conn := &fakeConnector{err: walkErr}
		service := NewIngestService(store, builderFor(conn), plaintext.New(), nil)

		_, err := service.IngestDirectory(context.Background(), domain.IngestOptions{})

		assert.ErrorIs(t, err, walkErr)
	})
}

// closingConnector sends its documents, queues an error and then closes
// both channels, the order the filesystem connector uses.
type closingConnector struct {
	docs []domain.RawDocument
	err  error
}

func (c *closingConnector) Type() string { return "file" }

func (c *closingConnector) Validate(_ context.Context) error { return nil }

func (c *closingConnector) FullSync(_ context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument, len(c.docs))
	errs := make(chan error, 1)
	for _, d := range c.docs {
		docs <- d
	}
	errs <- c.err
	close(docs)
	close(errs)
	return docs, errs
}

func TestIngestService_ConnectorErrorAfterDocsClosed(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		walkErr := errors.New("walk failed")
		conn := &closingConnector{
			docs: []domain.RawDocument{{URI: "/a.txt", Content: []byte("alpha")}},
			err:  walkErr,
		}
		service := NewIngestService(store, builderFor(conn), plaintext.New(), nil)

		// Either channel may be selected first; the error must surface every time.
		for range 25 {
			_, err := service.IngestDirectory(context.Background(), domain.IngestOptions{})
			require.ErrorIs(t, err, walkErr)
		}
	})
}

func TestIngestService_ReusesSourceType(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		conn := &fakeConnector{docs: []domain.RawDocument{{URI: "/a.txt", Content: []byte("a")}}}
		service := NewIngestService(store, builderFor(conn), plaintext.New(), nil)
		ctx := context.Background()

		first, err := service.IngestDirectory(ctx, domain.IngestOptions{})
		require.NoError(t, err)
		second, err := service.IngestDirectory(ctx, domain.IngestOptions{})
		require.NoError(t, err)

		assert.NotEqual(t, first.SourceID, second.SourceID)
		types, err := NewReferenceService(store).ListSourceTypes(ctx)
		require.NoError(t, err)
		assert.Len(t, types, 1)
	})
}

// TestIngestService_EndToEnd walks a directory holding one "Hello" file,
// chunks it, attaches a dense embedding and reads everything back.
func TestIngestService_EndToEnd(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		ctx := context.Background()
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "hello.txt"), []byte("Hello"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "skip.md"), []byte("# not matched"), 0644))

		service := NewIngestService(store, filesystem.Build, plaintext.New(), chunker.New())
		result, err := service.IngestDirectory(ctx, domain.IngestOptions{
			Root:  root,
			Glob:  filesystem.DefaultGlob,
			Chunk: true,
		})
		require.NoError(t, err)
		require.Len(t, result.DocumentIDs, 1)
		assert.Equal(t, 1, result.Chunks)

		refs := NewReferenceService(store)
		source, err := refs.GetSource(ctx, result.SourceID)
		require.NoError(t, err)
		sourceType, err := refs.GetSourceType(ctx, source.SourceTypeID)
		require.NoError(t, err)
		assert.Equal(t, "file", sourceType.Slug)

		dense := codec.New().EncodeDense([]float32{0.1, 0.2})
		docs := NewDocumentService(store)
		docID := result.DocumentIDs[0]
		require.NoError(t, docs.SetEmbedding(ctx, domain.TargetDocument, docID, domain.EmbeddingDense, dense))

		view, err := docs.GetDocument(ctx, docID)
		require.NoError(t, err)
		require.NotNil(t, view.Text)
		assert.Equal(t, "Hello", view.Text.Text)
		assert.Equal(t, filepath.Join(root, "hello.txt"), view.Metadata["path"])
		assert.Equal(t, int64(5), view.Metadata["size"])
		assert.Equal(t, 1, view.ChunkCount)

		vector, err := codec.New().DecodeDense(view.Dense)
		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2}, vector)

		chunks, err := NewChunkService(store, nil).ListChunks(ctx, docID)
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "Hello", chunks[0].Text)
		assert.Equal(t, 0, chunks[0].Sequence)
		require.NotNil(t, chunks[0].Start)
		require.NotNil(t, chunks[0].End)
		assert.Equal(t, 0, *chunks[0].Start)
		assert.Equal(t, 5, *chunks[0].End)
	})
}
