package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raggamuffin/raggamuffin/internal/adapters/driven/embedding/codec"
	"github.com/raggamuffin/raggamuffin/internal/adapters/driven/storage/memory"
	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
)

// mockEmbedder returns a vector derived from the text length.
type mockEmbedder struct {
	err   error
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return []float32{float32(len(text)), 0.5, -1}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }

type mockSummariser struct {
	maxLength int
}

func (m *mockSummariser) Summarise(_ context.Context, content string, maxLength int) (string, error) {
	m.maxLength = maxLength
	return "  summary of " + content + "\n", nil
}

func (m *mockSummariser) ModelName() string            { return "mock-llm" }
func (m *mockSummariser) Ping(_ context.Context) error { return nil }

func TestEnrichmentService_Unavailable(t *testing.T) {
	service := NewEnrichmentService(memory.NewStore(), nil, nil, codec.New())
	ctx := context.Background()

	assert.ErrorIs(t, service.EmbedDocument(ctx, "x"), domain.ErrEmbeddingUnavailable)
	_, err := service.EmbedChunks(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	_, err = service.SummariseDocument(ctx, "x", 50)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestEnrichmentService_EmbedDocument_RoundTrip(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		c := codec.New()
		service := NewEnrichmentService(store, &mockEmbedder{}, nil, c)
		ctx := context.Background()
		doc := seedText(t, store, "Hello")

		require.NoError(t, service.EmbedDocument(ctx, doc.ID))

		view, err := NewDocumentService(store).GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		vec, err := c.DecodeDense(view.Dense)
		require.NoError(t, err)
		assert.Equal(t, []float32{5, 0.5, -1}, vec)
		assert.Nil(t, view.Sparse)
	})
}

func TestEnrichmentService_EmbedDocument_Errors(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		ctx := context.Background()
		embedder := &mockEmbedder{err: errors.New("connection refused")}
		service := NewEnrichmentService(store, embedder, nil, codec.New())
		doc := seedText(t, store, "Hello")

		err := service.EmbedDocument(ctx, doc.ID)
		assert.ErrorContains(t, err, "connection refused")

		view, err := NewDocumentService(store).GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Nil(t, view.Dense)

		err = service.EmbedDocument(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrUnknownDocument)
	})
}

func TestEnrichmentService_EmbedChunks(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		c := codec.New()
		embedder := &mockEmbedder{}
		service := NewEnrichmentService(store, embedder, nil, c)
		ctx := context.Background()
		doc := seedText(t, store, "one two")

		n, err := service.EmbedChunks(ctx, doc.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Zero(t, embedder.calls)

		_, err = NewChunkService(store, nil).Rechunk(ctx, doc.ID, []domain.ChunkSpec{
			domain.Span("one", 0, 3),
			domain.Span("two", 4, 7),
		})
		require.NoError(t, err)

		n, err = service.EmbedChunks(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		chunks, err := NewChunkService(store, nil).ListChunks(ctx, doc.ID)
		require.NoError(t, err)
		for _, chunk := range chunks {
			vec, err := c.DecodeDense(chunk.Dense)
			require.NoError(t, err)
			assert.Equal(t, []float32{3, 0.5, -1}, vec)
		}
	})
}

func TestEnrichmentService_SummariseDocument(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		summariser := &mockSummariser{}
		service := NewEnrichmentService(store, nil, summariser, codec.New())
		ctx := context.Background()
		doc := seedText(t, store, "Hello")

		summary, err := service.SummariseDocument(ctx, doc.ID, 20)
		require.NoError(t, err)
		assert.Equal(t, "summary of Hello", summary)
		assert.Equal(t, 20, summariser.maxLength)

		view, err := NewDocumentService(store).GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		require.NotNil(t, view.Summary)
		assert.Equal(t, "summary of Hello", *view.Summary)

		_, err = service.SummariseDocument(ctx, doc.ID, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
