package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
)

func intPtr(v int) *int { return &v }

func TestDocumentService_NilStore(t *testing.T) {
	service := NewDocumentService(nil)

	_, err := service.GetDocument(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestDocumentService_CreateTextDocument(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewDocumentService(store)
		ctx := context.Background()
		src := seedSource(t, store)

		doc, err := service.CreateTextDocument(ctx, src.ID, "Hello", domain.Metadata{"lang": "en"})
		require.NoError(t, err)
		assert.Equal(t, domain.DocumentText, doc.Kind)

		view, err := service.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		require.NotNil(t, view.Text)
		assert.Nil(t, view.Image)
		assert.Nil(t, view.Message)
		assert.Nil(t, view.Meeting)
		assert.Equal(t, "Hello", view.Text.Text)
		assert.Equal(t, src.ID, view.SourceID)
		assert.Equal(t, "en", view.Metadata["lang"])
		assert.Zero(t, view.ChunkCount)
		assert.NoError(t, view.CheckVariant())
	})
}

func TestDocumentService_CreateTextDocument_UnknownSource(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewDocumentService(store)
		ctx := context.Background()

		_, err := service.CreateTextDocument(ctx, "missing", "x", nil)
		assert.ErrorIs(t, err, domain.ErrUnknownSource)

		docs, err := service.ListDocuments(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}

func TestDocumentService_Metadata_PreservesNumberKinds(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewDocumentService(store)
		ctx := context.Background()
		src := seedSource(t, store)

		doc, err := service.CreateTextDocument(ctx, src.ID, "x", domain.Metadata{
			"pages": 3,
			"ratio": 2.0,
			"score": 0.25,
			"title": "Report",
		})
		require.NoError(t, err)

		view, err := service.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), view.Metadata["pages"])
		assert.Equal(t, float64(2), view.Metadata["ratio"])
		assert.Equal(t, 0.25, view.Metadata["score"])
		assert.Equal(t, "Report", view.Metadata["title"])
	})
}

func TestDocumentService_Metadata_RejectsNonScalars(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		src := seedSource(t, store)

		_, err := NewDocumentService(store).CreateTextDocument(context.Background(), src.ID, "x",
			domain.Metadata{"tags": []string{"a"}})

		assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	})
}

func TestDocumentService_CreateImage(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewDocumentService(store)
		ctx := context.Background()
		src := seedSource(t, store)

		doc, err := service.CreateImage(ctx, src.ID, intPtr(640), nil, []byte{0x89, 'P', 'N', 'G'})
		require.NoError(t, err)

		view, err := service.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		require.NotNil(t, view.Image)
		assert.Nil(t, view.Text)
		assert.Equal(t, 640, *view.Image.Width)
		assert.Nil(t, view.Image.Height)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, view.Image.Data)

		_, err = service.GetText(ctx, domain.TextRef{Target: domain.TargetDocument, ID: doc.ID})
		assert.ErrorIs(t, err, domain.ErrNotATextDocument)
	})
}

func TestDocumentService_CreateImage_NegativeDimension(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		src := seedSource(t, store)

		_, err := NewDocumentService(store).CreateImage(context.Background(), src.ID, intPtr(-1), nil, nil)

		assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	})
}

func TestDocumentService_Creators(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewDocumentService(store)
		ctx := context.Background()
		doc := seedText(t, store, "memo")
		a := seedEntity(t, store, domain.EntityPerson, "Ada")
		b := seedEntity(t, store, domain.EntityOrganization, "Acme")

		require.NoError(t, service.AttachCreator(ctx, doc.ID, a.ID))
		require.NoError(t, service.AttachCreator(ctx, doc.ID, a.ID))
		require.NoError(t, service.AttachCreator(ctx, doc.ID, b.ID))

		view, err := service.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{a.ID, b.ID}, view.CreatorIDs)

		require.NoError(t, service.DetachCreator(ctx, doc.ID, a.ID))
		require.NoError(t, service.DetachCreator(ctx, doc.ID, a.ID))

		view, err = service.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{b.ID}, view.CreatorIDs)

		assert.ErrorIs(t, service.AttachCreator(ctx, doc.ID, "missing"), domain.ErrUnknownEntity)
		assert.ErrorIs(t, service.AttachCreator(ctx, "missing", a.ID), domain.ErrUnknownDocument)
	})
}

func TestDocumentService_SetEmbeddingAndSummary(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewDocumentService(store)
		ctx := context.Background()
		doc := seedText(t, store, "memo")

		require.NoError(t, service.SetEmbedding(ctx, domain.TargetDocument, doc.ID, domain.EmbeddingDense, []byte{1, 2}))
		require.NoError(t, service.SetEmbedding(ctx, domain.TargetDocument, doc.ID, domain.EmbeddingSparse, []byte{3}))
		require.NoError(t, service.SetSummary(ctx, domain.TargetDocument, doc.ID, "short"))

		view, err := service.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2}, view.Dense)
		assert.Equal(t, []byte{3}, view.Sparse)
		require.NotNil(t, view.Summary)
		assert.Equal(t, "short", *view.Summary)
		assert.False(t, view.Modified.Before(view.Created))
	})
}

func TestDocumentService_SetEmbedding_Errors(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewDocumentService(store)
		ctx := context.Background()

		err := service.SetEmbedding(ctx, "planet", "x", domain.EmbeddingDense, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		err = service.SetEmbedding(ctx, domain.TargetDocument, "x", "hybrid", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		err = service.SetEmbedding(ctx, domain.TargetEntity, "missing", domain.EmbeddingDense, []byte{1})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		err = service.SetSummary(ctx, domain.TargetChunk, "x", "no")
		assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	})
}

func TestDocumentService_DeleteDocument_Cascades(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewDocumentService(store)
		chunks := NewChunkService(store, nil)
		ctx := context.Background()

		doc := seedText(t, store, "Hello world")
		creator := seedEntity(t, store, domain.EntityPerson, "Ada")
		require.NoError(t, service.AttachCreator(ctx, doc.ID, creator.ID))
		created, err := chunks.Rechunk(ctx, doc.ID, []domain.ChunkSpec{domain.Span("Hello", 0, 5)})
		require.NoError(t, err)

		require.NoError(t, service.DeleteDocument(ctx, doc.ID))

		_, err = service.GetDocument(ctx, doc.ID)
		assert.ErrorIs(t, err, domain.ErrUnknownDocument)
		_, err = chunks.GetChunk(ctx, created[0].ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		// The creator survives.
		_, err = NewEntityService(store).GetEntity(ctx, creator.ID)
		assert.NoError(t, err)

		assert.ErrorIs(t, service.DeleteDocument(ctx, doc.ID), domain.ErrNotFound)
	})
}

func TestDocumentService_ListDocuments_BySource(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewDocumentService(store)
		ctx := context.Background()

		a := seedText(t, store, "a")
		seedText(t, store, "b")

		docs, err := service.ListDocuments(ctx, a.SourceID)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, a.ID, docs[0].ID)

		all, err := service.ListDocuments(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestDocumentService_GetText(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewDocumentService(store)
		ctx := context.Background()
		doc := seedText(t, store, "héllo wörld")

		text, err := service.GetText(ctx, domain.TextRef{Target: domain.TargetDocument, ID: doc.ID})
		require.NoError(t, err)
		assert.Equal(t, "héllo wörld", text)

		created, err := NewChunkService(store, nil).Rechunk(ctx, doc.ID,
			[]domain.ChunkSpec{domain.Span("wörld", 6, 11)})
		require.NoError(t, err)

		text, err = service.GetText(ctx, domain.TextRef{Target: domain.TargetChunk, ID: created[0].ID})
		require.NoError(t, err)
		assert.Equal(t, "wörld", text)

		_, err = service.GetText(ctx, domain.TextRef{Target: domain.TargetEntity, ID: "x"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
