package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
)

func TestReferenceService_NilStore(t *testing.T) {
	service := NewReferenceService(nil)

	_, err := service.CreateSourceType(context.Background(), "file")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	_, err = service.ListSources(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestReferenceService_CreateSourceType(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewReferenceService(store)
		ctx := context.Background()

		st, err := service.CreateSourceType(ctx, "  email ")
		require.NoError(t, err)
		assert.Equal(t, "email", st.Slug)
		assert.NotEmpty(t, st.ID)

		got, err := service.GetSourceTypeBySlug(ctx, "email")
		require.NoError(t, err)
		assert.Equal(t, *st, *got)

		_, err = service.CreateSourceType(ctx, "email")
		assert.ErrorIs(t, err, domain.ErrDuplicateSlug)
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})
}

func TestReferenceService_CreateSourceType_EmptySlug(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		_, err := NewReferenceService(store).CreateSourceType(context.Background(), " ")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestReferenceService_CreateSource(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewReferenceService(store)
		ctx := context.Background()

		st, err := service.CreateSourceType(ctx, "file")
		require.NoError(t, err)

		src, err := service.CreateSource(ctx, st.ID)
		require.NoError(t, err)
		assert.Equal(t, st.ID, src.SourceTypeID)

		got, err := service.GetSource(ctx, src.ID)
		require.NoError(t, err)
		assert.Equal(t, *src, *got)
	})
}

func TestReferenceService_CreateSource_UnknownType(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		_, err := NewReferenceService(store).CreateSource(context.Background(), "missing")

		assert.ErrorIs(t, err, domain.ErrUnknownSourceType)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReferenceService_EnsureSource_ReusesType(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		service := NewReferenceService(store)
		ctx := context.Background()

		first, err := service.EnsureSource(ctx, "file")
		require.NoError(t, err)
		second, err := service.EnsureSource(ctx, "file")
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, first.SourceTypeID, second.SourceTypeID)

		types, err := service.ListSourceTypes(ctx)
		require.NoError(t, err)
		assert.Len(t, types, 1)

		sources, err := service.ListSources(ctx)
		require.NoError(t, err)
		assert.Len(t, sources, 2)
	})
}

func TestReferenceService_GetSourceType_NotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, store driven.Store) {
		_, err := NewReferenceService(store).GetSourceType(context.Background(), "missing")

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
