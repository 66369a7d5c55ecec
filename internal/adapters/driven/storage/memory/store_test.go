package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
)

func TestStore_UpdateCommits(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, func(tx driven.Tx) error {
		return tx.InsertSourceType(ctx, domain.SourceType{ID: "st", Slug: "file"})
	}))

	require.NoError(t, store.View(ctx, func(tx driven.Tx) error {
		st, err := tx.GetSourceTypeBySlug(ctx, "file")
		require.NoError(t, err)
		assert.Equal(t, "st", st.ID)
		return nil
	}))
}

func TestStore_UpdateRollsBackOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Update(ctx, func(tx driven.Tx) error {
		if err := tx.InsertSourceType(ctx, domain.SourceType{ID: "st", Slug: "file"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, store.View(ctx, func(tx driven.Tx) error {
		types, err := tx.ListSourceTypes(ctx)
		require.NoError(t, err)
		assert.Empty(t, types)
		return nil
	}))
}

func TestStore_UpdateRollsBackOnPanic(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = store.Update(ctx, func(tx driven.Tx) error {
			_ = tx.InsertSourceType(ctx, domain.SourceType{ID: "st", Slug: "file"})
			panic("boom")
		})
	})

	// The lock was released and nothing was published.
	require.NoError(t, store.View(ctx, func(tx driven.Tx) error {
		_, err := tx.GetSourceType(ctx, "st")
		assert.ErrorIs(t, err, domain.ErrUnknownSourceType)
		return nil
	}))
}

func TestStore_ViewRejectsWrites(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	err := store.View(ctx, func(tx driven.Tx) error {
		return tx.InsertSourceType(ctx, domain.SourceType{ID: "st", Slug: "file"})
	})
	assert.ErrorIs(t, err, errReadOnly)
}

func TestStore_CancelledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.Update(ctx, func(driven.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.ErrorIs(t, store.View(ctx, func(driven.Tx) error { return nil }), context.Canceled)
}

func TestStore_ReturnedRecordsAreCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Update(ctx, func(tx driven.Tx) error {
		e := &domain.Entity{ID: "p1", Kind: domain.EntityPerson, Name: "Ada"}
		e.Touch(now)
		e.Dense = []byte{1, 2}
		return tx.InsertEntity(ctx, e)
	}))

	require.NoError(t, store.View(ctx, func(tx driven.Tx) error {
		e, err := tx.GetEntity(ctx, "p1")
		require.NoError(t, err)
		e.Dense[0] = 9
		e.Name = "changed"
		return nil
	}))

	require.NoError(t, store.View(ctx, func(tx driven.Tx) error {
		e, err := tx.GetEntity(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "Ada", e.Name)
		assert.Equal(t, []byte{1, 2}, e.Dense)
		return nil
	}))
}

func TestStore_NotFoundErrors(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func(tx driven.Tx) error
		want error
	}{
		{"source", func(tx driven.Tx) error { _, err := tx.GetSource(ctx, "x"); return err }, domain.ErrUnknownSource},
		{"entity", func(tx driven.Tx) error { _, err := tx.GetEntity(ctx, "x"); return err }, domain.ErrUnknownEntity},
		{"document", func(tx driven.Tx) error { _, err := tx.GetDocument(ctx, "x"); return err }, domain.ErrUnknownDocument},
		{"chunk", func(tx driven.Tx) error { _, err := tx.GetChunk(ctx, "x"); return err }, domain.ErrUnknownChunk},
		{"document set", func(tx driven.Tx) error { _, err := tx.GetDocumentSet(ctx, "x"); return err }, domain.ErrUnknownDocumentSet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.View(ctx, tt.fn)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestStore_DuplicateSlugAndEdge(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, func(tx driven.Tx) error {
		if err := tx.InsertSourceType(ctx, domain.SourceType{ID: "st", Slug: "file"}); err != nil {
			return err
		}
		if err := tx.InsertSource(ctx, domain.Source{ID: "src", SourceTypeID: "st"}); err != nil {
			return err
		}
		e := &domain.Entity{ID: "p1", Kind: domain.EntityPerson, Name: "Ada"}
		if err := tx.InsertEntity(ctx, e); err != nil {
			return err
		}
		return tx.InsertLink(ctx, domain.Link{Kind: domain.LinkEntitySource, Left: "p1", Right: "src"})
	}))

	err := store.Update(ctx, func(tx driven.Tx) error {
		return tx.InsertSourceType(ctx, domain.SourceType{ID: "st2", Slug: "file"})
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateSlug)

	err = store.Update(ctx, func(tx driven.Tx) error {
		return tx.InsertLink(ctx, domain.Link{Kind: domain.LinkEntitySource, Left: "p1", Right: "src"})
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEdge)
}
