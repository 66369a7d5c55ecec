package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raggamuffin/raggamuffin/internal/adapters/driven/storage/memory"
	"github.com/raggamuffin/raggamuffin/internal/adapters/driven/storage/sqlite"
	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
)

// forEachStore runs fn against a fresh memory store and a fresh SQLite store.
func forEachStore(t *testing.T, fn func(t *testing.T, store driven.Store)) {
	t.Helper()

	t.Run("memory", func(t *testing.T) {
		fn(t, memory.NewStore())
	})
	t.Run("sqlite", func(t *testing.T) {
		store, err := sqlite.NewStore(t.TempDir())
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		fn(t, store)
	})
}

func seedSource(t *testing.T, store driven.Store) *domain.Source {
	t.Helper()
	src, err := NewReferenceService(store).EnsureSource(context.Background(), "file")
	require.NoError(t, err)
	return src
}

func seedText(t *testing.T, store driven.Store, text string) *domain.Document {
	t.Helper()
	src := seedSource(t, store)
	doc, err := NewDocumentService(store).CreateTextDocument(context.Background(), src.ID, text, nil)
	require.NoError(t, err)
	return doc
}

func seedEntity(t *testing.T, store driven.Store, kind domain.EntityKind, name string) *domain.Entity {
	t.Helper()
	e, err := NewEntityService(store).CreateEntity(context.Background(), kind, name)
	require.NoError(t, err)
	return e
}
