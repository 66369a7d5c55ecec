package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("key1", "original"))
	require.NoError(t, store.Set("key1", "updated"))

	val, ok := store.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, "updated", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestNewConfigStoreFrom_CopiesValues(t *testing.T) {
	seed := map[string]any{"chunker.size": 500}
	store := NewConfigStoreFrom(seed)

	seed["chunker.size"] = 1
	require.NoError(t, store.Set("chunker.overlap", 10))

	assert.Equal(t, 500, store.GetInt("chunker.size"))
	assert.NotContains(t, seed, "chunker.overlap")
	assert.Equal(t, []string{"chunker.overlap", "chunker.size"}, store.Keys())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStoreFrom(map[string]any{
		"s":     "hello",
		"i":     42,
		"i64":   int64(7),
		"f":     3.9,
		"b":     true,
		"list":  []string{"a", "b"},
		"mixed": []any{"a", 1, "b"},
	})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("s"), "hello"},
		{"string wrong type", store.GetString("i"), ""},
		{"int", store.GetInt("i"), 42},
		{"int64", store.GetInt("i64"), 7},
		{"float truncates", store.GetInt("f"), 3},
		{"int wrong type", store.GetInt("s"), 0},
		{"bool", store.GetBool("b"), true},
		{"bool missing", store.GetBool("missing"), false},
		{"string slice", store.GetStringSlice("list"), []string{"a", "b"}},
		{"mixed slice keeps strings", store.GetStringSlice("mixed"), []string{"a", "b"}},
		{"slice wrong type", store.GetStringSlice("s"), []string(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_NoOps(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Set("key", i)
			_ = store.GetInt("key")
			_ = store.Keys()
		}()
	}
	wg.Wait()

	_, ok := store.Get("key")
	assert.True(t, ok)
}
