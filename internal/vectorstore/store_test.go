package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicEmbedderIsStable(t *testing.T) {
	e := NewDeterministic(32, true, 0)
	a, err := e.EmbedBatch(context.Background(), []string{"remember my name is Alice"})
	require.NoError(t, err)
	b, err := e.EmbedBatch(context.Background(), []string{"remember my name is Alice"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, DefaultEmbeddingDimension, NewDeterministic(0, false, 0).Dimension())
}

func TestMemoryStoreAddAndSearch(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(NewDeterministic(32, true, 0))

	require.NoError(t, store.AddMemory(ctx, "ctx-1", "the user prefers dark mode", 9))
	require.NoError(t, store.AddMemory(ctx, "ctx-1", "the weather today is mild", 2))

	results, err := store.SearchMemories(ctx, "ctx-1", "dark mode preference", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	var sawImportant bool
	for _, r := range results {
		if r.Importance >= ImportanceThreshold {
			sawImportant = true
		}
	}
	assert.True(t, sawImportant)
}

func TestMemoryStoreSearchEmptyCollection(t *testing.T) {
	store := NewMemory(NewDeterministic(32, true, 0))
	results, err := store.SearchMemories(context.Background(), "unknown", "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryStoreReset(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(NewDeterministic(32, true, 0))
	require.NoError(t, store.AddMemory(ctx, "ctx-1", "a fact", 5))

	ok, err := store.Reset(ctx, "ctx-1")
	require.NoError(t, err)
	assert.True(t, ok)

	results, err := store.SearchMemories(ctx, "ctx-1", "a fact", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryStoreDedupesAcrossPasses(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(NewDeterministic(16, true, 0))
	require.NoError(t, store.AddMemory(ctx, "ctx-1", "only entry in the collection", 9))

	results, err := store.SearchMemories(ctx, "ctx-1", "only entry in the collection", 5)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
