package memory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoria/internal/memconfig"
	"memoria/internal/vectorstore"
)

func testConfig(t *testing.T, stmMaxLength int) memconfig.Config {
	t.Helper()
	cfg := memconfig.Default()
	cfg.Mode = memconfig.ModeHeuristic
	cfg.STMMaxLength = stmMaxLength
	cfg.StoragePath = filepath.Join(t.TempDir(), "memory.json")
	cfg.Heuristic.ImportantWords = []string{"remember"}
	return cfg
}

func TestManagerAddMessageAndGetContext(t *testing.T) {
	cfg := testConfig(t, 10)
	m, err := NewManager("ctx-1", cfg)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, m.AddMessage(ctx, "thread-1", NewTextEntry("user", "hello there")))
	require.NoError(t, m.AddMessage(ctx, "thread-1", NewTextEntry("assistant", "hi, how can I help?")))

	entries, err := m.GetContext(ctx, "thread-1", "hello", false)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "user", entries[0]["role"])
	assert.Equal(t, "assistant", entries[1]["role"])
}

func TestManagerPersistsAcrossLoad(t *testing.T) {
	cfg := testConfig(t, 10)
	m, err := NewManager("ctx-1", cfg)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, m.AddMessage(ctx, "thread-1", NewTextEntry("user", "remember this detail")))

	m2, err := NewManager("ctx-1", cfg)
	require.NoError(t, err)
	require.NoError(t, m2.Load())

	entries, err := m2.GetContext(ctx, "thread-1", "anything", false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "remember this detail", entries[0]["content"])
}

func TestManagerDistillsLTMOnTheAppendThatFillsTheRing(t *testing.T) {
	cfg := testConfig(t, 1)
	store := vectorstore.NewMemory(vectorstore.NewDeterministic(32, true, 0))
	m, err := NewManager("ctx-1", cfg, WithVectorStore(store))
	require.NoError(t, err)

	ctx := context.Background()
	// Capacity 1: the very first append already fills the ring to capacity
	// and must itself trigger distillation, not just the next one.
	require.NoError(t, m.AddMessage(ctx, "thread-1", NewTextEntry("assistant", "please remember my favorite color is blue")))

	require.Eventually(t, func() bool {
		records, err := store.SearchMemories(ctx, "ctx-1", "favorite color", 5)
		return err == nil && len(records) > 0
	}, 2*time.Second, 10*time.Millisecond, "expected the append that filled the ring to trigger LTM distillation")
}

func TestManagerResetClearsSTMAndLTM(t *testing.T) {
	cfg := testConfig(t, 10)
	store := vectorstore.NewMemory(vectorstore.NewDeterministic(32, true, 0))
	m, err := NewManager("ctx-1", cfg, WithVectorStore(store))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.AddMemory(ctx, "ctx-1", "a long term fact", 9))
	require.NoError(t, m.AddMessage(ctx, "thread-1", NewTextEntry("user", "hello")))

	ok, err := m.Reset(ctx, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	entries, err := m.GetContext(ctx, "thread-1", "hello", false)
	require.NoError(t, err)
	assert.Empty(t, entries)

	records, err := store.SearchMemories(ctx, "ctx-1", "a long term fact", 5)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestManagerResetReturnsFalseWhenNothingCleared(t *testing.T) {
	cfg := testConfig(t, 10)
	m, err := NewManager("ctx-1", cfg)
	require.NoError(t, err)

	ctx := context.Background()
	threadID := "thread-1"
	ok, err := m.Reset(ctx, &threadID)
	require.NoError(t, err)
	assert.False(t, ok, "resetting an unknown thread should report nothing cleared")

	ok, err = m.Reset(ctx, nil)
	require.NoError(t, err)
	assert.False(t, ok, "resetting all threads with empty STM and no LTM collection should report nothing cleared")
}

func TestManagerResetSingleThreadClearsOnlyThatThread(t *testing.T) {
	cfg := testConfig(t, 10)
	m, err := NewManager("ctx-1", cfg)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, m.AddMessage(ctx, "thread-1", NewTextEntry("user", "hello")))
	require.NoError(t, m.AddMessage(ctx, "thread-2", NewTextEntry("user", "hi there")))

	threadID := "thread-1"
	ok, err := m.Reset(ctx, &threadID)
	require.NoError(t, err)
	assert.True(t, ok)

	entries, err := m.GetContext(ctx, "thread-1", "hello", false)
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = m.GetContext(ctx, "thread-2", "hi", false)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestManagerMetricsIncludeModeAndContextID(t *testing.T) {
	cfg := testConfig(t, 10)
	m, err := NewManager("ctx-42", cfg)
	require.NoError(t, err)

	metrics := m.Metrics()
	assert.Equal(t, "heuristic", metrics["mode"])
	assert.Equal(t, "ctx-42", metrics["context_id"])
}

func TestNewManagerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t, 10)
	cfg.Mode = memconfig.ModeAI
	cfg.AdapterName = ""
	_, err := NewManager("ctx-1", cfg)
	require.Error(t, err)
}
