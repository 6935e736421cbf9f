package memory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoria/internal/memadapter"
)

func TestNewManagerLegacyDefaultsToHeuristicMode(t *testing.T) {
	m, err := NewManagerLegacy("ctx-legacy", WithLegacyStoragePath(filepath.Join(t.TempDir(), "memory.json")))
	require.NoError(t, err)
	assert.Equal(t, "heuristic", m.Metrics()["mode"])
}

func TestNewManagerLegacySwitchesToHybridWithAdapter(t *testing.T) {
	m, err := NewManagerLegacy("ctx-legacy",
		WithLegacyStoragePath(filepath.Join(t.TempDir(), "memory.json")),
		WithLegacyMaxSTM(5),
		WithLegacyAdapter(legacyStubAdapter{}),
	)
	require.NoError(t, err)
	assert.Equal(t, "hybrid", m.Metrics()["mode"])
}

type legacyStubAdapter struct{}

func (legacyStubAdapter) SummarizeConversation(context.Context, []memadapter.Message) (string, bool, error) {
	return "stub summary", true, nil
}
func (legacyStubAdapter) ExtractFacts(context.Context, []memadapter.Message) ([]memadapter.Fact, error) {
	return nil, nil
}
func (legacyStubAdapter) ScoreImportance(context.Context, string) (int, error) { return 5, nil }
