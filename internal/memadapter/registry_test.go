package memadapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopAdapter struct{}

func (noopAdapter) SummarizeConversation(context.Context, []Message) (string, bool, error) {
	return "", false, nil
}
func (noopAdapter) ExtractFacts(context.Context, []Message) ([]Fact, error) { return nil, nil }
func (noopAdapter) ScoreImportance(context.Context, string) (int, error)    { return 0, nil }

func TestRegistryListsBuiltinsByDefault(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"anthropic", "ollama", "openai"}, r.List())
}

func TestRegistryGetUnknownReturnsNotFoundError(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("does-not-exist", nil)
	require.Error(t, err)
	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "does-not-exist", nfe.Name)
}

func TestRegistryCustomAdapterShadowsBuiltin(t *testing.T) {
	r := NewRegistry()
	called := false
	r.Register("openai", func(map[string]any) (Adapter, error) {
		called = true
		return noopAdapter{}, nil
	})

	a, err := r.Get("openai", nil)
	require.NoError(t, err)
	assert.True(t, called)
	assert.NotNil(t, a)

	info, err := r.Describe("openai")
	require.NoError(t, err)
	assert.False(t, info.BuiltIn)
	assert.True(t, info.Loaded)
}

func TestRegistryClearCustomRestoresBuiltin(t *testing.T) {
	r := NewRegistry()
	r.Register("openai", func(map[string]any) (Adapter, error) { return noopAdapter{}, nil })
	r.ClearCustom()

	info, err := r.Describe("openai")
	require.NoError(t, err)
	assert.True(t, info.BuiltIn)
}

func TestRegistryCustomAdapterRegisteredAndResolved(t *testing.T) {
	r := NewRegistry()
	r.Register("my-adapter", func(map[string]any) (Adapter, error) { return noopAdapter{}, nil })

	a, err := r.Get("my-adapter", nil)
	require.NoError(t, err)
	assert.NotNil(t, a)
	assert.Contains(t, r.List(), "my-adapter")
}

func TestRegistryUnloadBuiltinResetsLoadedState(t *testing.T) {
	r := NewRegistry()

	info, err := r.Describe("ollama")
	require.NoError(t, err)
	assert.False(t, info.Loaded)

	_, err = r.Get("ollama", map[string]any{"base_url": "http://localhost:11434"})
	require.NoError(t, err)

	info, err = r.Describe("ollama")
	require.NoError(t, err)
	assert.True(t, info.Loaded)

	r.UnloadBuiltin("ollama")
	info, err = r.Describe("ollama")
	require.NoError(t, err)
	assert.False(t, info.Loaded)
}
