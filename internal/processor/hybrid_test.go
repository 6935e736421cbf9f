package processor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoria/internal/memadapter"
	"memoria/internal/memconfig"
)

type stubAdapter struct {
	summary string
	facts   []memadapter.Fact
	score   int
	err     error
}

func (s *stubAdapter) SummarizeConversation(context.Context, []memadapter.Message) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	return s.summary, s.summary != "", nil
}

func (s *stubAdapter) ExtractFacts(context.Context, []memadapter.Message) ([]memadapter.Fact, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.facts, nil
}

func (s *stubAdapter) ScoreImportance(context.Context, string) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.score, nil
}

func TestHybridRoutesHighImportanceToAI(t *testing.T) {
	ai := NewAI(&stubAdapter{summary: "ai summary", score: 9}, AIOptions{})
	heuristic := NewHeuristic(memconfig.HeuristicConfig{ImportantWords: []string{"remember"}})
	hybrid := NewHybrid(ai, heuristic, memconfig.HybridConfig{AIThresholdImportance: 1, AIProbability: 0, FallbackToHeuristic: true})

	summary, ok, err := hybrid.Summarize(context.Background(), []Message{{Role: "user", Content: "please remember this forever"}})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ai summary", summary)
}

func TestHybridFallsBackToHeuristicOnAIFailure(t *testing.T) {
	ai := NewAI(&stubAdapter{err: assertErr{}}, AIOptions{})
	heuristic := NewHeuristic(memconfig.HeuristicConfig{SummaryMethod: "sample"})
	hybrid := NewHybrid(ai, heuristic, memconfig.HybridConfig{AIThresholdImportance: 1, AIProbability: 0, FallbackToHeuristic: true})

	summary, ok, err := hybrid.Summarize(context.Background(), []Message{{Role: "user", Content: "hello there, anything important?"}})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, summary, "[user]:")
}

func TestHybridScoreImportanceAlwaysHeuristic(t *testing.T) {
	ai := NewAI(&stubAdapter{score: 1}, AIOptions{})
	heuristic := NewHeuristic(memconfig.HeuristicConfig{})
	hybrid := NewHybrid(ai, heuristic, memconfig.HybridConfig{})

	score, err := hybrid.ScoreImportance(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, 5, score)
}

type assertErr struct{}

func (assertErr) Error() string { return "stub adapter error" }
