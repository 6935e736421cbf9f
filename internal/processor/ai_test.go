package processor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoria/internal/memadapter"
)

// countingAdapter fails the first failUntil calls of each operation, then
// succeeds, recording how many times each operation was invoked.
type countingAdapter struct {
	failUntil    int32
	summarizeN   int32
	extractN     int32
	scoreN       int32
	summaryText  string
	facts        []memadapter.Fact
	score        int
}

func (c *countingAdapter) SummarizeConversation(context.Context, []memadapter.Message) (string, bool, error) {
	n := atomic.AddInt32(&c.summarizeN, 1)
	if n <= c.failUntil {
		return "", false, errors.New("transient failure")
	}
	return c.summaryText, c.summaryText != "", nil
}

func (c *countingAdapter) ExtractFacts(context.Context, []memadapter.Message) ([]memadapter.Fact, error) {
	n := atomic.AddInt32(&c.extractN, 1)
	if n <= c.failUntil {
		return nil, errors.New("transient failure")
	}
	return c.facts, nil
}

func (c *countingAdapter) ScoreImportance(context.Context, string) (int, error) {
	n := atomic.AddInt32(&c.scoreN, 1)
	if n <= c.failUntil {
		return 0, errors.New("transient failure")
	}
	return c.score, nil
}

func TestAISummarizeCachesResult(t *testing.T) {
	adapter := &countingAdapter{summaryText: "a concise summary"}
	p := NewAI(adapter, AIOptions{CacheEnabled: true})

	msgs := []Message{{Role: "user", Content: "remember my favorite color is blue"}}
	summary, ok, err := p.Summarize(context.Background(), msgs)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a concise summary", summary)

	summary2, ok2, err := p.Summarize(context.Background(), msgs)
	require.NoError(t, err)
	assert.True(t, ok2)
	assert.Equal(t, summary, summary2)
	assert.EqualValues(t, 1, adapter.summarizeN, "second call should be served from cache, not hit the adapter again")
}

func TestAIRetriesOnTransientFailure(t *testing.T) {
	adapter := &countingAdapter{failUntil: 1, summaryText: "recovered summary"}
	p := NewAI(adapter, AIOptions{})

	summary, ok, err := p.Summarize(context.Background(), []Message{{Role: "user", Content: "hello"}})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "recovered summary", summary)
	assert.EqualValues(t, 2, adapter.summarizeN)
}

func TestAIGivesUpAfterMaxRetries(t *testing.T) {
	adapter := &countingAdapter{failUntil: 100}
	p := NewAI(adapter, AIOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _, err := p.Summarize(ctx, []Message{{Role: "user", Content: "hello"}})
	require.Error(t, err)
	assert.EqualValues(t, maxRetries, adapter.summarizeN)
}

func TestAIScoreImportanceCachesNumericResult(t *testing.T) {
	adapter := &countingAdapter{score: 7}
	p := NewAI(adapter, AIOptions{CacheEnabled: true})

	score, err := p.ScoreImportance(context.Background(), "is this important?")
	require.NoError(t, err)
	assert.Equal(t, 7, score)

	score2, err := p.ScoreImportance(context.Background(), "is this important?")
	require.NoError(t, err)
	assert.Equal(t, 7, score2)
	assert.EqualValues(t, 1, adapter.scoreN)
}

func TestAIBatchingCombinesConcurrentSummarizeCalls(t *testing.T) {
	adapter := &countingAdapter{summaryText: "batched summary"}
	p := NewAI(adapter, AIOptions{BatchingEnabled: true, BatchSize: 2, BatchTimeout: 50 * time.Millisecond})

	results := make(chan string, 2)
	for i := 0; i < 2; i++ {
		go func(n int) {
			summary, _, err := p.Summarize(context.Background(), []Message{{Role: "user", Content: "distinct content"}})
			require.NoError(t, err)
			results <- summary
		}(i)
	}

	first := <-results
	second := <-results
	assert.Equal(t, "batched summary", first)
	assert.Equal(t, "batched summary", second)
	assert.EqualValues(t, 1, adapter.summarizeN, "two concurrent requests should collapse into a single adapter call")
}
