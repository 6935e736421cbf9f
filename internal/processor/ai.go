package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"memoria/internal/memadapter"
)

const (
	maxRetries     = 3
	defaultCacheTTL = 3600 * time.Second
)

// AIProcessor distills memory by delegating to an Adapter, with a result
// cache, exponential-backoff retry, a sliding-window rate limiter, and
// request batching for Summarize.
type AIProcessor struct {
	adapter Adapter
	cache   ResultCache
	cacheOn bool
	cacheTTL time.Duration
	limiter *rateLimiter
	batcher *batcher
	batchOn bool
	metrics *Metrics
}

// Adapter is memadapter.Adapter, the interface the AI processor drives.
type Adapter = memadapter.Adapter

// AIOptions configures an AIProcessor.
type AIOptions struct {
	Cache               ResultCache
	CacheEnabled        bool
	CacheTTL            time.Duration
	RateLimitPerMinute  int
	BatchingEnabled     bool
	BatchSize           int
	BatchTimeout        time.Duration
}

// NewAI builds an AIProcessor around adapter per opts.
func NewAI(adapter memadapter.Adapter, opts AIOptions) *AIProcessor {
	cache := opts.Cache
	if cache == nil {
		cache = NewInProcessCache()
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 5
	}
	batchTimeout := opts.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 2 * time.Second
	}
	return &AIProcessor{
		adapter:  adapter,
		cache:    cache,
		cacheOn:  opts.CacheEnabled,
		cacheTTL: ttl,
		limiter:  newRateLimiter(opts.RateLimitPerMinute),
		batcher:  newBatcher(adapter, batchSize, batchTimeout),
		batchOn:  opts.BatchingEnabled,
		metrics:  NewMetrics(),
	}
}

func (p *AIProcessor) Metrics() map[string]any { return p.metrics.ToMap() }

func (p *AIProcessor) Summarize(ctx context.Context, msgs []Message) (string, bool, error) {
	const op = "summarize"
	key := CacheKey(op, combinedContent(msgs))
	if p.cacheOn {
		if cached, hit := p.cache.Get(ctx, key); hit {
			return cached, cached != "", nil
		}
	}

	var summary string
	var ok bool
	err := p.withRetry(ctx, op, func() error {
		var innerErr error
		if p.batchOn {
			summary, ok, innerErr = p.batcher.summarize(ctx, msgs)
		} else {
			summary, ok, innerErr = p.adapter.SummarizeConversation(ctx, toAdapterMessages(msgs))
		}
		return innerErr
	})
	if err != nil {
		return "", false, err
	}
	if p.cacheOn && ok {
		p.cache.Put(ctx, key, summary, p.cacheTTL)
	}
	return summary, ok, nil
}

func (p *AIProcessor) ExtractFacts(ctx context.Context, msgs []Message) ([]Fact, error) {
	const op = "extract_facts"
	key := CacheKey(op, combinedContent(msgs))
	if p.cacheOn {
		if cached, hit := p.cache.Get(ctx, key); hit {
			var cachedFacts []Fact
			if err := json.Unmarshal([]byte(cached), &cachedFacts); err == nil {
				return cachedFacts, nil
			}
		}
	}
	var facts []Fact
	err := p.withRetry(ctx, op, func() error {
		adapterFacts, innerErr := p.adapter.ExtractFacts(ctx, toAdapterMessages(msgs))
		if innerErr != nil {
			return innerErr
		}
		facts = make([]Fact, len(adapterFacts))
		for i, f := range adapterFacts {
			facts[i] = Fact{Text: f.Text, Importance: f.Importance}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if p.cacheOn {
		if encoded, err := json.Marshal(facts); err == nil {
			p.cache.Put(ctx, key, string(encoded), p.cacheTTL)
		}
	}
	return facts, nil
}

func (p *AIProcessor) ScoreImportance(ctx context.Context, text string) (int, error) {
	const op = "score_importance"
	key := CacheKey(op, text)
	if p.cacheOn {
		if cached, hit := p.cache.Get(ctx, key); hit {
			var score int
			if _, err := fmt.Sscanf(cached, "%d", &score); err == nil {
				return score, nil
			}
		}
	}
	var score int
	err := p.withRetry(ctx, op, func() error {
		s, innerErr := p.adapter.ScoreImportance(ctx, text)
		score = s
		return innerErr
	})
	if err != nil {
		return 0, err
	}
	if p.cacheOn {
		p.cache.Put(ctx, key, fmt.Sprintf("%d", score), p.cacheTTL)
	}
	return score, nil
}

// withRetry applies the sliding-window rate limiter before each attempt and
// makes up to maxRetries attempts in total, sleeping with exponential
// backoff (2^attempt seconds, attempt counted from 0) after each error.
func (p *AIProcessor) withRetry(ctx context.Context, operation string, fn func() error) error {
	p.metrics.increment(aiCalls, operation)
	start := time.Now()
	defer func() { p.metrics.addTime(operation, time.Since(start)) }()

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := p.limiter.wait(ctx); err != nil {
			return err
		}
		if err := fn(); err != nil {
			lastErr = err
			backoff := time.Duration(math.Pow(2, float64(attempt))) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			continue
		}
		p.metrics.increment(aiSuccess, operation)
		return nil
	}
	p.metrics.increment(aiErrors, operation)
	return lastErr
}
