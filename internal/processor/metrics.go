// Package processor implements the distillation strategies (heuristic, AI,
// hybrid, disabled) that turn short term memory into long term memory
// candidates: a gist summary plus a list of atomic facts, each scored for
// importance.
package processor

import (
	"sync"
	"time"
)

// Metrics tracks processing statistics across operations, safe for
// concurrent increment from goroutines racing on the same processor.
type Metrics struct {
	mu sync.Mutex

	AICalls             map[string]int
	AISuccess            map[string]int
	AIErrors             map[string]int
	HeuristicCalls       map[string]int
	HybridAIUsed         map[string]int
	HybridHeuristicUsed  map[string]int
	HybridFallback       map[string]int
	ProcessingTime       map[string]time.Duration
}

// NewMetrics returns a zeroed, ready-to-use Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		AICalls:            make(map[string]int),
		AISuccess:          make(map[string]int),
		AIErrors:           make(map[string]int),
		HeuristicCalls:     make(map[string]int),
		HybridAIUsed:       make(map[string]int),
		HybridHeuristicUsed: make(map[string]int),
		HybridFallback:     make(map[string]int),
		ProcessingTime:     make(map[string]time.Duration),
	}
}

type counter int

const (
	aiCalls counter = iota
	aiSuccess
	aiErrors
	heuristicCalls
	hybridAIUsed
	hybridHeuristicUsed
	hybridFallback
)

func (m *Metrics) increment(c counter, operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch c {
	case aiCalls:
		m.AICalls[operation]++
	case aiSuccess:
		m.AISuccess[operation]++
	case aiErrors:
		m.AIErrors[operation]++
	case heuristicCalls:
		m.HeuristicCalls[operation]++
	case hybridAIUsed:
		m.HybridAIUsed[operation]++
	case hybridHeuristicUsed:
		m.HybridHeuristicUsed[operation]++
	case hybridFallback:
		m.HybridFallback[operation]++
	}
}

func (m *Metrics) addTime(operation string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProcessingTime[operation] += d
}

// ToMap renders the metrics as a plain map suitable for JSON serialization
// or logging, mirroring the dataclass-to-dict projection of the original.
func (m *Metrics) ToMap() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := func(src map[string]int) map[string]int {
		out := make(map[string]int, len(src))
		for k, v := range src {
			out[k] = v
		}
		return out
	}
	times := make(map[string]float64, len(m.ProcessingTime))
	for k, v := range m.ProcessingTime {
		times[k] = v.Seconds()
	}
	return map[string]any{
		"ai_calls":              clone(m.AICalls),
		"ai_success":            clone(m.AISuccess),
		"ai_errors":             clone(m.AIErrors),
		"heuristic_calls":       clone(m.HeuristicCalls),
		"hybrid_ai_used":        clone(m.HybridAIUsed),
		"hybrid_heuristic_used": clone(m.HybridHeuristicUsed),
		"hybrid_fallback":       clone(m.HybridFallback),
		"processing_time":       times,
	}
}
