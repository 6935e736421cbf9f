package processor

import (
	"context"
	"math/rand"

	"memoria/internal/memconfig"
)

// HybridProcessor always scores importance heuristically, then routes
// summarization and fact extraction to the AI processor when importance
// clears a threshold or a uniform draw lands under a configured
// probability, falling back to the heuristic processor on AI failure when
// configured to do so.
type HybridProcessor struct {
	ai                  *AIProcessor
	heuristic           *HeuristicProcessor
	thresholdImportance int
	probability         float64
	fallback            bool
	metrics             *Metrics
}

// NewHybrid builds a HybridProcessor from an AI and a heuristic processor.
func NewHybrid(ai *AIProcessor, heuristic *HeuristicProcessor, cfg memconfig.HybridConfig) *HybridProcessor {
	return &HybridProcessor{
		ai:                  ai,
		heuristic:           heuristic,
		thresholdImportance: cfg.AIThresholdImportance,
		probability:         cfg.AIProbability,
		fallback:            cfg.FallbackToHeuristic,
		metrics:             NewMetrics(),
	}
}

func (h *HybridProcessor) Metrics() map[string]any {
	merged := h.metrics.ToMap()
	merged["ai"] = h.ai.Metrics()
	merged["heuristic"] = h.heuristic.Metrics()
	sum := func(key string) int {
		total := 0
		for _, n := range merged[key].(map[string]int) {
			total += n
		}
		return total
	}
	aiUsed, fallbacks := sum("hybrid_ai_used"), sum("hybrid_fallback")
	routed := aiUsed + sum("hybrid_heuristic_used") - fallbacks
	merged["ai_usage_rate"], merged["fallback_rate"] = 0.0, 0.0
	if routed > 0 {
		merged["ai_usage_rate"] = float64(aiUsed) / float64(routed)
	}
	if aiUsed > 0 {
		merged["fallback_rate"] = float64(fallbacks) / float64(aiUsed)
	}
	return merged
}

// shouldUseAI estimates importance heuristically from the combined content
// before deciding whether to route to AI.
func (h *HybridProcessor) shouldUseAI(msgs []Message) bool {
	importance, _ := h.heuristic.ScoreImportance(context.Background(), combinedContent(msgs))
	if importance >= h.thresholdImportance {
		return true
	}
	return rand.Float64() < h.probability
}

func (h *HybridProcessor) Summarize(ctx context.Context, msgs []Message) (string, bool, error) {
	const op = "summarize"
	if h.shouldUseAI(msgs) {
		h.metrics.increment(hybridAIUsed, op)
		summary, ok, err := h.ai.Summarize(ctx, msgs)
		if err == nil {
			return summary, ok, nil
		}
		if !h.fallback {
			return "", false, err
		}
		h.metrics.increment(hybridFallback, op)
	}
	h.metrics.increment(hybridHeuristicUsed, op)
	return h.heuristic.Summarize(ctx, msgs)
}

func (h *HybridProcessor) ExtractFacts(ctx context.Context, msgs []Message) ([]Fact, error) {
	const op = "extract_facts"
	if h.shouldUseAI(msgs) {
		h.metrics.increment(hybridAIUsed, op)
		facts, err := h.ai.ExtractFacts(ctx, msgs)
		if err == nil {
			return facts, nil
		}
		if !h.fallback {
			return nil, err
		}
		h.metrics.increment(hybridFallback, op)
	}
	h.metrics.increment(hybridHeuristicUsed, op)
	return h.heuristic.ExtractFacts(ctx, msgs)
}

// ScoreImportance always delegates to the heuristic processor: it is what
// shouldUseAI itself relies on to route the other two operations.
func (h *HybridProcessor) ScoreImportance(ctx context.Context, text string) (int, error) {
	h.metrics.increment(heuristicCalls, "score_importance")
	return h.heuristic.ScoreImportance(ctx, text)
}
