package processor

import (
	"context"

	"memoria/internal/memadapter"
)

// Message is one distilled-over turn; kept independent of the memory
// package's richer Entry so processors don't need to import it.
type Message struct {
	Role    string
	Content string
}

// Fact is one atomic, reusable piece of extracted information. Type,
// EntityType, Frequency, PatternType, and Context are populated by the
// heuristic processor's structured extraction methods (ner/keywords/
// patterns); AI-adapter-sourced facts leave them zero-valued and only set
// Text/Importance.
type Fact struct {
	Type        string // "entity" | "keyword" | "pattern_match"
	Text        string
	Context     string
	EntityType  string
	Frequency   int
	PatternType string
	Importance  int
}

// Processor distills short term memory into long term memory candidates.
type Processor interface {
	Summarize(ctx context.Context, msgs []Message) (summary string, ok bool, err error)
	ExtractFacts(ctx context.Context, msgs []Message) ([]Fact, error)
	ScoreImportance(ctx context.Context, text string) (int, error)
	Metrics() map[string]any
}

func toAdapterMessages(msgs []Message) []memadapter.Message {
	out := make([]memadapter.Message, len(msgs))
	for i, m := range msgs {
		out[i] = memadapter.Message{Role: m.Role, Content: m.Content}
	}
	return out
}

// DisabledProcessor performs no distillation; it exists so a Manager never
// has to nil-check its processor.
type DisabledProcessor struct{}

func NewDisabled() *DisabledProcessor { return &DisabledProcessor{} }

func (DisabledProcessor) Summarize(context.Context, []Message) (string, bool, error) {
	return "", false, nil
}

func (DisabledProcessor) ExtractFacts(context.Context, []Message) ([]Fact, error) {
	return nil, nil
}

func (DisabledProcessor) ScoreImportance(context.Context, string) (int, error) {
	return 5, nil
}

func (DisabledProcessor) Metrics() map[string]any {
	return map[string]any{"mode": "disabled"}
}
