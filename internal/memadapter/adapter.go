// Package memadapter defines the LLM provider abstraction consumed by the
// AI and hybrid processors, together with a registry for looking adapters
// up by name.
package memadapter

import "context"

// Message is one turn of conversation handed to an adapter operation.
type Message struct {
	Role    string
	Content string
}

// Fact is one atomic piece of extracted information.
type Fact struct {
	Text       string
	Importance int
}

// Adapter wraps a single LLM provider behind the three operations the
// distillation processors need. Implementations must be safe for
// concurrent use.
type Adapter interface {
	// SummarizeConversation condenses msgs into a short gist. The bool
	// return reports whether a usable summary was produced.
	SummarizeConversation(ctx context.Context, msgs []Message) (summary string, ok bool, err error)
	// ExtractFacts pulls atomic, reusable facts out of msgs.
	ExtractFacts(ctx context.Context, msgs []Message) ([]Fact, error)
	// ScoreImportance rates text on a 1-10 scale.
	ScoreImportance(ctx context.Context, text string) (int, error)
}

// Constructor builds an Adapter from a free-form configuration map
// (provider credentials, model name, ...).
type Constructor func(cfg map[string]any) (Adapter, error)
