// Package memory implements the short term memory ring, its on-disk
// persistence, and the manager that ties STM, long term memory, and the
// distillation processors together.
package memory

import "encoding/json"

// Entry is one conversational turn held in short term memory.
type Entry struct {
	Role       string            `json:"role"`
	Content    *string           `json:"content,omitempty"`
	ToolCalls  []json.RawMessage `json:"tool_calls,omitempty"`
	Name       *string           `json:"name,omitempty"`
	ToolCallID *string           `json:"tool_call_id,omitempty"`
	Metadata   map[string]any    `json:"metadata,omitempty"`
}

// Persist returns the projection written to disk: every non-nil field.
func (e Entry) Persist() map[string]any {
	out := map[string]any{"role": e.Role}
	if e.Content != nil {
		out["content"] = *e.Content
	}
	if len(e.ToolCalls) > 0 {
		out["tool_calls"] = e.ToolCalls
	}
	if e.Name != nil {
		out["name"] = *e.Name
	}
	if e.ToolCallID != nil {
		out["tool_call_id"] = *e.ToolCallID
	}
	if len(e.Metadata) > 0 {
		out["metadata"] = e.Metadata
	}
	return out
}

// LLMFormat returns the projection sent to a model: metadata is dropped.
func (e Entry) LLMFormat() map[string]any {
	out := map[string]any{"role": e.Role}
	if e.Content != nil {
		out["content"] = *e.Content
	}
	if len(e.ToolCalls) > 0 {
		out["tool_calls"] = e.ToolCalls
	}
	if e.Name != nil {
		out["name"] = *e.Name
	}
	if e.ToolCallID != nil {
		out["tool_call_id"] = *e.ToolCallID
	}
	return out
}

// IsConversational reports whether the entry is a plain user/assistant turn
// with non-empty textual content — the subset considered when distilling
// short term memory into a long term summary.
func (e Entry) IsConversational() bool {
	if e.Role != "user" && e.Role != "assistant" {
		return false
	}
	return e.Content != nil && *e.Content != ""
}

// NewTextEntry is a convenience constructor for a plain text turn.
func NewTextEntry(role, content string) Entry {
	c := content
	return Entry{Role: role, Content: &c}
}
