package memory

import "testing"

func TestEntryPersistIncludesMetadata(t *testing.T) {
	e := NewTextEntry("user", "hello")
	e.Metadata = map[string]any{"source": "test"}

	persisted := e.Persist()
	if persisted["metadata"] == nil {
		t.Fatalf("expected metadata to be persisted, got %v", persisted)
	}
	if persisted["content"] != "hello" {
		t.Fatalf("expected content %q, got %v", "hello", persisted["content"])
	}
}

func TestEntryLLMFormatDropsMetadata(t *testing.T) {
	e := NewTextEntry("assistant", "hi there")
	e.Metadata = map[string]any{"source": "test"}

	formatted := e.LLMFormat()
	if _, ok := formatted["metadata"]; ok {
		t.Fatalf("expected metadata to be dropped from LLM format, got %v", formatted)
	}
	if formatted["role"] != "assistant" {
		t.Fatalf("expected role %q, got %v", "assistant", formatted["role"])
	}
}

func TestEntryIsConversational(t *testing.T) {
	text := NewTextEntry("user", "hi")
	if !text.IsConversational() {
		t.Fatal("expected text user entry to be conversational")
	}

	empty := NewTextEntry("user", "")
	if empty.IsConversational() {
		t.Fatal("expected empty-content entry to not be conversational")
	}

	system := NewTextEntry("system", "you are a helpful assistant")
	if system.IsConversational() {
		t.Fatal("expected system entry to not be conversational")
	}
}

func TestRingEvictsOldestAtCapacity(t *testing.T) {
	r := newRing(2)
	if full := r.append(NewTextEntry("user", "one")); full {
		t.Fatal("ring should not report at-capacity before reaching capacity")
	}
	if full := r.append(NewTextEntry("user", "two")); !full {
		t.Fatal("ring should report at-capacity on the very entry that fills it")
	}
	if full := r.append(NewTextEntry("user", "three")); !full {
		t.Fatal("ring should still report at-capacity on subsequent appends")
	}

	snap := r.snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected ring to hold 2 entries, got %d", len(snap))
	}
	if *snap[0].Content != "two" || *snap[1].Content != "three" {
		t.Fatalf("expected oldest entry evicted, got %v", snap)
	}
}
