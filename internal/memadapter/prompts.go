package memadapter

import (
	"os"
	"strings"
)

const summarizeSystemPrompt = "Summarize the following conversation in one or two sentences, preserving names, decisions, and preferences. Reply with the summary only."

const extractFactsSystemPrompt = "Extract atomic, reusable facts stated or implied by the following conversation. Reply with one fact per line, no numbering."

const scoreImportanceSystemPrompt = "Rate how important the following text is to remember long-term, on a scale from 1 (trivial) to 10 (critical). Reply with the number only."

func renderTranscript(msgs []Message) string {
	var b strings.Builder
	for _, m := range msgs {
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func parseFactLines(raw string) []Fact {
	lines := strings.Split(raw, "\n")
	facts := make([]Fact, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*• \t"))
		if line == "" {
			continue
		}
		facts = append(facts, Fact{Text: line})
	}
	return facts
}

func envLookup(key string) string {
	return os.Getenv(key)
}
