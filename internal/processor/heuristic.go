package processor

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"memoria/internal/memconfig"
)

var entityRe = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,3})\b|(@\w+)|(#\w+)`)

var defaultNamedPatterns = []struct {
	re   *regexp.Regexp
	kind string
}{
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "email"},
	{regexp.MustCompile(`https?://[^\s]+`), "url"},
	{regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`), "date"},
	{regexp.MustCompile(`\b\d{1,2}:\d{2}(?::\d{2})?\s*(?:AM|PM|am|pm)?\b`), "time"},
	{regexp.MustCompile(`[$€£]\s?\d+(?:[.,]\d+)?`), "currency"},
	{regexp.MustCompile(`\b\d{3}-\d{3}-\d{4}\b`), "phone"},
}

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "been": {}, "to": {}, "of": {}, "in": {}, "on": {},
	"for": {}, "with": {}, "at": {}, "by": {}, "from": {}, "this": {}, "that": {}, "it": {},
	"i": {}, "you": {}, "we": {}, "they": {}, "he": {}, "she": {}, "as": {}, "do": {}, "does": {},
}

// HeuristicProcessor distills memory using rule-based methods, with no
// external model or network dependency.
type HeuristicProcessor struct {
	cfg       memconfig.HeuristicConfig
	keywordRe *regexp.Regexp
	metrics   *Metrics
}

// NewHeuristic validates and normalizes the config, downgrading unknown
// method names the same way the original falls back when an optional
// dependency is unavailable: silently, with a logged warning, never an
// error.
func NewHeuristic(cfg memconfig.HeuristicConfig) *HeuristicProcessor {
	switch cfg.SummaryMethod {
	case "sample", "concat", "keyphrase":
	default:
		log.Warn().Str("method", cfg.SummaryMethod).Msg("heuristic_summary_method_downgraded_to_sample")
		cfg.SummaryMethod = "sample"
	}
	switch cfg.ExtractMethod {
	case "keywords", "patterns", "entities":
	default:
		log.Warn().Str("method", cfg.ExtractMethod).Msg("heuristic_extract_method_downgraded_to_patterns")
		cfg.ExtractMethod = "patterns"
	}
	if cfg.TopKeywords <= 0 {
		cfg.TopKeywords = 10
	}
	if cfg.MinKeywordLength <= 0 {
		cfg.MinKeywordLength = 3
	}
	if cfg.SummaryMaxLength <= 0 {
		cfg.SummaryMaxLength = 500
	}
	if cfg.BaseScore <= 0 {
		cfg.BaseScore = 5
	}
	if cfg.LengthBonusThreshold <= 0 {
		cfg.LengthBonusThreshold = 500
	}
	if cfg.LengthBonus <= 0 {
		cfg.LengthBonus = 2
	}
	if cfg.KeywordBonus <= 0 {
		cfg.KeywordBonus = 2
	}
	if cfg.QuestionBonus <= 0 {
		cfg.QuestionBonus = 1
	}
	if cfg.CodeBonus <= 0 {
		cfg.CodeBonus = 2
	}
	if cfg.URLBonus <= 0 {
		cfg.URLBonus = 1
	}
	keywordRe := regexp.MustCompile(fmt.Sprintf(`[A-Za-z]{%d,}`, cfg.MinKeywordLength))
	return &HeuristicProcessor{cfg: cfg, keywordRe: keywordRe, metrics: NewMetrics()}
}

func (h *HeuristicProcessor) Metrics() map[string]any { return h.metrics.ToMap() }

func (h *HeuristicProcessor) Summarize(_ context.Context, msgs []Message) (string, bool, error) {
	start := time.Now()
	h.metrics.increment(heuristicCalls, "summarize")
	defer func() { h.metrics.addTime("summarize", time.Since(start)) }()

	var summary string
	switch h.cfg.SummaryMethod {
	case "keyphrase":
		summary = h.keyphraseSummary(msgs)
	case "concat":
		summary = h.concatSummary(msgs)
	default:
		summary = h.sampleSummary(msgs)
	}
	return summary, summary != "", nil
}

func (h *HeuristicProcessor) sampleSummary(msgs []Message) string {
	valid := validMessages(msgs)
	if len(valid) == 0 {
		return ""
	}
	sampled := []Message{valid[0]}
	if len(valid) > 1 {
		longest := valid[0]
		for _, m := range valid[1:] {
			if len(m.Content) > len(longest.Content) {
				longest = m
			}
		}
		if longest != sampled[0] {
			sampled = append(sampled, longest)
		}
	}
	if len(valid) > 2 && valid[len(valid)-1] != sampled[0] && valid[len(valid)-1] != sampled[len(sampled)-1] {
		sampled = append(sampled, valid[len(valid)-1])
	}
	parts := make([]string, len(sampled))
	for i, m := range sampled {
		parts[i] = "[" + m.Role + "]: " + m.Content
	}
	return truncate(strings.Join(parts, " | "), h.cfg.SummaryMaxLength)
}

func (h *HeuristicProcessor) concatSummary(msgs []Message) string {
	valid := validMessages(msgs)
	if len(valid) == 0 {
		return ""
	}
	parts := make([]string, len(valid))
	for i, m := range valid {
		parts[i] = "[" + m.Role + "]: " + m.Content
	}
	return truncate(strings.Join(parts, " "), h.cfg.SummaryMaxLength)
}

// keyphraseSummary is a dependency-free stand-in for the keybert method:
// frequency-ranked word n-grams (1-3 grams) with a diversity filter that
// skips a candidate sharing its first token with an already-picked,
// higher-ranked phrase.
func (h *HeuristicProcessor) keyphraseSummary(msgs []Message) string {
	combined := combinedContent(msgs)
	if strings.TrimSpace(combined) == "" {
		return ""
	}
	phrases := topKeyphrases(combined, h.cfg.TopKeywords, h.keywordRe)
	if len(phrases) == 0 {
		return h.sampleSummary(msgs)
	}
	return truncate("Key topics: "+strings.Join(phrases, ", "), h.cfg.SummaryMaxLength)
}

func (h *HeuristicProcessor) ExtractFacts(_ context.Context, msgs []Message) ([]Fact, error) {
	start := time.Now()
	h.metrics.increment(heuristicCalls, "extract_facts")
	defer func() { h.metrics.addTime("extract_facts", time.Since(start)) }()

	switch h.cfg.ExtractMethod {
	case "entities":
		return h.entityExtraction(msgs), nil
	case "keywords":
		return h.keywordExtraction(msgs), nil
	default:
		return h.patternExtraction(msgs), nil
	}
}

// entityContextWindow is the number of characters of surrounding message
// content kept alongside each extracted entity, matching the original's NER
// fact shape.
const entityContextWindow = 200

// entityExtraction is a dependency-free stand-in for the spaCy NER method:
// capitalized multi-word runs, @handles, and #tags, classified into the
// original's entity_type taxonomy.
func (h *HeuristicProcessor) entityExtraction(msgs []Message) []Fact {
	var facts []Fact
	for _, m := range msgs {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		for _, match := range entityRe.FindAllStringSubmatch(m.Content, -1) {
			var text, entityType string
			switch {
			case match[1] != "":
				text, entityType = match[1], "PROPN"
			case match[2] != "":
				text, entityType = match[2], "MENTION"
			case match[3] != "":
				text, entityType = match[3], "HASHTAG"
			default:
				continue
			}
			facts = append(facts, Fact{
				Type:       "entity",
				Text:       text,
				EntityType: entityType,
				Context:    headRunes(m.Content, entityContextWindow),
			})
		}
	}
	return facts
}

// keywordExtraction is a dependency-free stand-in for the RAKE/YAKE method:
// single-word frequency counting over the combined message content.
func (h *HeuristicProcessor) keywordExtraction(msgs []Message) []Fact {
	combined := combinedContent(msgs)
	if strings.TrimSpace(combined) == "" {
		return nil
	}
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, w := range h.keywordRe.FindAllString(strings.ToLower(combined), -1) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, seen := counts[w]; !seen {
			order = append(order, w)
		}
		counts[w]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return order[i] < order[j]
	})
	if len(order) > h.cfg.TopKeywords {
		order = order[:h.cfg.TopKeywords]
	}
	facts := make([]Fact, len(order))
	for i, w := range order {
		facts[i] = Fact{Type: "keyword", Text: w, Frequency: counts[w]}
	}
	return facts
}

// patternContextWindow is the number of characters kept on either side of a
// pattern match, matching the original's pattern_match fact shape.
const patternContextWindow = 50

// patternExtraction matches either the configured custom regex catalog
// (tagged pattern_type "custom", same as the original) or, absent one, the
// built-in named patterns (email/url/date/time/currency/phone).
func (h *HeuristicProcessor) patternExtraction(msgs []Message) []Fact {
	type namedPattern struct {
		re          *regexp.Regexp
		patternType string
	}
	var patterns []namedPattern
	for _, raw := range h.cfg.PatternCatalog {
		if re, err := regexp.Compile(raw); err == nil {
			patterns = append(patterns, namedPattern{re: re, patternType: "custom"})
		}
	}
	if patterns == nil {
		for _, p := range defaultNamedPatterns {
			patterns = append(patterns, namedPattern{re: p.re, patternType: p.kind})
		}
	}

	var facts []Fact
	for _, m := range msgs {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		for _, p := range patterns {
			for _, loc := range p.re.FindAllStringIndex(m.Content, -1) {
				start, end := loc[0], loc[1]
				ctxStart := start - patternContextWindow
				if ctxStart < 0 {
					ctxStart = 0
				}
				ctxEnd := end + patternContextWindow
				if ctxEnd > len(m.Content) {
					ctxEnd = len(m.Content)
				}
				facts = append(facts, Fact{
					Type:        "pattern_match",
					Text:        m.Content[start:end],
					PatternType: p.patternType,
					Context:     m.Content[ctxStart:ctxEnd],
				})
			}
		}
	}
	return facts
}

// ScoreImportance implements the additive rule table: a base score plus
// bonuses for length, a keyword match (applied once), a question mark,
// code fences/keywords, and URLs, clamped to [1, 10].
func (h *HeuristicProcessor) ScoreImportance(_ context.Context, text string) (int, error) {
	start := time.Now()
	h.metrics.increment(heuristicCalls, "score_importance")
	defer func() { h.metrics.addTime("score_importance", time.Since(start)) }()

	score := h.cfg.BaseScore
	if len(text) > h.cfg.LengthBonusThreshold {
		score += h.cfg.LengthBonus
	}
	lower := strings.ToLower(text)
	for _, kw := range h.cfg.ImportantWords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			score += h.cfg.KeywordBonus
			break
		}
	}
	if strings.Contains(text, "?") {
		score += h.cfg.QuestionBonus
	}
	if strings.Contains(text, "```") || strings.Contains(text, "def ") ||
		strings.Contains(text, "function ") || strings.Contains(text, "class ") {
		score += h.cfg.CodeBonus
	}
	if strings.Contains(text, "http://") || strings.Contains(text, "https://") {
		score += h.cfg.URLBonus
	}
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}
	return score, nil
}

func validMessages(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if strings.TrimSpace(m.Content) != "" {
			out = append(out, m)
		}
	}
	return out
}

func combinedContent(msgs []Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.Content != "" {
			parts = append(parts, m.Content)
		}
	}
	return strings.Join(parts, " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// headRunes returns the first n runes of s, or all of s if it's shorter.
func headRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// topKeyphrases ranks 1-3 word n-grams by frequency and returns the top n,
// skipping a candidate whose first token matches an already-picked
// higher-ranked phrase.
func topKeyphrases(text string, n int, wordRe *regexp.Regexp) []string {
	words := make([]string, 0)
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return nil
	}
	counts := make(map[string]int)
	order := make([]string, 0)
	addGram := func(gram string) {
		if _, ok := counts[gram]; !ok {
			order = append(order, gram)
		}
		counts[gram]++
	}
	for i := range words {
		addGram(words[i])
		if i+1 < len(words) {
			addGram(words[i] + " " + words[i+1])
		}
		if i+2 < len(words) {
			addGram(words[i] + " " + words[i+1] + " " + words[i+2])
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })

	picked := make([]string, 0, n)
	usedFirstTokens := make(map[string]struct{})
	for _, gram := range order {
		first := strings.Fields(gram)[0]
		if _, used := usedFirstTokens[first]; used {
			continue
		}
		picked = append(picked, gram)
		usedFirstTokens[first] = struct{}{}
		if len(picked) >= n {
			break
		}
	}
	return picked
}
