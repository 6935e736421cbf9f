package memconfig

import "fmt"

// Preset name constants, matching the catalogue names used by FromPreset.
const (
	PresetChatbot              = "chatbot"
	PresetChatbotEnhanced      = "chatbot-enhanced"
	PresetCodingAgent          = "coding-agent"
	PresetCodingAgentEnhanced  = "coding-agent-enhanced"
	PresetAssistant            = "assistant"
	PresetOffline              = "offline"
)

var presetDescriptions = map[string]string{
	PresetChatbot:             "Hybrid mode with lightweight embeddings (fast)",
	PresetChatbotEnhanced:     "Hybrid mode with enhanced quality embeddings (better accuracy)",
	PresetCodingAgent:         "Heuristic mode with code-optimized embeddings (fast, offline)",
	PresetCodingAgentEnhanced: "Hybrid mode with code-optimized embeddings (AI + code focus)",
	PresetAssistant:           "AI mode with enhanced embeddings (high quality)",
	PresetOffline:             "Heuristic mode with lightweight embeddings (completely offline)",
}

func presetByName(name string) (Config, bool) {
	base := Default()
	switch name {
	case PresetChatbot:
		base.Mode = ModeHybrid
		base.AdapterName = "openai"
		base.AdapterConfig = map[string]any{"model": "gpt-4o-mini"}
		base.STMMaxLength = 100
		base.EmbeddingModel = DefaultEmbeddingModel
		base.Heuristic.ImportantWords = []string{"remember", "always", "never", "important", "prefer"}
		base.Heuristic.KeywordBonus = 3
		base.Heuristic.QuestionBonus = 2
		base.Heuristic.LengthBonusThreshold = 500
		base.Heuristic.LengthBonus = 2
		base.Heuristic.CodeBonus = 2
		base.Heuristic.URLBonus = 1
		base.Hybrid = HybridConfig{AIThresholdImportance: 8, AIProbability: 0.05, FallbackToHeuristic: true}
		return base, true
	case PresetChatbotEnhanced:
		base.Mode = ModeHybrid
		base.AdapterName = "openai"
		base.AdapterConfig = map[string]any{"model": "gpt-4o-mini"}
		base.STMMaxLength = 100
		base.EmbeddingModel = EnhancedEmbeddingModel
		base.Heuristic.ImportantWords = []string{"remember", "always", "never", "important", "prefer"}
		base.Heuristic.KeywordBonus = 3
		base.Heuristic.QuestionBonus = 2
		base.Heuristic.LengthBonusThreshold = 500
		base.Heuristic.LengthBonus = 2
		base.Heuristic.CodeBonus = 2
		base.Heuristic.URLBonus = 1
		base.Hybrid = HybridConfig{AIThresholdImportance: 8, AIProbability: 0.05, FallbackToHeuristic: true}
		return base, true
	case PresetCodingAgent:
		base.Mode = ModeHeuristic
		base.STMMaxLength = 200
		base.EmbeddingModel = CodeEmbeddingModel
		base.Heuristic.SummaryMethod = "sample"
		base.Heuristic.ExtractMethod = "patterns"
		base.Heuristic.PatternCatalog = []string{
			`def \w+\(`, `class \w+:`, `import \w+`, `file: [\w/\.]+`,
		}
		base.Heuristic.ImportantWords = []string{"important", "remember", "critical"}
		base.Heuristic.CodeBonus = 3
		base.Heuristic.LengthBonusThreshold = 300
		base.Heuristic.LengthBonus = 2
		base.Heuristic.KeywordBonus = 2
		base.Heuristic.QuestionBonus = 1
		base.Heuristic.URLBonus = 1
		return base, true
	case PresetCodingAgentEnhanced:
		base.Mode = ModeHybrid
		base.STMMaxLength = 200
		base.EmbeddingModel = CodeEmbeddingModel
		base.AdapterName = "openai"
		base.AdapterConfig = map[string]any{"model": "gpt-4o-mini"}
		base.Heuristic.SummaryMethod = "sample"
		base.Heuristic.ExtractMethod = "patterns"
		base.Heuristic.PatternCatalog = []string{
			`def \w+\(`, `class \w+:`, `import \w+`, `file: [\w/\.]+`,
		}
		base.Heuristic.ImportantWords = []string{"important", "remember", "critical", "bug", "fix"}
		base.Heuristic.CodeBonus = 3
		base.Heuristic.LengthBonusThreshold = 300
		base.Heuristic.LengthBonus = 2
		base.Heuristic.KeywordBonus = 3
		base.Heuristic.QuestionBonus = 2
		base.Heuristic.URLBonus = 1
		base.Hybrid = HybridConfig{AIThresholdImportance: 7, AIProbability: 0.1, FallbackToHeuristic: true}
		return base, true
	case PresetAssistant:
		base.Mode = ModeAI
		base.AdapterName = "openai"
		base.AdapterConfig = map[string]any{"model": "gpt-4o-mini"}
		base.STMMaxLength = 150
		base.EmbeddingModel = EnhancedEmbeddingModel
		base.Heuristic.ImportantWords = []string{"task", "todo", "remind", "schedule", "deadline"}
		base.Heuristic.KeywordBonus = 3
		base.Heuristic.LengthBonusThreshold = 500
		base.Heuristic.LengthBonus = 2
		base.Heuristic.QuestionBonus = 1
		base.Heuristic.CodeBonus = 2
		base.Heuristic.URLBonus = 1
		return base, true
	case PresetOffline:
		base.Mode = ModeHeuristic
		base.LTMEnabled = true
		base.Heuristic.SummaryMethod = "keyphrase"
		base.Heuristic.ExtractMethod = "keywords"
		base.VectorStoreDSN = ""
		return base, true
	default:
		return Config{}, false
	}
}

// FromPreset resolves a named preset and applies any overrides in order.
func FromPreset(name string, overrides ...Override) (Config, error) {
	cfg, ok := presetByName(name)
	if !ok {
		return Config{}, fmt.Errorf("unknown preset %q (available: %v)", name, PresetNames())
	}
	for _, o := range overrides {
		o(&cfg)
	}
	return cfg, nil
}

// PresetNames lists the catalogue in a stable order.
func PresetNames() []string {
	return []string{
		PresetChatbot,
		PresetChatbotEnhanced,
		PresetCodingAgent,
		PresetCodingAgentEnhanced,
		PresetAssistant,
		PresetOffline,
	}
}

// DescribePreset returns the human-readable description of a preset name.
func DescribePreset(name string) (string, bool) {
	d, ok := presetDescriptions[name]
	return d, ok
}
