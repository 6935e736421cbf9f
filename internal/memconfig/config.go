// Package memconfig holds the engine's configuration type, validation, file
// loading, and the named preset catalogue.
package memconfig

import "fmt"

// Mode selects which processor distills short term memory into long term
// memory.
type Mode string

const (
	ModeDisabled Mode = "disabled"
	ModeHeuristic Mode = "heuristic"
	ModeAI        Mode = "ai"
	ModeHybrid    Mode = "hybrid"
)

const (
	DefaultSTMMaxLength       = 150
	DefaultEmbeddingModel     = "all-MiniLM-L6-v2"
	EnhancedEmbeddingModel    = "bge-m3"
	CodeEmbeddingModel        = "jina-embeddings-v2-base-code"
	DefaultStoragePath        = "./memory_data/memory.json"
	DefaultVectorStorePath    = "./memory_data/vectors"
	LTMImportanceThreshold    = 8
	DefaultLTMSearchResults   = 3
	DefaultLogLevel           = "info"
)

// HeuristicConfig configures the rule-based processor: which method each
// operation uses, and the additive importance-scoring rule table (the
// original's importance_rules dict, broken out into named fields so every
// value is independently tunable per preset).
type HeuristicConfig struct {
	SummaryMethod    string   `yaml:"summary_method" json:"summary_method"`       // sample|concat|keyphrase
	SummaryMaxLength int      `yaml:"summary_max_length" json:"summary_max_length"`
	ExtractMethod    string   `yaml:"extract_method" json:"extract_method"`       // keywords|patterns|entities
	PatternCatalog   []string `yaml:"pattern_catalog" json:"pattern_catalog"`     // named regex patterns to apply
	ImportantWords   []string `yaml:"important_words" json:"important_words"`    // scoring keyword bonus list

	TopKeywords      int `yaml:"top_keywords" json:"top_keywords"`             // phrases/keywords kept by keyphrase summary + keyword extraction
	MinKeywordLength int `yaml:"min_keyword_length" json:"min_keyword_length"` // shortest word considered a keyword candidate

	// Importance scoring rule table.
	BaseScore            int `yaml:"base_score" json:"base_score"`
	LengthBonusThreshold int `yaml:"length_bonus_threshold" json:"length_bonus_threshold"`
	LengthBonus          int `yaml:"length_bonus" json:"length_bonus"`
	KeywordBonus         int `yaml:"keyword_bonus" json:"keyword_bonus"`
	QuestionBonus        int `yaml:"question_bonus" json:"question_bonus"`
	CodeBonus            int `yaml:"code_bonus" json:"code_bonus"`
	URLBonus             int `yaml:"url_bonus" json:"url_bonus"`
}

// HybridConfig configures AI/heuristic routing.
type HybridConfig struct {
	AIThresholdImportance int     `yaml:"ai_threshold_importance" json:"ai_threshold_importance"`
	AIProbability         float64 `yaml:"ai_probability" json:"ai_probability"`
	FallbackToHeuristic   bool    `yaml:"fallback_to_heuristic" json:"fallback_to_heuristic"`
}

// Config is the engine's root configuration document.
type Config struct {
	Mode Mode `yaml:"mode" json:"mode"`

	STMMaxLength int    `yaml:"stm_max_length" json:"stm_max_length"`
	StoragePath  string `yaml:"storage_path" json:"storage_path"`

	LTMEnabled       bool   `yaml:"ltm_enabled" json:"ltm_enabled"`
	VectorStorePath  string `yaml:"vector_store_path" json:"vector_store_path"`
	VectorStoreDSN   string `yaml:"vector_store_dsn" json:"vector_store_dsn"`
	EmbeddingModel   string `yaml:"embedding_model" json:"embedding_model"`
	LTMSearchResults int    `yaml:"ltm_search_results" json:"ltm_search_results"`

	AdapterName   string         `yaml:"adapter_name" json:"adapter_name"`
	AdapterConfig map[string]any `yaml:"adapter_config" json:"adapter_config"`

	Heuristic HeuristicConfig `yaml:"heuristic" json:"heuristic"`
	Hybrid    HybridConfig    `yaml:"hybrid" json:"hybrid"`

	RateLimitCallsPerMinute int  `yaml:"rate_limit_calls_per_minute" json:"rate_limit_calls_per_minute"`
	CacheEnabled            bool `yaml:"cache_enabled" json:"cache_enabled"`
	CacheTTLSeconds         int  `yaml:"cache_ttl_seconds" json:"cache_ttl_seconds"`
	BatchingEnabled         bool `yaml:"batching_enabled" json:"batching_enabled"`
	BatchSize               int  `yaml:"batch_size" json:"batch_size"`
	BatchTimeoutSeconds     int  `yaml:"batch_timeout_seconds" json:"batch_timeout_seconds"`
	MetricsEnabled          bool `yaml:"metrics_enabled" json:"metrics_enabled"`

	// RedisCacheAddr, when non-empty, switches the AI processor's result
	// cache from the in-process default to a shared Redis-backed cache.
	RedisCacheAddr string `yaml:"redis_cache_addr" json:"redis_cache_addr"`

	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Default returns a Config with every field at its documented default.
func Default() Config {
	return Config{
		Mode:             ModeHeuristic,
		STMMaxLength:     DefaultSTMMaxLength,
		StoragePath:      DefaultStoragePath,
		LTMEnabled:       true,
		VectorStorePath:  DefaultVectorStorePath,
		EmbeddingModel:   DefaultEmbeddingModel,
		LTMSearchResults: DefaultLTMSearchResults,
		Heuristic: HeuristicConfig{
			SummaryMethod:        "sample",
			SummaryMaxLength:     500,
			ExtractMethod:        "patterns",
			TopKeywords:          10,
			MinKeywordLength:     3,
			BaseScore:            5,
			LengthBonusThreshold: 500,
			LengthBonus:          2,
			KeywordBonus:         2,
			QuestionBonus:        1,
			CodeBonus:            2,
			URLBonus:             1,
		},
		Hybrid: HybridConfig{
			AIThresholdImportance: 7,
			AIProbability:         0.3,
			FallbackToHeuristic:   true,
		},
		RateLimitCallsPerMinute: 60,
		CacheEnabled:            true,
		CacheTTLSeconds:         3600,
		BatchingEnabled:         true,
		BatchSize:               5,
		BatchTimeoutSeconds:     2,
		MetricsEnabled:          true,
		LogLevel:                DefaultLogLevel,
	}
}

// Validate collects every violation rather than stopping at the first.
func (c Config) Validate() []string {
	var errs []string
	switch c.Mode {
	case ModeDisabled, ModeHeuristic, ModeAI, ModeHybrid:
	default:
		errs = append(errs, fmt.Sprintf("mode %q is not one of disabled|heuristic|ai|hybrid", c.Mode))
	}
	if c.STMMaxLength <= 0 {
		errs = append(errs, "stm_max_length must be positive")
	}
	if c.StoragePath == "" {
		errs = append(errs, "storage_path must not be empty")
	}
	if c.LTMEnabled && c.VectorStorePath == "" && c.VectorStoreDSN == "" {
		errs = append(errs, "ltm_enabled requires vector_store_path or vector_store_dsn")
	}
	if c.LTMSearchResults < 0 {
		errs = append(errs, "ltm_search_results must not be negative")
	}
	if (c.Mode == ModeAI || c.Mode == ModeHybrid) && c.AdapterName == "" {
		errs = append(errs, "ai and hybrid modes require adapter_name")
	}
	if c.Hybrid.AIProbability < 0 || c.Hybrid.AIProbability > 1 {
		errs = append(errs, "hybrid.ai_probability must be within [0, 1]")
	}
	if c.RateLimitCallsPerMinute < 0 {
		errs = append(errs, "rate_limit_calls_per_minute must not be negative")
	}
	if c.BatchSize <= 0 {
		errs = append(errs, "batch_size must be positive")
	}
	if c.BatchTimeoutSeconds <= 0 {
		errs = append(errs, "batch_timeout_seconds must be positive")
	}
	if c.CacheTTLSeconds < 0 {
		errs = append(errs, "cache_ttl_seconds must not be negative")
	}
	return errs
}
