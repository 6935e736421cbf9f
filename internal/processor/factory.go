package processor

import (
	"fmt"
	"time"

	"memoria/internal/memadapter"
	"memoria/internal/memconfig"
)

// Build constructs the Processor named by cfg.Mode. ai and hybrid modes
// resolve cfg.AdapterName through registry; a directly supplied adapter
// (e.g. from a host's legacy construction path) bypasses registry lookup.
func Build(cfg memconfig.Config, registry *memadapter.Registry, adapter memadapter.Adapter) (Processor, error) {
	switch cfg.Mode {
	case memconfig.ModeDisabled:
		return NewDisabled(), nil
	case memconfig.ModeHeuristic:
		return NewHeuristic(cfg.Heuristic), nil
	case memconfig.ModeAI:
		a, err := resolveAdapter(cfg, registry, adapter)
		if err != nil {
			return nil, err
		}
		return NewAI(a, aiOptions(cfg)), nil
	case memconfig.ModeHybrid:
		a, err := resolveAdapter(cfg, registry, adapter)
		if err != nil {
			return nil, err
		}
		ai := NewAI(a, aiOptions(cfg))
		heuristic := NewHeuristic(cfg.Heuristic)
		return NewHybrid(ai, heuristic, cfg.Hybrid), nil
	default:
		return nil, fmt.Errorf("unknown processor mode %q", cfg.Mode)
	}
}

func resolveAdapter(cfg memconfig.Config, registry *memadapter.Registry, adapter memadapter.Adapter) (memadapter.Adapter, error) {
	if adapter != nil {
		return adapter, nil
	}
	if registry == nil || cfg.AdapterName == "" {
		return nil, fmt.Errorf("mode %q requires an adapter (set adapter_name or inject one directly)", cfg.Mode)
	}
	return registry.Get(cfg.AdapterName, cfg.AdapterConfig)
}

func aiOptions(cfg memconfig.Config) AIOptions {
	opts := AIOptions{
		CacheEnabled:       cfg.CacheEnabled,
		CacheTTL:           time.Duration(cfg.CacheTTLSeconds) * time.Second,
		RateLimitPerMinute: cfg.RateLimitCallsPerMinute,
		BatchingEnabled:    cfg.BatchingEnabled,
		BatchSize:          cfg.BatchSize,
		BatchTimeout:       time.Duration(cfg.BatchTimeoutSeconds) * time.Second,
	}
	if cfg.RedisCacheAddr != "" {
		opts.Cache = NewRedisCache(cfg.RedisCacheAddr)
	}
	return opts
}
