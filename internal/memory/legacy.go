package memory

import (
	"memoria/internal/memadapter"
	"memoria/internal/memconfig"
)

// LegacyOption mirrors the original library's backward-compatibility
// constructor parameters, for hosts migrating from a direct
// storage-path/max-length/adapter call site instead of a Config.
type LegacyOption func(*legacyOptions)

type legacyOptions struct {
	storagePath string
	maxSTM      int
	adapter     memadapter.Adapter
}

// WithLegacyStoragePath sets the storage path the way the original
// constructor's storage_path parameter did.
func WithLegacyStoragePath(path string) LegacyOption {
	return func(o *legacyOptions) { o.storagePath = path }
}

// WithLegacyMaxSTM sets the short term memory ring size the way the
// original constructor's max_stm_size parameter did.
func WithLegacyMaxSTM(n int) LegacyOption {
	return func(o *legacyOptions) { o.maxSTM = n }
}

// WithLegacyAdapter injects an adapter directly, the way the original
// constructor's llm_adapter parameter did. Supplying one switches the
// synthesized config's mode to hybrid; omitting it leaves heuristic mode,
// matching the original's "mode inferred from whether an adapter was
// given" behavior.
func WithLegacyAdapter(a memadapter.Adapter) LegacyOption {
	return func(o *legacyOptions) { o.adapter = a }
}

// NewManagerLegacy synthesizes a Config from legacy constructor parameters
// and builds a Manager from it, for hosts that have not yet migrated to
// constructing a Config directly.
func NewManagerLegacy(contextID string, opts ...LegacyOption) (*Manager, error) {
	var resolved legacyOptions
	for _, o := range opts {
		o(&resolved)
	}

	cfg := memconfig.Default()
	if resolved.storagePath != "" {
		cfg.StoragePath = resolved.storagePath
	}
	if resolved.maxSTM > 0 {
		cfg.STMMaxLength = resolved.maxSTM
	}

	var managerOpts []Option
	if resolved.adapter != nil {
		cfg.Mode = memconfig.ModeHybrid
		cfg.AdapterName = "legacy-injected"
		managerOpts = append(managerOpts, WithAdapter(resolved.adapter))
	}
	return NewManager(contextID, cfg, managerOpts...)
}
