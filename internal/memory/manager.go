package memory

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"memoria/internal/memadapter"
	"memoria/internal/memconfig"
	"memoria/internal/observability"
	"memoria/internal/processor"
	"memoria/internal/vectorstore"
)

// Manager owns one conversation context's short term memory, drives its
// persistence, and triggers long term memory distillation when a thread's
// short term ring fills up.
type Manager struct {
	contextID string
	cfg       memconfig.Config

	mu    sync.Mutex
	stm   map[string]*ring

	store     vectorstore.Store
	processor processor.Processor
	logger    zerolog.Logger
}

// Option customizes Manager construction beyond what Config expresses.
type Option func(*managerOptions)

type managerOptions struct {
	adapter  memadapter.Adapter
	registry *memadapter.Registry
	store    vectorstore.Store
	logger   *zerolog.Logger
}

// WithAdapter injects an already-constructed adapter, bypassing registry
// lookup. Used by hosts migrating from a legacy direct-adapter wiring.
func WithAdapter(a memadapter.Adapter) Option {
	return func(o *managerOptions) { o.adapter = a }
}

// WithRegistry supplies the adapter registry used to resolve cfg.AdapterName
// for ai/hybrid modes when no adapter is injected directly.
func WithRegistry(r *memadapter.Registry) Option {
	return func(o *managerOptions) { o.registry = r }
}

// WithVectorStore injects a pre-built vector store, bypassing the
// config-driven default (Qdrant if a DSN is set, in-memory otherwise).
func WithVectorStore(s vectorstore.Store) Option {
	return func(o *managerOptions) { o.store = s }
}

// WithLogger overrides the package-global zerolog logger for this manager.
func WithLogger(l zerolog.Logger) Option {
	return func(o *managerOptions) { o.logger = &l }
}

// NewManager builds a Manager for contextID from cfg, applying any options.
func NewManager(contextID string, cfg memconfig.Config, opts ...Option) (*Manager, error) {
	var resolved managerOptions
	for _, o := range opts {
		o(&resolved)
	}
	if resolved.adapter != nil && cfg.AdapterName == "" {
		cfg.AdapterName = "injected"
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid memory configuration: %s", strings.Join(errs, "; "))
	}

	proc, err := processor.Build(cfg, resolved.registry, resolved.adapter)
	if err != nil {
		return nil, fmt.Errorf("build processor: %w", err)
	}

	var store vectorstore.Store
	if resolved.store != nil {
		store = resolved.store
	} else if cfg.LTMEnabled {
		embedder := vectorstore.NewEmbedder(vectorstore.EmbeddingConfig{Model: cfg.EmbeddingModel}, 0, nil)
		if cfg.VectorStoreDSN != "" {
			store, err = vectorstore.NewQdrant(cfg.VectorStoreDSN, "cosine", embedder)
			if err != nil {
				return nil, fmt.Errorf("build qdrant store: %w", err)
			}
		} else {
			store = vectorstore.NewMemory(embedder)
		}
	}

	logger := log.Logger
	if resolved.logger != nil {
		logger = *resolved.logger
	}
	logger = logger.With().Str("context_id", contextID).Logger()

	m := &Manager{
		contextID: contextID,
		cfg:       cfg,
		stm:       make(map[string]*ring),
		store:     store,
		processor: proc,
		logger:    logger,
	}
	return m, nil
}

func (m *Manager) statePath() string {
	return filepath.Join(filepath.Dir(m.cfg.StoragePath), "contexts", m.contextID, filepath.Base(m.cfg.StoragePath))
}

// Load reads persisted short term memory from disk, replacing in-memory
// state. A missing or malformed file is not an error: it leaves STM empty.
func (m *Manager) Load() error {
	threads, ok := loadState(m.statePath())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stm = make(map[string]*ring)
	if !ok {
		return nil
	}
	for threadID, entries := range threads {
		r := newRing(m.cfg.STMMaxLength)
		for _, e := range entries {
			r.append(e)
		}
		m.stm[threadID] = r
	}
	return nil
}

// Save persists the current short term memory to disk.
func (m *Manager) Save(ctx context.Context) error {
	m.mu.Lock()
	snapshot := make(map[string][]Entry, len(m.stm))
	for threadID, r := range m.stm {
		snapshot[threadID] = r.snapshot()
	}
	m.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- saveState(m.statePath(), snapshot) }()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// AddMessage appends entry to threadID's short term memory, persists, and —
// if the ring has now reached capacity — kicks off long term distillation on
// a detached goroutine with a snapshot captured at this moment.
func (m *Manager) AddMessage(ctx context.Context, threadID string, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	r, ok := m.stm[threadID]
	if !ok {
		r = newRing(m.cfg.STMMaxLength)
		m.stm[threadID] = r
	}
	atCapacity := r.append(entry)
	snapshot := r.snapshot()
	m.mu.Unlock()

	if err := m.Save(ctx); err != nil {
		observability.LoggerWithTrace(ctx).Warn().Err(err).Msg("memory_save_failed")
	}

	if atCapacity {
		go m.processSTMForLTM(context.Background(), threadID, snapshot)
	}
	return nil
}

// GetContext assembles the context handed to a model: relevant long term
// memories (as synthetic system messages) followed by short term memory in
// order.
func (m *Manager) GetContext(ctx context.Context, threadID, currentPrompt string, includeLTM bool) ([]map[string]any, error) {
	var out []map[string]any
	if includeLTM && m.store != nil && m.cfg.LTMEnabled {
		records, err := m.store.SearchMemories(ctx, m.contextID, currentPrompt, m.cfg.LTMSearchResults)
		if err != nil {
			observability.LoggerWithTrace(ctx).Warn().Err(err).Msg("ltm_search_failed")
		}
		for _, r := range records {
			out = append(out, map[string]any{
				"role":    "system",
				"content": "Relevant Long Term Memory: " + r.Summary,
			})
		}
	}
	m.mu.Lock()
	r, ok := m.stm[threadID]
	var entries []Entry
	if ok {
		entries = r.snapshot()
	}
	m.mu.Unlock()
	for _, e := range entries {
		out = append(out, e.LLMFormat())
	}
	return out, nil
}

// Reset clears memory for this context: a single thread's short term memory
// when threadID is non-nil, or every thread's short term memory plus the
// long term store when threadID is nil. Returns true iff anything was
// actually cleared.
func (m *Manager) Reset(ctx context.Context, threadID *string) (bool, error) {
	m.mu.Lock()
	var stmExisted bool
	if threadID == nil {
		stmExisted = len(m.stm) > 0
		m.stm = make(map[string]*ring)
	} else if r, ok := m.stm[*threadID]; ok && r.len() > 0 {
		stmExisted = true
		delete(m.stm, *threadID)
	}
	m.mu.Unlock()

	if stmExisted {
		if err := m.Save(ctx); err != nil {
			return false, err
		}
	}

	var ltmExisted bool
	if threadID == nil && m.store != nil {
		var err error
		ltmExisted, err = m.store.Reset(ctx, m.contextID)
		if err != nil {
			return false, err
		}
	}

	return stmExisted || ltmExisted, nil
}

// Metrics returns the underlying processor's metrics plus manager-level
// identifying fields.
func (m *Manager) Metrics() map[string]any {
	metrics := m.processor.Metrics()
	metrics["mode"] = string(m.cfg.Mode)
	metrics["context_id"] = m.contextID
	return metrics
}
