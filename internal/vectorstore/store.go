package vectorstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ImportanceThreshold is the minimum importance score a memory must carry
// to be included in the first, importance-weighted retrieval pass.
const ImportanceThreshold = 8

// Record is a long term memory as returned from a search.
type Record struct {
	ID         string
	Summary    string
	Importance int
	CreatedAt  time.Time
	Score      float64
}

// Store is the vector store façade consumed by the memory manager. Each
// context (conversation) owns one logically isolated collection.
type Store interface {
	EnsureCollection(ctx context.Context, contextID string) error
	AddMemory(ctx context.Context, contextID, summary string, importance int) error
	SearchMemories(ctx context.Context, contextID, query string, nResults int) ([]Record, error)
	Reset(ctx context.Context, contextID string) (bool, error)
	Close() error
}

// backend is the minimal primitive a concrete engine (Qdrant, in-memory,
// ...) must provide; Store wraps a backend with the two-pass importance
// retrieval and embedding logic shared by every engine.
type backend interface {
	ensureCollection(ctx context.Context, collection string, dim int) error
	upsert(ctx context.Context, collection, id string, vector []float32, rec memoryPayload) error
	search(ctx context.Context, collection string, vector []float32, k int, importanceGTE *int) ([]backendHit, error)
	drop(ctx context.Context, collection string) (bool, error)
	close() error
}

// memoryPayload is the non-vector data stored alongside each embedding.
type memoryPayload struct {
	summary    string
	importance int
	createdAt  int64
}

type backendHit struct {
	id      string
	score   float64
	payload memoryPayload
}

type store struct {
	backend  backend
	embedder Embedder

	mu    sync.Mutex
	known map[string]struct{}
}

// New builds a Store from a backend and an embedder.
func New(b backend, embedder Embedder) Store {
	return &store{backend: b, embedder: embedder, known: make(map[string]struct{})}
}

func (s *store) EnsureCollection(ctx context.Context, contextID string) error {
	s.mu.Lock()
	_, ok := s.known[contextID]
	s.mu.Unlock()
	if ok {
		return nil
	}
	if err := s.backend.ensureCollection(ctx, contextID, s.embedder.Dimension()); err != nil {
		return fmt.Errorf("ensure collection %q: %w", contextID, err)
	}
	s.mu.Lock()
	s.known[contextID] = struct{}{}
	s.mu.Unlock()
	return nil
}

func (s *store) AddMemory(ctx context.Context, contextID, summary string, importance int) error {
	if err := s.EnsureCollection(ctx, contextID); err != nil {
		return err
	}
	vecs, err := s.embedder.EmbedBatch(ctx, []string{summary})
	if err != nil {
		return fmt.Errorf("embed memory: %w", err)
	}
	id := uuid.NewString()
	rec := memoryPayload{summary: summary, importance: importance, createdAt: time.Now().UTC().Unix()}
	if err := s.backend.upsert(ctx, contextID, id, vecs[0], rec); err != nil {
		return fmt.Errorf("upsert memory: %w", err)
	}
	return nil
}

// SearchMemories runs the two-pass retrieval: an importance-filtered pass
// first, then a general similarity pass, merged preserving first-occurrence
// order and capped at 2*nResults.
func (s *store) SearchMemories(ctx context.Context, contextID, query string, nResults int) ([]Record, error) {
	if nResults <= 0 {
		nResults = 3
	}
	s.mu.Lock()
	_, known := s.known[contextID]
	s.mu.Unlock()
	if !known {
		return nil, nil
	}
	vecs, err := s.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	vec := vecs[0]

	threshold := ImportanceThreshold
	important, err := s.backend.search(ctx, contextID, vec, nResults, &threshold)
	if err != nil {
		return nil, fmt.Errorf("importance-filtered search: %w", err)
	}
	general, err := s.backend.search(ctx, contextID, vec, nResults, nil)
	if err != nil {
		return nil, fmt.Errorf("general search: %w", err)
	}

	seen := make(map[string]struct{}, len(important)+len(general))
	out := make([]Record, 0, len(important)+len(general))
	for _, hit := range append(important, general...) {
		if _, dup := seen[hit.id]; dup {
			continue
		}
		seen[hit.id] = struct{}{}
		out = append(out, hitToRecord(hit))
	}
	if len(out) > 2*nResults {
		out = out[:2*nResults]
	}
	return out, nil
}

func hitToRecord(hit backendHit) Record {
	r := Record{ID: hit.id, Score: hit.score, Summary: hit.payload.summary, Importance: hit.payload.importance}
	if hit.payload.createdAt > 0 {
		r.CreatedAt = time.Unix(hit.payload.createdAt, 0).UTC()
	}
	return r
}

func (s *store) Reset(ctx context.Context, contextID string) (bool, error) {
	ok, err := s.backend.drop(ctx, contextID)
	if err != nil {
		return false, fmt.Errorf("reset collection %q: %w", contextID, err)
	}
	s.mu.Lock()
	delete(s.known, contextID)
	s.mu.Unlock()
	return ok, nil
}

func (s *store) Close() error { return s.backend.close() }

// sortByScore is used by backends whose native engine does not already
// return results ranked by similarity.
func sortByScore(hits []backendHit) {
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
}
