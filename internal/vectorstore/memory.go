package vectorstore

import (
	"context"
	"math"
	"sync"
)

// memoryBackend is an in-process, non-persistent backend suitable for the
// offline preset, examples, and tests. It performs brute-force cosine
// similarity over everything inserted into a collection.
type memoryBackend struct {
	mu          sync.RWMutex
	collections map[string]map[string]memoryPoint
}

type memoryPoint struct {
	vector  []float32
	payload memoryPayload
}

// NewMemory builds a Store backed by an in-process map.
func NewMemory(embedder Embedder) Store {
	b := &memoryBackend{collections: make(map[string]map[string]memoryPoint)}
	return New(b, embedder)
}

func (m *memoryBackend) ensureCollection(_ context.Context, collection string, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[collection]; !ok {
		m.collections[collection] = make(map[string]memoryPoint)
	}
	return nil
}

func (m *memoryBackend) upsert(_ context.Context, collection, id string, vector []float32, rec memoryPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll, ok := m.collections[collection]
	if !ok {
		coll = make(map[string]memoryPoint)
		m.collections[collection] = coll
	}
	vec := make([]float32, len(vector))
	copy(vec, vector)
	coll[id] = memoryPoint{vector: vec, payload: rec}
	return nil
}

func (m *memoryBackend) search(_ context.Context, collection string, vector []float32, k int, importanceGTE *int) ([]backendHit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coll := m.collections[collection]
	hits := make([]backendHit, 0, len(coll))
	for id, pt := range coll {
		if importanceGTE != nil && pt.payload.importance < *importanceGTE {
			continue
		}
		hits = append(hits, backendHit{id: id, score: cosine(vector, pt.vector), payload: pt.payload})
	}
	sortByScore(hits)
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (m *memoryBackend) drop(_ context.Context, collection string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.collections[collection]
	delete(m.collections, collection)
	return ok, nil
}

func (m *memoryBackend) close() error { return nil }

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, magA, magB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
