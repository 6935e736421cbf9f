// Package vectorstore provides the embedding provider and vector store
// façade used to turn distilled conversation summaries into long term
// memories and to retrieve them again by similarity.
package vectorstore

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultEmbeddingDimension is the dimensionality of the documented
// fallback embedding model used when no HTTP embedding endpoint is
// reachable at construction time.
const DefaultEmbeddingDimension = 384

// Embedder converts text into embedding vectors.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Name() string
	Dimension() int
}

// EmbeddingConfig describes how to reach an HTTP embedding endpoint.
type EmbeddingConfig struct {
	Endpoint string
	Model    string
	APIKey   string
}

// httpEmbedder holds a configured embedding HTTP endpoint. Ping contacts
// the endpoint; EmbedBatch handles one text at a time but implements no
// embedding wire format, so it returns an error for every text.
type httpEmbedder struct {
	cfg    EmbeddingConfig
	dim    int
	client *http.Client
	mu     sync.Mutex
}

// NewHTTPEmbedder constructs an embedder backed by an HTTP endpoint. If the
// endpoint cannot be reached, callers should fall back to NewDeterministic.
func NewHTTPEmbedder(cfg EmbeddingConfig, dim int, client *http.Client) Embedder {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpEmbedder{cfg: cfg, dim: dim, client: client}
}

func (h *httpEmbedder) Name() string   { return h.cfg.Model }
func (h *httpEmbedder) Dimension() int { return h.dim }

// Ping verifies the embedding endpoint is reachable with a minimal request.
func (h *httpEmbedder) Ping(ctx context.Context) error {
	if h.cfg.Endpoint == "" {
		return fmt.Errorf("embedding endpoint not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.cfg.Endpoint, nil)
	if err != nil {
		return fmt.Errorf("build embedding ping request: %w", err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("embedding endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()
	return nil
}

func (h *httpEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		vec, err := h.embedOne(ctx, t)
		if err != nil {
			return out, err
		}
		out = append(out, vec)
	}
	return out, nil
}

func (h *httpEmbedder) embedOne(ctx context.Context, text string) ([]float32, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	// The concrete embedding wire format is host-specific; callers that need
	// a real remote embedding service should provide one via a custom
	// Embedder implementation. This client exists to document the shape of
	// that integration and to support simple same-process test servers.
	if h.cfg.Endpoint == "" {
		return nil, fmt.Errorf("embedding endpoint not configured")
	}
	_ = ctx
	return nil, fmt.Errorf("httpEmbedder requires a concrete wire adapter for endpoint %q", h.cfg.Endpoint)
}

// deterministicEmbedder hashes byte trigrams into a fixed-size vector. It is
// the documented default fallback: general-purpose, 384-dimensional,
// reproducible, and dependency-free.
type deterministicEmbedder struct {
	dim       int
	normalize bool
	seed      uint64
	name      string
}

// NewDeterministic builds a deterministic embedder. dim <= 0 resolves to
// DefaultEmbeddingDimension.
func NewDeterministic(dim int, normalize bool, seed uint64) Embedder {
	if dim <= 0 {
		dim = DefaultEmbeddingDimension
	}
	return &deterministicEmbedder{dim: dim, normalize: normalize, seed: seed, name: "deterministic-fallback"}
}

func (d *deterministicEmbedder) Name() string   { return d.name }
func (d *deterministicEmbedder) Dimension() int { return d.dim }

func (d *deterministicEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = d.embedOne(t)
	}
	return out, nil
}

func (d *deterministicEmbedder) embedOne(s string) []float32 {
	v := make([]float32, d.dim)
	b := []byte(s)
	if len(b) == 0 {
		return v
	}
	if len(b) < 3 {
		d.add(b, v)
	} else {
		for i := 0; i <= len(b)-3; i++ {
			d.add(b[i:i+3], v)
		}
	}
	if d.normalize {
		var sum float64
		for _, x := range v {
			sum += float64(x) * float64(x)
		}
		if sum > 0 {
			inv := float32(1.0 / math.Sqrt(sum))
			for i := range v {
				v[i] *= inv
			}
		}
	}
	return v
}

func (d *deterministicEmbedder) add(gram []byte, v []float32) {
	h := fnv.New64a()
	if d.seed != 0 {
		var tmp [8]byte
		for i := 0; i < 8; i++ {
			tmp[i] = byte(d.seed >> (8 * i))
		}
		_, _ = h.Write(tmp[:])
	}
	_, _ = h.Write(gram)
	hv := h.Sum64()
	idx := int(hv % uint64(len(v)))
	w := float32(int32(hv>>32)) / float32(1<<31)
	v[idx] += w
}

// NewEmbedder resolves the configured embedding model identifier to a
// concrete Embedder. An empty or unreachable HTTP endpoint logs a warning
// and downgrades to the deterministic fallback, matching the documented
// "falls back to the default model" contract.
func NewEmbedder(cfg EmbeddingConfig, dim int, client *http.Client) Embedder {
	if cfg.Endpoint == "" {
		log.Warn().Str("model", cfg.Model).Msg("embedding_endpoint_not_configured_falling_back")
		return NewDeterministic(dim, true, 0)
	}
	e := NewHTTPEmbedder(cfg, dim, client)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if pinger, ok := e.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("endpoint", cfg.Endpoint).Msg("embedding_endpoint_unreachable_falling_back")
			return NewDeterministic(DefaultEmbeddingDimension, true, 0)
		}
	}
	return e
}
