package memconfig

// ModelInfo describes a known embedding model identifier for introspection
// purposes. The engine never downloads or caches model weights itself —
// resolving an identifier to a running embedder is the host's job (see
// vectorstore.NewEmbedder) — but callers configuring a preset benefit from
// knowing the shipped identifiers and their trade-offs.
type ModelInfo struct {
	Name        string
	Dimension   int
	Description string
}

var modelCatalogue = map[string]ModelInfo{
	DefaultEmbeddingModel: {
		Name:        DefaultEmbeddingModel,
		Dimension:   384,
		Description: "Fast, lightweight general-purpose embeddings; the documented default.",
	},
	EnhancedEmbeddingModel: {
		Name:        EnhancedEmbeddingModel,
		Dimension:   1024,
		Description: "Higher-quality multilingual embeddings at increased latency and memory cost.",
	},
	CodeEmbeddingModel: {
		Name:        CodeEmbeddingModel,
		Dimension:   768,
		Description: "Code-optimized embeddings for source-heavy conversations.",
	},
}

// LookupModel returns the catalogue entry for a known embedding model
// identifier.
func LookupModel(name string) (ModelInfo, bool) {
	info, ok := modelCatalogue[name]
	return info, ok
}

// ListModels returns every catalogued embedding model.
func ListModels() []ModelInfo {
	out := make([]ModelInfo, 0, len(modelCatalogue))
	for _, info := range modelCatalogue {
		out = append(out, info)
	}
	return out
}
