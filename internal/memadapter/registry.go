package memadapter

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// NotFoundError is returned by Get when no adapter, built-in or custom, is
// registered under the requested name.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("adapter %q not found; available: %v", e.Name, e.Available)
}

// Info describes a registered adapter for introspection.
type Info struct {
	Name        string
	BuiltIn     bool
	Loaded      bool
	Available   bool
	Description string
}

// Registry resolves adapter names to constructed Adapter instances. Unlike
// a package-level singleton, a Registry is held by the application that
// owns it, so two hosts in the same process never fight over global state.
type Registry struct {
	mu       sync.RWMutex
	custom   map[string]Constructor
	builtins map[string]builtinEntry
	loaded   map[string]struct{}
}

type builtinEntry struct {
	ctor        Constructor
	description string
}

// NewRegistry builds a Registry with the shipped built-in adapters
// (openai, anthropic, ollama) pre-declared but not yet constructed.
func NewRegistry() *Registry {
	r := &Registry{
		custom:   make(map[string]Constructor),
		builtins: make(map[string]builtinEntry),
		loaded:   make(map[string]struct{}),
	}
	r.builtins["openai"] = builtinEntry{ctor: newOpenAIAdapter, description: "OpenAI chat-completion backed adapter"}
	r.builtins["anthropic"] = builtinEntry{ctor: newAnthropicAdapter, description: "Anthropic messages-API backed adapter"}
	r.builtins["ollama"] = builtinEntry{ctor: newOllamaAdapter, description: "Local Ollama HTTP chat adapter"}
	return r
}

// Register adds or replaces a custom adapter constructor under name. If
// name collides with a built-in, the custom one takes precedence and a
// warning is logged rather than an error returned.
func (r *Registry) Register(name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, builtin := r.builtins[name]; builtin {
		log.Warn().Str("adapter", name).Msg("custom_adapter_shadows_builtin")
	}
	r.custom[name] = ctor
}

// Get resolves name to a constructed Adapter, preferring a custom
// registration over a built-in of the same name.
func (r *Registry) Get(name string, cfg map[string]any) (Adapter, error) {
	r.mu.RLock()
	ctor, isCustom := r.custom[name]
	entry, isBuiltin := r.builtins[name]
	r.mu.RUnlock()

	switch {
	case isCustom:
		return ctor(cfg)
	case isBuiltin:
		a, err := entry.ctor(cfg)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.loaded[name] = struct{}{}
		r.mu.Unlock()
		return a, nil
	default:
		return nil, &NotFoundError{Name: name, Available: r.List()}
	}
}

// List returns every known adapter name, custom and built-in, sorted and
// deduplicated.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{}, len(r.custom)+len(r.builtins))
	for name := range r.custom {
		seen[name] = struct{}{}
	}
	for name := range r.builtins {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns introspection metadata for a registered name.
func (r *Registry) Describe(name string) (Info, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.custom[name]; ok {
		return Info{Name: name, BuiltIn: false, Loaded: true, Available: true, Description: "custom adapter"}, nil
	}
	if entry, ok := r.builtins[name]; ok {
		_, loaded := r.loaded[name]
		return Info{Name: name, BuiltIn: true, Loaded: loaded, Available: entry.ctor != nil, Description: entry.description}, nil
	}
	return Info{}, &NotFoundError{Name: name, Available: r.listLocked()}
}

func (r *Registry) listLocked() []string {
	seen := make(map[string]struct{}, len(r.custom)+len(r.builtins))
	for name := range r.custom {
		seen[name] = struct{}{}
	}
	for name := range r.builtins {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearCustom removes every custom registration, restoring built-ins only.
func (r *Registry) ClearCustom() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom = make(map[string]Constructor)
}

// UnloadBuiltin forgets that a built-in has been constructed, without
// removing it from the catalogue; the next Get reconstructs it.
func (r *Registry) UnloadBuiltin(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.loaded, name)
}
