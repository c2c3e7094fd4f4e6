package game

import (
	"sort"
	"sync"
)

// Factory builds a fresh engine.
type Factory func(Options) Game

// Registry allows registering game engine factories by type.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

func (r *Registry) Register(gameType string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[gameType] = factory
}

func (r *Registry) New(gameType string, opts Options) (Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[gameType]
	if !ok {
		return nil, false
	}
	return f(opts), true
}

// Types lists registered game types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for t := range r.factories {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
