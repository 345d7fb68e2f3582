package backend

import "sync"

// Registry is the parameter sharing store. Layers with identical sharing keys
// resolve to the same parameter set, so their gradients accumulate into the
// same buffers. Entries are committed by the assembler as layers are set up
// and are never replaced afterwards.
type Registry interface {
	// Get returns the parameter set registered under key, or nil.
	Get(key string) []*Param

	// Put registers ps under key. Put is called at most once per key for the
	// lifetime of the key.
	Put(key string, ps []*Param)
}

// MemRegistry is a map-backed Registry. The mutex makes it safe to share one
// registry across Nets constructed from different goroutines; within a single
// construction all access is sequential.
type MemRegistry struct {
	mu   sync.Mutex
	sets map[string][]*Param
}

// NewMemRegistry returns an empty in-memory parameter registry.
func NewMemRegistry() *MemRegistry {
	return &MemRegistry{sets: make(map[string][]*Param)}
}

// Get returns the parameter set registered under key, or nil.
func (r *MemRegistry) Get(key string) []*Param {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sets[key]
}

// Put registers ps under key. An existing entry is kept: the first committed
// set wins, so already-sharing layers never observe a swap.
func (r *MemRegistry) Put(key string, ps []*Param) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sets[key]; ok {
		return
	}
	r.sets[key] = ps
}
