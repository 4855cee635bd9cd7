package trap

import (
	"sort"
	"sync"
)

// Handler produces the outcome of a trap going off
type Handler interface {
	Trigger(v *Victim, rnd Rand) Outcome
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(v *Victim, rnd Rand) Outcome

// Trigger calls f
func (f HandlerFunc) Trigger(v *Victim, rnd Rand) Outcome {
	return f(v, rnd)
}

// Registry maps action names to handlers
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates a registry holding every built-in action
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]Handler, len(builtin))}
	for name, h := range builtin {
		r.handlers[name] = h
	}
	return r
}

// Register adds or replaces the handler for name
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Lookup returns the handler for name and whether it exists
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Resolve returns the handler for name, falling back to the none handler
func (r *Registry) Resolve(name string) Handler {
	if h, ok := r.Lookup(name); ok {
		return h
	}
	return HandlerFunc(none)
}

// Names returns every registered action sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
