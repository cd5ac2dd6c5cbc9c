package catalog

import "sync"

// Registry holds the configured catalog clients keyed by instance name.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]Client
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]Client),
	}
}

// Register adds a client. Registering the same instance name again
// replaces the client but keeps its original position.
func (r *Registry) Register(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := c.Instance().Name
	if _, ok := r.clients[name]; !ok {
		r.order = append(r.order, name)
	}
	r.clients[name] = c
}

// Get returns a client by instance name, or nil if not registered.
func (r *Registry) Get(name string) Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients[name]
}

// All returns all registered clients in registration order.
func (r *Registry) All() []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Client, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.clients[name])
	}
	return result
}
