package catalog

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// DefaultRequestsPerSecond is used for instances that configure no limit.
const DefaultRequestsPerSecond = 1

// RateLimiterMap holds one rate.Limiter per catalog instance.
type RateLimiterMap struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
}

// NewRateLimiterMap creates an empty limiter map.
func NewRateLimiterMap() *RateLimiterMap {
	return &RateLimiterMap{
		limiters: make(map[string]*rate.Limiter),
	}
}

// Set installs a limiter for the named instance. A non-positive rate
// removes limiting for that instance.
func (m *RateLimiterMap) Set(name string, perSecond float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if perSecond <= 0 {
		delete(m.limiters, name)
		return
	}
	m.limiters[name] = rate.NewLimiter(rate.Limit(perSecond), 1)
}

// Wait blocks until the limiter for the given instance allows a request,
// or the context is canceled. Instances without a limiter never block.
func (m *RateLimiterMap) Wait(ctx context.Context, name string) error {
	m.mu.RLock()
	limiter, ok := m.limiters[name]
	m.mu.RUnlock()
	if !ok {
		return ctx.Err()
	}
	return limiter.Wait(ctx)
}
