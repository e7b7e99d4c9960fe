package services

import (
	"sync"
	"time"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
)

// RateLimiter bounds calls to each provider to its advertised
// {MaxRequests, Window} using fixed-window counters.
//
// One counter exists per provider, each behind its own lock, so
// contention is bounded by the number of providers rather than the
// number of concurrent requests.
type RateLimiter struct {
	limits map[string]domain.RateLimit

	mu      sync.RWMutex
	windows map[string]*usageWindow

	now func() time.Time
}

// usageWindow is one provider's counter for the current window.
type usageWindow struct {
	mu    sync.Mutex
	start time.Time
	count int
}

// NewRateLimiter creates a limiter for the registry's descriptors.
// Providers without a declared limit are unlimited.
func NewRateLimiter(registry *ProviderRegistry) *RateLimiter {
	limits := make(map[string]domain.RateLimit)
	for _, desc := range registry.All() {
		if !desc.RateLimit.Unlimited() {
			limits[desc.ServiceID] = desc.RateLimit
		}
	}
	return &RateLimiter{
		limits:  limits,
		windows: make(map[string]*usageWindow),
		now:     time.Now,
	}
}

// Allow performs the check-and-increment for one attempted call.
// It resets the window when its span has elapsed, then admits the call
// while the counter is below the provider's budget.
func (l *RateLimiter) Allow(serviceID string) bool {
	limit, ok := l.limits[serviceID]
	if !ok {
		return true
	}

	w := l.window(serviceID)
	now := l.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	if now.Sub(w.start) > limit.Window {
		w.start = now
		w.count = 0
	}
	if w.count < limit.MaxRequests {
		w.count++
		return true
	}
	return false
}

// Exhausted reports whether the current window has no budget left,
// without consuming any. The vault uses this as its hand-out gate so
// the router's Allow is the only place budget is spent.
func (l *RateLimiter) Exhausted(serviceID string) bool {
	limit, ok := l.limits[serviceID]
	if !ok {
		return false
	}

	w := l.window(serviceID)
	now := l.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	if now.Sub(w.start) > limit.Window {
		return false
	}
	return w.count >= limit.MaxRequests
}

// Usage returns the counter value inside the current window.
func (l *RateLimiter) Usage(serviceID string) int {
	w := l.window(serviceID)
	now := l.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	limit, ok := l.limits[serviceID]
	if ok && now.Sub(w.start) > limit.Window {
		return 0
	}
	return w.count
}

func (l *RateLimiter) window(serviceID string) *usageWindow {
	l.mu.RLock()
	w, ok := l.windows[serviceID]
	l.mu.RUnlock()
	if ok {
		return w
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if w, ok = l.windows[serviceID]; ok {
		return w
	}
	w = &usageWindow{start: l.now()}
	l.windows[serviceID] = w
	return w
}
