package providers

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// defaultBackoff applies when a 429 response carries no Retry-After.
const defaultBackoff = 60 * time.Second

// pacer smooths outbound calls per provider with a token bucket and
// honours Retry-After backoff from 429 responses. It is a client-side
// courtesy on top of the routing layer's fixed-window budget, which
// remains the authoritative gate.
type pacer struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	retryAt  map[string]time.Time

	perSecond float64
	burst     int
}

func newPacer(perSecond float64, burst int) *pacer {
	return &pacer{
		limiters:  make(map[string]*rate.Limiter),
		retryAt:   make(map[string]time.Time),
		perSecond: perSecond,
		burst:     burst,
	}
}

// allow reports whether a call to the service may go out now.
func (p *pacer) allow(serviceID string) bool {
	p.mu.Lock()
	limiter, ok := p.limiters[serviceID]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(p.perSecond), p.burst)
		p.limiters[serviceID] = limiter
	}
	retryAt := p.retryAt[serviceID]
	p.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}
	return limiter.Allow()
}

// recordRetryAfter sets a backoff window after a 429 response.
func (p *pacer) recordRetryAfter(serviceID string, seconds int) {
	backoff := defaultBackoff
	if seconds > 0 {
		backoff = time.Duration(seconds) * time.Second
	}

	p.mu.Lock()
	p.retryAt[serviceID] = time.Now().Add(backoff)
	p.mu.Unlock()
}
