package pipeline

import (
	"context"
	"sync"

	"github.com/shoplens/shoplens"
	"golang.org/x/time/rate"
)

var _ shoplens.DomainLimiter = (*RateLimiter)(nil)

// RateLimiter rate-limits per domain with token buckets: concurrent
// extractions of different storefronts proceed freely while requests to
// the same storefront queue up.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewRateLimiter creates a limiter allowing rps requests per second per
// domain, with a burst of 1.
func NewRateLimiter(rps float64) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the domain's bucket allows another request or the
// context ends.
func (l *RateLimiter) Wait(ctx context.Context, domain string) error {
	l.mu.Lock()
	limiter, ok := l.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rps), 1)
		l.limiters[domain] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}
