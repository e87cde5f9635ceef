package crawl

import (
	"context"
	"sync"

	"github.com/claragordon/crawlspace"
	"golang.org/x/time/rate"
)

var _ crawlspace.HostLimiter = (*HostLimiter)(nil)

// HostLimiter provides per-host rate limiting for crawl politeness.
// Each host gets its own limiter, so concurrent requests to different
// hosts proceed independently while requests within a host are spaced
// out. It layers on top of the global TokenBucket, which bounds the
// crawl's total request rate.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewHostLimiter creates a HostLimiter with the given per-host requests
// per second limit. Each host gets a burst of 1 (no bursting within a
// host).
func NewHostLimiter(rps float64) *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the host.
// Returns an error if the context is canceled before the wait completes.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	l.mu.Lock()
	limiter, ok := l.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rps), 1)
		l.limiters[host] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}
