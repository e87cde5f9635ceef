package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/claragordon/crawlspace"
)

// Compile-time interface verification.
var _ crawlspace.Limiter = (*TokenBucket)(nil)

// TokenBucket is a thread-safe token bucket rate limiter. Tokens refill
// continuously based on elapsed wall-clock time, computed lazily on each
// acquisition attempt; there is no background ticker. The available
// count never exceeds capacity, so the bucket bounds both burst size and
// the long-run average rate.
type TokenBucket struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64 // tokens added per second
	last     time.Time
}

// NewTokenBucket creates a bucket that starts full with the given burst
// capacity and refills at perSecond tokens per second.
func NewTokenBucket(capacity int, perSecond float64) *TokenBucket {
	return &TokenBucket{
		tokens:   float64(capacity),
		capacity: float64(capacity),
		rate:     perSecond,
		last:     time.Now(),
	}
}

// Wait blocks until a token is available, then consumes it. When the
// bucket is empty it sleeps for exactly the time the deficit takes to
// refill rather than polling. Returns the context's error if ctx is
// canceled first; no token is consumed in that case.
func (b *TokenBucket) Wait(ctx context.Context) error {
	for {
		ok, wait := b.take()
		if ok {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// TryTake consumes a token without blocking.
// Returns false if none is available.
func (b *TokenBucket) TryTake() bool {
	ok, _ := b.take()
	return ok
}

// Tokens returns the currently available token count after refill.
func (b *TokenBucket) Tokens() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill(time.Now())
	return b.tokens
}

// take attempts to consume one token, refilling first. When the bucket
// is empty it reports how long the caller must wait for the deficit to
// refill. The check and decrement happen under one lock acquisition so
// no two callers are granted the same token.
func (b *TokenBucket) take() (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(time.Now())
	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	wait := time.Duration((1 - b.tokens) / b.rate * float64(time.Second))
	return false, wait
}

// refill credits tokens for the time elapsed since the last refill.
// Callers must hold b.mu. The monotonic reading in time.Time makes the
// elapsed computation immune to wall-clock adjustments.
func (b *TokenBucket) refill(now time.Time) {
	elapsed := now.Sub(b.last).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens += elapsed * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.last = now
}
