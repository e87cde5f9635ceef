package crawlspace

import "context"

// Limiter grants permission to issue one request at a bounded rate.
type Limiter interface {
	// Wait blocks until the limiter grants a token or the context is
	// canceled. On cancellation it returns the context's error without
	// consuming a token.
	Wait(ctx context.Context) error
}

// HostLimiter provides per-host rate limiting for crawl politeness.
type HostLimiter interface {
	// Wait blocks until the rate limit allows a request to the host.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}
