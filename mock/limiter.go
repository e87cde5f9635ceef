package mock

import (
	"context"

	"github.com/claragordon/crawlspace"
)

var _ crawlspace.Limiter = (*Limiter)(nil)

// Limiter is a mock implementation of crawlspace.Limiter.
type Limiter struct {
	WaitFn func(ctx context.Context) error
}

func (l *Limiter) Wait(ctx context.Context) error {
	return l.WaitFn(ctx)
}

var _ crawlspace.HostLimiter = (*HostLimiter)(nil)

// HostLimiter is a mock implementation of crawlspace.HostLimiter.
type HostLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}
