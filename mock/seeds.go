package mock

import (
	"context"

	"github.com/claragordon/crawlspace"
)

var _ crawlspace.SeedSource = (*SeedSource)(nil)

// SeedSource is a mock implementation of crawlspace.SeedSource.
type SeedSource struct {
	DiscoverFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (s *SeedSource) Discover(ctx context.Context, baseURL string) ([]string, error) {
	return s.DiscoverFn(ctx, baseURL)
}
