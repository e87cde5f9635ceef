package crawlspace

import "context"

// SeedSource discovers seed URLs for a site, for example from its
// sitemap. Implementations hide where the URL list comes from.
type SeedSource interface {
	// Discover returns crawlable URLs for the site rooted at baseURL.
	// An empty result is not an error; callers fall back to using
	// baseURL itself as the only seed.
	Discover(ctx context.Context, baseURL string) ([]string, error)
}
