package crawlspace

import "context"

// Fetcher retrieves page content from URLs.
type Fetcher interface {
	// Fetch performs a single retrieval of the URL and returns the body.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (body string, err error)

	// Close releases any resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
