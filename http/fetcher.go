// Package http provides HTTP-based implementations of the crawlspace
// fetching and seed discovery interfaces.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/claragordon/crawlspace"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies the crawler to the sites it visits.
const DefaultUserAgent = "crawlspace/1.0"

// Ensure Fetcher implements crawlspace.Fetcher at compile time.
var _ crawlspace.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves page content from URLs over plain HTTP GET.
// It performs a single retrieval per call; retry policy belongs to the
// caller.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout.
// Defaults to DefaultFetchTimeout if not specified. A shorter deadline
// on the request context still wins.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the body of the given URL. Timeouts surface as
// ETIMEOUT, connection failures as EUNAVAILABLE, and non-2xx responses
// as EUNAVAILABLE errors carrying the status code.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", crawlspace.Errorf(crawlspace.EINVALID, "invalid request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", crawlspace.Errorf(crawlspace.ETIMEOUT, "fetch %s: timed out", url)
		}
		return "", crawlspace.Errorf(crawlspace.EUNAVAILABLE, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", crawlspace.Errorf(crawlspace.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", crawlspace.Errorf(crawlspace.EUNAVAILABLE, "read %s: %v", url, err)
	}

	return string(body), nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
