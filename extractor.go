package crawlspace

// ExtractResult holds what link extraction pulled from a fetched page.
type ExtractResult struct {
	// Title is the page title, if one was present.
	Title string

	// Links are the candidate outbound URLs in document order,
	// resolved against the page's base URL.
	Links []string
}

// LinkExtractor maps fetched page content to candidate outbound URLs.
type LinkExtractor interface {
	// Extract parses content and returns the title and outbound links.
	// Relative links are resolved against baseURL. Malformed content is
	// not an error condition for the crawl as a whole; implementations
	// may return an error, which callers treat as zero outbound links.
	Extract(content string, baseURL string) (*ExtractResult, error)
}
