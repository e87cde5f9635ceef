package crawlspace

import "time"

// PageResult records the outcome of processing one URL.
// It is immutable once recorded into a Result.
type PageResult struct {
	URL   string `json:"url"`
	Depth int    `json:"depth"`

	// Title is the page title, empty when the fetch failed.
	Title string `json:"title,omitempty"`

	// Outlinks are the accepted children: the first MaxOutlinks
	// candidates in extraction order. Pages at the depth bound and
	// failed fetches record none.
	Outlinks []string `json:"outlinks"`

	// ContentHash is an xxhash of the fetched body, empty on failure.
	ContentHash string `json:"contentHash,omitempty"`

	// Error describes why the fetch or extraction failed.
	// Empty means the page was processed successfully.
	Error string `json:"error,omitempty"`

	FetchedAt time.Time `json:"fetchedAt"`
}

// Failed reports whether processing this URL ended in an error.
func (p *PageResult) Failed() bool { return p.Error != "" }

// Result maps each claimed URL to its PageResult. It is owned by the
// crawl coordinator and safe to read only after the run has terminated.
type Result map[string]*PageResult

// Failed returns the number of pages whose processing ended in an error.
func (r Result) Failed() int {
	var n int
	for _, p := range r {
		if p.Failed() {
			n++
		}
	}
	return n
}
