package crawl

import (
	"strings"
	"sync"

	"github.com/claragordon/crawlspace"
)

// Compile-time interface verification.
var _ crawlspace.Frontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO work queue with an exact visited set.
// Claim is the single synchronization point preventing duplicate
// fetches: a URL enters the visited set exactly once and is never
// removed for the lifetime of the frontier. Safe for concurrent use by
// multiple goroutines.
type Frontier struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	queue    []crawlspace.Task
	maxDepth int
}

// NewFrontier creates a frontier that refuses tasks deeper than maxDepth.
func NewFrontier(maxDepth int) *Frontier {
	return &Frontier{
		seen:     make(map[string]struct{}),
		maxDepth: maxDepth,
	}
}

// Claim atomically tests and marks the URL as visited.
// Returns true exactly once per URL; the winning caller owns processing
// it. URL fragments are stripped before comparison - URLs differing only
// by fragment name the same retrieval. No other normalization is
// applied; equality is exact string match.
func (f *Frontier) Claim(url string) bool {
	url = stripFragment(url)

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.seen[url]; ok {
		return false
	}
	f.seen[url] = struct{}{}
	return true
}

// Push adds a task to the pending queue. Tasks beyond the depth bound
// are refused so they can never be dequeued for fetching.
func (f *Frontier) Push(task crawlspace.Task) bool {
	if task.Depth > f.maxDepth {
		return false
	}
	task.URL = stripFragment(task.URL)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, task)
	return true
}

// Pop removes and returns the oldest pending task.
// The bool result is false if nothing is pending. An empty frontier
// does not mean the crawl is done - the coordinator combines this with
// its in-flight count for drain detection.
func (f *Frontier) Pop() (crawlspace.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return crawlspace.Task{}, false
	}
	task := f.queue[0]
	f.queue = f.queue[1:]
	return task, true
}

// Len returns the number of pending tasks.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has already been claimed.
// Fragments are stripped before checking.
func (f *Frontier) Seen(url string) bool {
	url = stripFragment(url)

	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.seen[url]
	return ok
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}
