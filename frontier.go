package crawlspace

// Task is a unit of pending crawl work: a URL and its distance from the
// seed set. Depth 0 means the URL was a seed.
type Task struct {
	URL   string
	Depth int
}

// Frontier coordinates the set of pending tasks and the visited set for
// a single crawl run. Implementations must be safe for concurrent use.
type Frontier interface {
	// Claim atomically tests whether url has been visited and, if not,
	// marks it visited and returns true. The caller then owns processing
	// the URL. A false return means another caller already claimed it.
	Claim(url string) bool

	// Push adds a task to the pending set. Tasks beyond the frontier's
	// depth bound are refused; the return reports acceptance.
	Push(task Task) bool

	// Pop removes and returns one pending task.
	// The bool result is false if no task is currently pending.
	Pop() (Task, bool)

	// Len returns the number of pending tasks.
	Len() int

	// Seen returns true if the URL has already been claimed.
	Seen(url string) bool
}
