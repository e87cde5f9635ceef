// Package crawl provides the concurrency core of the crawler: a
// fixed-size worker pool consuming a shared frontier of URLs,
// coordinated through a token-bucket rate limiter, with depth and
// breadth bounding for guaranteed termination.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/claragordon/crawlspace"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Crawler drives a bounded crawl to completion. The zero value is not
// usable; Fetcher, Links and Config must be set. Limiter, Hosts,
// Frontier and Logger are optional: a nil Limiter gets a TokenBucket
// built from Config, a nil Hosts disables per-host politeness, a nil
// Frontier gets a fresh in-memory Frontier per run, and a nil Logger
// discards logs.
type Crawler struct {
	Fetcher  crawlspace.Fetcher
	Links    crawlspace.LinkExtractor
	Limiter  crawlspace.Limiter
	Hosts    crawlspace.HostLimiter
	Frontier crawlspace.Frontier
	Logger   *slog.Logger
	Config   crawlspace.Config

	// RetryDelays are the backoff delays between fetch attempts.
	// Nil or empty means a single attempt per URL, which keeps rate
	// accounting transparent; the CLI opts into DefaultRetryDelays.
	RetryDelays []time.Duration
}

// ProgressEvent reports progress during a crawl run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// outcome holds what a worker produced for a single task.
type outcome struct {
	task     crawlspace.Task
	title    string
	links    []string // full candidate list in extraction order
	hash     string
	err      error
	canceled bool // run canceled mid-task; the task is abandoned
}

// Run crawls from the seed URLs until the frontier drains or ctx is
// canceled, and returns the assembled result keyed by URL.
//
// Duplicate seeds collapse to one task. Cancellation is a normal
// termination path, not an error: Run returns the partial result
// accumulated so far and a nil error. The only error path is an invalid
// Config, rejected before any work starts.
func (c *Crawler) Run(ctx context.Context, seeds []string, progress ProgressFunc) (crawlspace.Result, error) {
	if err := c.Config.Validate(); err != nil {
		return nil, err
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	limiter := c.Limiter
	if limiter == nil {
		limiter = NewTokenBucket(c.Config.RateCapacity, c.Config.RatePerSecond)
	}

	runID := uuid.New().String()
	logger.Info("crawl started",
		"run", runID,
		"seeds", len(seeds),
		"workers", c.Config.Workers,
		"maxDepth", c.Config.MaxDepth,
		"maxOutlinks", c.Config.MaxOutlinks,
	)

	frontier := c.Frontier
	if frontier == nil {
		frontier = NewFrontier(c.Config.MaxDepth)
	}
	for _, seed := range seeds {
		if frontier.Claim(seed) {
			frontier.Push(crawlspace.Task{URL: seed, Depth: 0})
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted})
	}

	workCh := make(chan crawlspace.Task)
	resultCh := make(chan outcome)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < c.Config.Workers; i++ {
		g.Go(func() error {
			for task := range workCh {
				out := c.process(gctx, limiter, task)
				select {
				case resultCh <- out:
				case <-gctx.Done():
					return nil
				}
			}
			return nil
		})
	}

	// Close the result channel once every worker has exited.
	go func() {
		_ = g.Wait()
		close(resultCh)
	}()

	result := crawlspace.Result{}

	// pending counts tasks dispatched to workers whose outcomes have not
	// been handled yet. The run is done exactly when the frontier is
	// empty and pending is zero; an empty frontier alone proves nothing
	// while a worker is mid-fetch and about to enqueue children.
	pending := 0
	var next *crawlspace.Task
	if task, ok := frontier.Pop(); ok {
		next = &task
	}

	for {
		if next == nil && pending == 0 {
			break
		}
		if ctx.Err() != nil {
			break
		}

		if next != nil {
			select {
			case <-ctx.Done():
			case workCh <- *next:
				pending++
				next = nil
			case out := <-resultCh:
				pending--
				c.handle(out, frontier, result, progress, logger)
			}
		} else {
			select {
			case <-ctx.Done():
			case out := <-resultCh:
				pending--
				c.handle(out, frontier, result, progress, logger)
			}
		}

		if next == nil {
			if task, ok := frontier.Pop(); ok {
				next = &task
			}
		}
	}

	// Let idle workers exit, then collect outcomes already in flight.
	// No new children are enqueued past this point.
	close(workCh)
	for out := range resultCh {
		c.recordOnly(out, result)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: len(result)})
	}
	logger.Info("crawl finished",
		"run", runID,
		"pages", len(result),
		"failed", result.Failed(),
		"canceled", ctx.Err() != nil,
	)

	return result, nil
}

// process executes one task: acquire a token, apply host politeness,
// fetch within the configured timeout, and extract candidate links.
func (c *Crawler) process(ctx context.Context, limiter crawlspace.Limiter, task crawlspace.Task) outcome {
	out := outcome{task: task}

	if err := limiter.Wait(ctx); err != nil {
		out.canceled = true
		return out
	}

	if c.Hosts != nil {
		u, err := url.Parse(task.URL)
		if err != nil {
			out.err = crawlspace.Errorf(crawlspace.EINVALID, "invalid URL %q: %v", task.URL, err)
			return out
		}
		if err := c.Hosts.Wait(ctx, u.Host); err != nil {
			out.canceled = true
			return out
		}
	}

	// Each attempt gets its own timeout so retries are bounded
	// individually, not collectively.
	fetchFn := func(ctx context.Context, url string) (string, error) {
		fctx, cancel := context.WithTimeout(ctx, c.Config.Timeout)
		defer cancel()
		return c.Fetcher.Fetch(fctx, url)
	}

	body, err := FetchWithRetryDelays(ctx, task.URL, fetchFn, nil, c.RetryDelays)
	if err != nil {
		// A failure after the run has been canceled is abandonment, not
		// a page error; the fetcher may have wrapped the cancellation.
		if ctx.Err() != nil {
			out.canceled = true
			return out
		}
		out.err = classifyFetchError(task.URL, err)
		return out
	}

	out.hash = hashContent(body)

	extracted, err := c.Links.Extract(body, task.URL)
	if err != nil {
		// Malformed content degrades to zero outbound links.
		out.err = crawlspace.Errorf(crawlspace.EINTERNAL, "extract %s: %v", task.URL, err)
		return out
	}
	out.title = extracted.Title
	out.links = extracted.Links

	return out
}

// handle records an outcome and applies the depth/breadth policy to its
// discovered links. Called only from the coordinator loop, so result
// and frontier pushes need no extra locking here beyond the frontier's
// own.
func (c *Crawler) handle(out outcome, frontier crawlspace.Frontier, result crawlspace.Result, progress ProgressFunc, logger *slog.Logger) {
	if out.canceled {
		return
	}

	page := &crawlspace.PageResult{
		URL:         out.task.URL,
		Depth:       out.task.Depth,
		Title:       out.title,
		ContentHash: out.hash,
		FetchedAt:   time.Now().UTC(),
	}

	if out.err != nil {
		page.Error = out.err.Error()
		result[page.URL] = page
		logger.Debug("page failed", "url", page.URL, "depth", page.Depth, "err", out.err)
		if progress != nil {
			progress(ProgressEvent{Type: ProgressFailed, Completed: len(result), URL: page.URL, Error: out.err})
		}
		return
	}

	// Breadth policy: accept the first MaxOutlinks candidates in
	// extraction order. Depth policy: pages at the bound accept none.
	if out.task.Depth < c.Config.MaxDepth {
		accepted := out.links
		if len(accepted) > c.Config.MaxOutlinks {
			accepted = accepted[:c.Config.MaxOutlinks]
		}
		page.Outlinks = accepted
		for _, link := range accepted {
			if frontier.Claim(link) {
				frontier.Push(crawlspace.Task{URL: link, Depth: out.task.Depth + 1})
			}
		}
	}

	result[page.URL] = page
	logger.Debug("page crawled", "url", page.URL, "depth", page.Depth, "outlinks", len(page.Outlinks))
	if progress != nil {
		progress(ProgressEvent{Type: ProgressCompleted, Completed: len(result), URL: page.URL})
	}
}

// recordOnly records an in-flight outcome during shutdown without
// enqueueing its children.
func (c *Crawler) recordOnly(out outcome, result crawlspace.Result) {
	if out.canceled {
		return
	}
	page := &crawlspace.PageResult{
		URL:         out.task.URL,
		Depth:       out.task.Depth,
		Title:       out.title,
		ContentHash: out.hash,
		FetchedAt:   time.Now().UTC(),
	}
	if out.err != nil {
		page.Error = out.err.Error()
	}
	result[page.URL] = page
}

// classifyFetchError maps transport errors onto application error codes.
func classifyFetchError(url string, err error) error {
	if crawlspace.ErrorCode(err) != crawlspace.EINTERNAL {
		return err // already classified by the fetcher
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return crawlspace.Errorf(crawlspace.ETIMEOUT, "fetch %s: timed out", url)
	}
	return crawlspace.Errorf(crawlspace.EUNAVAILABLE, "fetch %s: %v", url, err)
}

// hashContent computes an xxhash of the content as a hex string.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}
