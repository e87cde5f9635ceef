package crawlspace

import "time"

// Config holds the tunable parameters of a crawl run.
// All fields are fixed for the duration of the run.
type Config struct {
	// Workers is the number of concurrent workers in the pool.
	Workers int

	// MaxDepth is the maximum number of link hops from a seed.
	// Pages at MaxDepth are fetched but their links are not followed.
	MaxDepth int

	// MaxOutlinks caps the number of children accepted per page,
	// selected as the first N links in extraction order.
	MaxOutlinks int

	// RateCapacity is the token bucket's burst capacity.
	RateCapacity int

	// RatePerSecond is the token bucket's refill rate.
	RatePerSecond float64

	// Timeout bounds each individual fetch.
	Timeout time.Duration
}

// Validate returns an EINVALID error if the configuration cannot
// produce a well-defined run. It must pass before a run starts.
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return Errorf(EINVALID, "workers must be positive, got %d", c.Workers)
	}
	if c.MaxDepth < 0 {
		return Errorf(EINVALID, "max depth must be non-negative, got %d", c.MaxDepth)
	}
	if c.MaxOutlinks < 0 {
		return Errorf(EINVALID, "max outlinks must be non-negative, got %d", c.MaxOutlinks)
	}
	if c.RateCapacity <= 0 {
		return Errorf(EINVALID, "rate capacity must be positive, got %d", c.RateCapacity)
	}
	if c.RatePerSecond <= 0 {
		return Errorf(EINVALID, "rate per second must be positive, got %g", c.RatePerSecond)
	}
	if c.Timeout <= 0 {
		return Errorf(EINVALID, "timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
