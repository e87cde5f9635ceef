package crawlspace

import (
	"context"
	"time"
)

// Run records the metadata of one finished crawl run.
type Run struct {
	ID         string    `json:"id"`
	Seeds      []string  `json:"seeds"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Pages      int       `json:"pages"`
	Failed     int       `json:"failed"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if len(r.Seeds) == 0 {
		return Errorf(EINVALID, "run seeds required")
	}
	return nil
}

// RunService archives finished crawl runs and their page results.
// Archiving happens strictly after a run terminates; it is not crawl
// state and plays no part in resuming or deduplicating future runs.
type RunService interface {
	// ArchiveRun persists a finished run together with its result.
	// The run's ID is assigned if empty, and Pages/Failed are derived
	// from the result.
	ArchiveRun(ctx context.Context, run *Run, result Result) error

	// FindRunByID retrieves run metadata by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindPagesByRun retrieves the archived page results of a run,
	// ordered by URL.
	FindPagesByRun(ctx context.Context, runID string) ([]*PageResult, error)
}
