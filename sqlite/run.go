package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/claragordon/crawlspace"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ crawlspace.RunService = (*RunService)(nil)

// RunService implements crawlspace.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// ArchiveRun persists a finished run and its page results in one
// transaction. Pages and Failed counts on the run are derived from the
// result.
func (s *RunService) ArchiveRun(ctx context.Context, run *crawlspace.Run, result crawlspace.Result) error {
	if err := run.Validate(); err != nil {
		return err
	}

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	run.Pages = len(result)
	run.Failed = result.Failed()

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, seeds, started_at, finished_at, pages, failed)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, strings.Join(run.Seeds, "\n"),
		run.StartedAt.UTC().Format(time.RFC3339), run.FinishedAt.UTC().Format(time.RFC3339),
		run.Pages, run.Failed)
	if err != nil {
		return err
	}

	// Stable insert order keeps archives diffable across identical runs.
	urls := make([]string, 0, len(result))
	for url := range result {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	for _, url := range urls {
		page := result[url]
		outlinks, err := json.Marshal(page.Outlinks)
		if err != nil {
			return fmt.Errorf("encoding outlinks for %s: %w", url, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO pages (id, run_id, url, depth, title, outlinks, content_hash, error, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), run.ID, page.URL, page.Depth, page.Title,
			string(outlinks), page.ContentHash, page.Error,
			page.FetchedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRunByID retrieves run metadata by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*crawlspace.Run, error) {
	var run crawlspace.Run
	var seeds, startedAt, finishedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, seeds, started_at, finished_at, pages, failed
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &seeds, &startedAt, &finishedAt, &run.Pages, &run.Failed)

	if err == sql.ErrNoRows {
		return nil, crawlspace.Errorf(crawlspace.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	run.Seeds = strings.Split(seeds, "\n")
	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
		return nil, err
	}

	return &run, nil
}

// FindPagesByRun retrieves the archived page results of a run, ordered
// by URL.
func (s *RunService) FindPagesByRun(ctx context.Context, runID string) ([]*crawlspace.PageResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, depth, title, outlinks, content_hash, error, fetched_at
		FROM pages
		WHERE run_id = ?
		ORDER BY url ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*crawlspace.PageResult
	for rows.Next() {
		var page crawlspace.PageResult
		var outlinks, fetchedAt string

		if err := rows.Scan(&page.URL, &page.Depth, &page.Title, &outlinks,
			&page.ContentHash, &page.Error, &fetchedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(outlinks), &page.Outlinks); err != nil {
			return nil, fmt.Errorf("decoding outlinks for %s: %w", page.URL, err)
		}
		if page.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at"); err != nil {
			return nil, err
		}

		pages = append(pages, &page)
	}
	return pages, rows.Err()
}

// parseRFC3339 parses an RFC3339 formatted timestamp string.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}
