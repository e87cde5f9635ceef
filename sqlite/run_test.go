package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/claragordon/crawlspace"
	"github.com/claragordon/crawlspace/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustOpenDB returns an in-memory database, closed on test cleanup.
func mustOpenDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testResult() crawlspace.Result {
	now := time.Now().UTC().Truncate(time.Second)
	return crawlspace.Result{
		"https://example.com/a": {
			URL:         "https://example.com/a",
			Depth:       0,
			Title:       "A",
			Outlinks:    []string{"https://example.com/b"},
			ContentHash: "00000000deadbeef",
			FetchedAt:   now,
		},
		"https://example.com/b": {
			URL:       "https://example.com/b",
			Depth:     1,
			Error:     "fetch https://example.com/b: timed out",
			FetchedAt: now,
		},
	}
}

func TestRunService_ArchiveRun(t *testing.T) {
	t.Parallel()

	t.Run("archives a run with its pages", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(mustOpenDB(t))
		run := &crawlspace.Run{
			Seeds:      []string{"https://example.com/a"},
			StartedAt:  time.Now().UTC().Add(-time.Minute).Truncate(time.Second),
			FinishedAt: time.Now().UTC().Truncate(time.Second),
		}

		err := svc.ArchiveRun(context.Background(), run, testResult())
		require.NoError(t, err)

		assert.NotEmpty(t, run.ID, "an ID should be assigned")
		assert.Equal(t, 2, run.Pages)
		assert.Equal(t, 1, run.Failed)

		found, err := svc.FindRunByID(context.Background(), run.ID)
		require.NoError(t, err)
		assert.Equal(t, run.ID, found.ID)
		assert.Equal(t, []string{"https://example.com/a"}, found.Seeds)
		assert.Equal(t, 2, found.Pages)
		assert.Equal(t, 1, found.Failed)
		assert.Equal(t, run.StartedAt, found.StartedAt)
		assert.Equal(t, run.FinishedAt, found.FinishedAt)
	})

	t.Run("rejects a run without seeds", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(mustOpenDB(t))
		err := svc.ArchiveRun(context.Background(), &crawlspace.Run{}, crawlspace.Result{})

		require.Error(t, err)
		assert.Equal(t, crawlspace.EINVALID, crawlspace.ErrorCode(err))
	})
}

func TestRunService_FindRunByID_not_found(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewRunService(mustOpenDB(t))
	_, err := svc.FindRunByID(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, crawlspace.ENOTFOUND, crawlspace.ErrorCode(err))
}

func TestRunService_FindPagesByRun(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewRunService(mustOpenDB(t))
	run := &crawlspace.Run{
		Seeds:      []string{"https://example.com/a"},
		StartedAt:  time.Now().UTC().Truncate(time.Second),
		FinishedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, svc.ArchiveRun(context.Background(), run, testResult()))

	pages, err := svc.FindPagesByRun(context.Background(), run.ID)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	// Ordered by URL.
	assert.Equal(t, "https://example.com/a", pages[0].URL)
	assert.Equal(t, []string{"https://example.com/b"}, pages[0].Outlinks)
	assert.Equal(t, "00000000deadbeef", pages[0].ContentHash)
	assert.False(t, pages[0].Failed())

	assert.Equal(t, "https://example.com/b", pages[1].URL)
	assert.True(t, pages[1].Failed())
	assert.Empty(t, pages[1].Outlinks)
}

func TestRunService_FindPagesByRun_empty(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewRunService(mustOpenDB(t))
	pages, err := svc.FindPagesByRun(context.Background(), "missing")

	require.NoError(t, err)
	assert.Empty(t, pages)
}
