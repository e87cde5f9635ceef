package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/claragordon/crawlspace"
	"github.com/claragordon/crawlspace/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	t.Run("returns first successful fetch", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			return "body", nil
		}

		body, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, crawl.DefaultRetryDelays())

		require.NoError(t, err)
		assert.Equal(t, "body", body)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries until success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			if calls < 3 {
				return "", crawlspace.Errorf(crawlspace.EUNAVAILABLE, "boom")
			}
			return "body", nil
		}

		body, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, []time.Duration{0, 0, 0})

		require.NoError(t, err)
		assert.Equal(t, "body", body)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error when attempts are exhausted", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			return "", crawlspace.Errorf(crawlspace.EUNAVAILABLE, "attempt %d", calls)
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, []time.Duration{0, 0})

		require.Error(t, err)
		assert.Equal(t, 3, calls, "one initial attempt plus two retries")
		assert.Equal(t, "attempt 3", crawlspace.ErrorMessage(err))
	})

	t.Run("nil delays means a single attempt", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			return "", crawlspace.Errorf(crawlspace.EUNAVAILABLE, "boom")
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, nil)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancellation during backoff aborts", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(_ context.Context, _ string) (string, error) {
			cancel()
			return "", crawlspace.Errorf(crawlspace.EUNAVAILABLE, "boom")
		}

		start := time.Now()
		_, err := crawl.FetchWithRetryDelays(ctx, "https://example.com", fetch, nil, []time.Duration{time.Minute})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), time.Second, "should not sit out the backoff")
	})

	t.Run("logger is called on retries", func(t *testing.T) {
		t.Parallel()

		var logged int
		logf := func(format string, args ...any) { logged++ }
		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			if calls == 1 {
				return "", crawlspace.Errorf(crawlspace.EUNAVAILABLE, "boom")
			}
			return "body", nil
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, logf, []time.Duration{0})

		require.NoError(t, err)
		assert.Equal(t, 1, logged)
	})
}
