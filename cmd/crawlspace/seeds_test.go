package main

import (
	"bytes"
	"context"
	"io"
	stdslog "log/slog"
	"testing"

	"github.com/claragordon/crawlspace"
	"github.com/claragordon/crawlspace/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandSeeds(t *testing.T) {
	t.Parallel()

	t.Run("appends discovered URLs after the seeds", func(t *testing.T) {
		t.Parallel()

		sitemaps := &mock.SeedSource{
			DiscoverFn: func(_ context.Context, baseURL string) ([]string, error) {
				return []string{baseURL + "/page1", baseURL + "/page2"}, nil
			},
		}

		seeds, err := expandSeeds(context.Background(), sitemaps,
			[]string{"https://example.com"}, stdslog.New(stdslog.NewTextHandler(io.Discard, &stdslog.HandlerOptions{Level: stdslog.Level(127)})))

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com",
			"https://example.com/page1",
			"https://example.com/page2",
		}, seeds)
	})

	t.Run("skips seeds whose discovery fails", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		sitemaps := &mock.SeedSource{
			DiscoverFn: func(_ context.Context, baseURL string) ([]string, error) {
				if baseURL == "https://bad.example.com" {
					return nil, crawlspace.Errorf(crawlspace.EUNAVAILABLE, "no sitemap")
				}
				return []string{baseURL + "/page"}, nil
			},
		}

		logger := stdslog.New(stdslog.NewTextHandler(&buf, nil))
		seeds, err := expandSeeds(context.Background(), sitemaps,
			[]string{"https://bad.example.com", "https://good.example.com"}, logger)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://bad.example.com",
			"https://good.example.com",
			"https://good.example.com/page",
		}, seeds)
		assert.Contains(t, buf.String(), "sitemap discovery failed")
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		sitemaps := &mock.SeedSource{
			DiscoverFn: func(ctx context.Context, _ string) ([]string, error) {
				cancel()
				return nil, ctx.Err()
			},
		}

		_, err := expandSeeds(ctx, sitemaps,
			[]string{"https://example.com"}, stdslog.New(stdslog.NewTextHandler(io.Discard, &stdslog.HandlerOptions{Level: stdslog.Level(127)})))

		assert.Error(t, err)
	})
}
