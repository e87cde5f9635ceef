package crawlspace_test

import (
	"testing"
	"time"

	"github.com/claragordon/crawlspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() crawlspace.Config {
	return crawlspace.Config{
		Workers:       5,
		MaxDepth:      2,
		MaxOutlinks:   5,
		RateCapacity:  5,
		RatePerSecond: 1.0,
		Timeout:       5 * time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts a valid config", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("accepts zero max depth and zero max outlinks", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxDepth = 0
		cfg.MaxOutlinks = 0
		assert.NoError(t, cfg.Validate(), "a seeds-only crawl is well-defined")
	})

	tests := []struct {
		name   string
		mutate func(*crawlspace.Config)
	}{
		{"rejects non-positive workers", func(c *crawlspace.Config) { c.Workers = 0 }},
		{"rejects negative max depth", func(c *crawlspace.Config) { c.MaxDepth = -1 }},
		{"rejects negative max outlinks", func(c *crawlspace.Config) { c.MaxOutlinks = -1 }},
		{"rejects non-positive rate capacity", func(c *crawlspace.Config) { c.RateCapacity = 0 }},
		{"rejects non-positive rate", func(c *crawlspace.Config) { c.RatePerSecond = 0 }},
		{"rejects non-positive timeout", func(c *crawlspace.Config) { c.Timeout = 0 }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, crawlspace.EINVALID, crawlspace.ErrorCode(err))
		})
	}
}
