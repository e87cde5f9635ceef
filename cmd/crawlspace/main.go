package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	stdslog "log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/claragordon/crawlspace"
	"github.com/claragordon/crawlspace/crawl"
	"github.com/claragordon/crawlspace/goquery"
	crawlhttp "github.com/claragordon/crawlspace/http"
	crawlslog "github.com/claragordon/crawlspace/slog"
	"github.com/claragordon/crawlspace/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("crawlspace"),
		kong.Description("Crawl a bounded web graph from seed URLs"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	_, err = parser.Parse(args)
	if err != nil {
		return err
	}

	config := crawlspace.Config{
		Workers:       cli.Workers,
		MaxDepth:      cli.MaxDepth,
		MaxOutlinks:   cli.MaxOutlinks,
		RateCapacity:  cli.RateCapacity,
		RatePerSecond: cli.RatePerSecond,
		Timeout:       cli.Timeout,
	}
	if err := config.Validate(); err != nil {
		return err
	}

	level := stdslog.LevelInfo
	if cli.Verbose {
		level = stdslog.LevelDebug
	}
	logger := stdslog.New(stdslog.NewTextHandler(stderr, &stdslog.HandlerOptions{Level: level}))

	var fetcher crawlspace.Fetcher = crawlhttp.NewFetcher(crawlhttp.WithTimeout(cli.Timeout))
	defer fetcher.Close()

	var extractor crawlspace.LinkExtractor = goquery.NewExtractor()
	if cli.Verbose {
		fetcher = crawlslog.NewLoggingFetcher(fetcher, logger)
		extractor = crawlslog.NewLoggingExtractor(extractor, logger)
	}

	crawler := &crawl.Crawler{
		Fetcher: fetcher,
		Links:   extractor,
		Logger:  logger,
		Config:  config,
	}
	if cli.HostRPS > 0 {
		crawler.Hosts = crawl.NewHostLimiter(cli.HostRPS)
	}
	if cli.Retry {
		crawler.RetryDelays = crawl.DefaultRetryDelays()
	}

	seeds := cli.Seeds
	if cli.Sitemap {
		seeds, err = expandSeeds(ctx, crawlhttp.NewSitemapService(nil), seeds, logger)
		if err != nil {
			return err
		}
	}

	start := time.Now()
	result, err := crawler.Run(ctx, seeds, func(event crawl.ProgressEvent) {
		if event.Type == crawl.ProgressFailed {
			logger.Warn("page failed", "url", event.URL, "error", event.Error)
		}
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if cli.DB != "" {
		if err := archiveRun(ctx, cli.DB, seeds, start, result); err != nil {
			return fmt.Errorf("failed to archive run: %w", err)
		}
	}

	if err := writeResult(result, cli.Out, stdout); err != nil {
		return err
	}

	fmt.Fprintf(stderr, "crawled %d pages (%d failed) in %s\n",
		len(result), result.Failed(), elapsed.Round(time.Millisecond))
	return nil
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Workers       int           `short:"w" default:"4" help:"Number of crawl workers"`
	MaxDepth      int           `default:"2" help:"Maximum link depth from a seed"`
	MaxOutlinks   int           `default:"20" help:"Maximum links followed per page"`
	RateCapacity  int           `default:"5" help:"Token bucket capacity"`
	RatePerSecond float64       `default:"2" help:"Token bucket refill rate"`
	Timeout       time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	HostRPS       float64       `name:"host-rps" default:"0" help:"Per-host request rate limit (0 disables)"`
	Retry         bool          `help:"Retry failed fetches with backoff"`
	Sitemap       bool          `help:"Expand seeds with sitemap URLs"`
	DB            string        `name:"db" help:"SQLite file to archive the run to"`
	Out           string        `short:"o" help:"Write results to file instead of stdout"`
	Verbose       bool          `short:"v" help:"Enable debug logging"`
	Seeds         []string      `arg:"" required:"" help:"Seed URLs to crawl from"`
}

// expandSeeds adds sitemap-discovered URLs to the seed list. Discovery
// failures for individual seeds are logged and skipped.
func expandSeeds(ctx context.Context, sitemaps crawlspace.SeedSource, seeds []string, logger *stdslog.Logger) ([]string, error) {
	expanded := make([]string, 0, len(seeds))
	expanded = append(expanded, seeds...)
	for _, seed := range seeds {
		urls, err := sitemaps.Discover(ctx, seed)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			logger.Warn("sitemap discovery failed", "url", seed, "error", err)
			continue
		}
		logger.Info("sitemap discovered", "url", seed, "count", len(urls))
		expanded = append(expanded, urls...)
	}
	return expanded, nil
}

// archiveRun stores a finished run in a SQLite database.
func archiveRun(ctx context.Context, path string, seeds []string, start time.Time, result crawlspace.Result) error {
	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		return err
	}
	defer db.Close()

	run := &crawlspace.Run{
		Seeds:      seeds,
		StartedAt:  start,
		FinishedAt: time.Now(),
	}
	return sqlite.NewRunService(db).ArchiveRun(ctx, run, result)
}

// writeResult serializes the result as indented JSON to the given file,
// or to stdout when path is empty.
func writeResult(result crawlspace.Result, path string, stdout io.Writer) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
