package slog

import (
	"log/slog"
	"time"

	"github.com/claragordon/crawlspace"
)

// Ensure LoggingExtractor implements crawlspace.LinkExtractor.
var _ crawlspace.LinkExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a LinkExtractor with debug logging.
type LoggingExtractor struct {
	next   crawlspace.LinkExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next crawlspace.LinkExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(content string, baseURL string) (result *crawlspace.ExtractResult, err error) {
	defer func(begin time.Time) {
		links := 0
		if result != nil {
			links = len(result.Links)
		}
		e.logger.Debug("extract",
			"url", baseURL,
			"links", links,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(content, baseURL)
}
