package mock

import "github.com/claragordon/crawlspace"

var _ crawlspace.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of crawlspace.LinkExtractor.
type LinkExtractor struct {
	ExtractFn func(content string, baseURL string) (*crawlspace.ExtractResult, error)
}

func (e *LinkExtractor) Extract(content string, baseURL string) (*crawlspace.ExtractResult, error) {
	return e.ExtractFn(content, baseURL)
}
