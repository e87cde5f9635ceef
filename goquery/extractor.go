// Package goquery provides a goquery-based implementation of
// crawlspace.LinkExtractor.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/claragordon/crawlspace"
)

// Ensure Extractor implements crawlspace.LinkExtractor at compile time.
var _ crawlspace.LinkExtractor = (*Extractor)(nil)

// Extractor pulls the page title and anchor links out of HTML.
// Links are returned in document order, resolved against the base URL,
// with fragments stripped. The underlying parser is lenient, so
// malformed HTML degrades to whatever links are recoverable rather
// than failing the page.
type Extractor struct {
	sameHostOnly bool
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithSameHostOnly restricts extraction to links on the same host as
// the base URL. Host matching is exact; subdomains are different hosts.
func WithSameHostOnly() ExtractorOption {
	return func(e *Extractor) {
		e.sameHostOnly = true
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses content and returns the title and candidate outbound
// URLs in document order. Duplicate URLs keep their first position.
func (e *Extractor) Extract(content string, baseURL string) (*crawlspace.ExtractResult, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, crawlspace.Errorf(crawlspace.EINVALID, "invalid base URL %q: %v", baseURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, crawlspace.Errorf(crawlspace.EINVALID, "failed to parse HTML: %v", err)
	}

	result := &crawlspace.ExtractResult{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		if isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		if e.sameHostOnly && !isSameHost(base, resolved) {
			return
		}
		if seen[resolved] {
			return
		}
		seen[resolved] = true
		result.Links = append(result.Links, resolved)
	})

	return result, nil
}

// resolveURL resolves href against the base URL and strips the
// fragment. Anchor-only links pointing back at the page itself resolve
// to empty.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	result := resolved.String()
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isSameHost checks if the resolved URL has the same host as the base
// URL. Matching is exact; subdomains are considered different hosts.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
