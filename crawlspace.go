// Package crawlspace provides a bounded, polite, concurrent web crawler.
// Given seed URLs it fetches pages, extracts outbound links, and follows
// them up to configured depth and breadth limits while a token bucket
// caps the outbound request rate.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., http/,
// goquery/, sqlite/); the concurrency core lives in crawl/.
package crawlspace
