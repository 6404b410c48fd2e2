// Package provider implements paginated search backends that turn a free-text
// query into a uniform list of (title, url) results. Two backends exist: a
// Google results-page scraper and the Stack Exchange search API.
package provider

import "context"

// Result is a single search hit. Immutable once parsed.
type Result struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Provider fetches one page of results for a query. Page numbers are
// one-based; implementations convert to whatever offset scheme the backend
// uses. The returned slice preserves the backend's relevance order.
type Provider interface {
	FetchPage(ctx context.Context, query string, page, pageSize int) ([]Result, error)
	Name() string
}
