package provider

import "context"

// Cached memoizes pages fetched from an upstream provider by page number.
// Entries are write-once: a page, once fetched, is never refetched, so
// navigating back and forth always shows the same results even if the
// backend's ranking drifts between requests. No eviction; a cache lives for
// one CLI invocation.
//
// Not safe for concurrent use. The pagination loop is the only caller and
// runs on a single goroutine.
type Cached struct {
	upstream Provider
	pages    map[int][]Result
}

// NewCached wraps upstream with a page cache.
func NewCached(upstream Provider) *Cached {
	return &Cached{
		upstream: upstream,
		pages:    make(map[int][]Result),
	}
}

func (c *Cached) Name() string { return c.upstream.Name() }

// FetchPage returns the cached page when present, otherwise fetches from the
// upstream provider and stores the result. Repeat calls for the same page
// return the identical slice.
func (c *Cached) FetchPage(ctx context.Context, query string, page, pageSize int) ([]Result, error) {
	if cached, ok := c.pages[page]; ok {
		return cached, nil
	}
	results, err := c.upstream.FetchPage(ctx, query, page, pageSize)
	if err != nil {
		return nil, err
	}
	c.pages[page] = results
	return results, nil
}
