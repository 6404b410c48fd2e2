package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// countingProvider records how often each page is fetched.
type countingProvider struct {
	calls map[int]int
	err   error
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) FetchPage(_ context.Context, query string, page, pageSize int) ([]Result, error) {
	if p.calls == nil {
		p.calls = make(map[int]int)
	}
	p.calls[page]++
	if p.err != nil {
		return nil, p.err
	}
	return []Result{{Title: fmt.Sprintf("page %d", page), URL: fmt.Sprintf("https://example.com/%d", page)}}, nil
}

func TestCachedFetchesEachPageOnce(t *testing.T) {
	upstream := &countingProvider{}
	cached := NewCached(upstream)
	ctx := context.Background()

	first, err := cached.FetchPage(ctx, "q", 1, 30)
	if err != nil {
		t.Fatalf("FetchPage() error: %v", err)
	}
	second, err := cached.FetchPage(ctx, "q", 1, 30)
	if err != nil {
		t.Fatalf("FetchPage() error: %v", err)
	}

	if upstream.calls[1] != 1 {
		t.Errorf("upstream fetched page 1 %d times, want 1", upstream.calls[1])
	}
	if &first[0] != &second[0] {
		t.Error("repeat lookup returned a different slice")
	}
}

func TestCachedDistinctPages(t *testing.T) {
	upstream := &countingProvider{}
	cached := NewCached(upstream)
	ctx := context.Background()

	for _, page := range []int{1, 2, 1, 2, 3} {
		if _, err := cached.FetchPage(ctx, "q", page, 30); err != nil {
			t.Fatalf("FetchPage(%d) error: %v", page, err)
		}
	}
	for page := 1; page <= 3; page++ {
		if upstream.calls[page] != 1 {
			t.Errorf("page %d fetched %d times, want 1", page, upstream.calls[page])
		}
	}
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	upstream := &countingProvider{err: errors.New("boom")}
	cached := NewCached(upstream)
	ctx := context.Background()

	if _, err := cached.FetchPage(ctx, "q", 1, 30); err == nil {
		t.Fatal("expected error")
	}
	upstream.err = nil
	if _, err := cached.FetchPage(ctx, "q", 1, 30); err != nil {
		t.Fatalf("retry after error failed: %v", err)
	}
	if upstream.calls[1] != 2 {
		t.Errorf("expected failed fetch not to be cached, got %d calls", upstream.calls[1])
	}
}
