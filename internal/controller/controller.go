// Package controller runs the interactive pagination loop: fetch a page of
// results through the cache, render it in a picker session, and interpret the
// outcome as paging or a final selection.
package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/quickfz/fzquery/internal/picker"
	"github.com/quickfz/fzquery/internal/provider"
)

// ErrAborted is returned when the user leaves the picker without choosing an
// item. The caller exits non-zero without printing anything.
var ErrAborted = errors.New("selection aborted")

// Controller coordinates one search session. It owns the page cache, so a
// page is fetched from the network at most once per invocation.
type Controller struct {
	cached   *provider.Cached
	open     picker.Opener
	pageSize int
}

// New wires a provider and a picker opener into a controller. pageSize must
// be positive.
func New(p provider.Provider, open picker.Opener, pageSize int) *Controller {
	return &Controller{
		cached:   provider.NewCached(p),
		open:     open,
		pageSize: pageSize,
	}
}

// Run loops over page views until the user selects an item or aborts,
// returning the selected item's URL. The picker opens before the fetch
// completes so the UI appears immediately; when the fetch fails the orphaned
// session is killed before the error is reported, and its input stream is
// never fed.
func (c *Controller) Run(ctx context.Context, query string) (string, error) {
	page := 1
	for {
		sess, err := c.open(fmt.Sprintf("%s [%d]> ", query, page))
		if err != nil {
			return "", fmt.Errorf("open picker: %w", err)
		}

		results, err := c.cached.FetchPage(ctx, query, page, c.pageSize)
		if err != nil {
			sess.Kill()
			return "", err
		}
		log.Debug().Int("page", page).Int("results", len(results)).Msg("page fetched")

		// An empty page still renders: selection is impossible but the
		// paging keys keep working, so the user is never trapped.
		labels := make([]string, len(results))
		for i, r := range results {
			labels[i] = picker.Label(i, r.Title)
		}
		if err := sess.Feed(labels); err != nil {
			sess.Kill()
			return "", err
		}

		outcome, err := sess.Wait()
		if err != nil {
			return "", err
		}

		switch outcome.Kind {
		case picker.Aborted:
			return "", ErrAborted
		case picker.KeyNext:
			page++
		case picker.KeyPrev:
			if page > 1 {
				page--
			}
		case picker.Selected:
			if outcome.Index >= len(results) {
				return "", fmt.Errorf("selection index %d out of range (page has %d items)", outcome.Index, len(results))
			}
			return results[outcome.Index].URL, nil
		}
	}
}
