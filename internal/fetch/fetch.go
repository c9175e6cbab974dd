// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch fans out URL fetches over a shared client with a bounded
// number of requests in flight and collects one Page per URL.
package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultLimit is the number of concurrent fetches used when the caller
// passes a non-positive limit.
const DefaultLimit = 8

// Getter fetches the body at a URL. *httputil.Client implements it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Page is the outcome of fetching one URL. A failed fetch leaves Body empty
// and records the cause in Err.
type Page struct {
	URL  string
	Body []byte
	Err  error
}

// Absent reports whether the fetch failed.
func (p Page) Absent() bool {
	return p.Err != nil
}

// FetchAll fetches every URL and waits for all of them. A failing URL is
// recorded on its own Page and never cancels its siblings. Duplicate URLs
// collapse to a single entry in the returned map.
func FetchAll(ctx context.Context, g Getter, urls []string, limit int) map[string]Page {
	if limit <= 0 {
		limit = DefaultLimit
	}

	pages := make([]Page, len(urls))
	var group errgroup.Group
	group.SetLimit(limit)

	for i, u := range urls {
		group.Go(func() error {
			body, err := g.Get(ctx, u)
			pages[i] = Page{URL: u, Body: body, Err: err}
			return nil
		})
	}
	group.Wait()

	out := make(map[string]Page, len(pages))
	for _, p := range pages {
		out[p.URL] = p
	}
	return out
}
