// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawler

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/grantscope/internal/extract"
	"github.com/pdiddy/grantscope/internal/fetch"
	"github.com/pdiddy/grantscope/internal/metadata"
	"github.com/pdiddy/grantscope/pkg/types"
)

// EnrichSummary holds the outcome of an enrichment run.
type EnrichSummary struct {
	Rows      []types.Enrichment
	Abstracts int
	Fulltexts int
	Failed    int
}

// Total returns the number of records processed.
func (s EnrichSummary) Total() int {
	return len(s.Rows)
}

// FulltextKey returns the key under which a record's full text is stored:
// the DOI for vendor publications, the resource URL otherwise.
func FulltextKey(rec types.PublicationRecord) string {
	if extract.IsVendorIdentifier(rec.DOI) {
		return rec.DOI
	}
	return rec.ResourceURL
}

// Enrich resolves abstracts for records that lack one and full texts for
// every record a publisher rule handles. Publisher pages are fetched through
// one bounded fan-out; vendor documents and abstracts run on a worker group
// of the same size. Failures are counted and logged per record.
func (c *Crawler) Enrich(ctx context.Context, records []types.PublicationRecord) EnrichSummary {
	var summary EnrichSummary

	for _, r := range c.resolveAbstracts(ctx, records) {
		c.settle(c.abstracts, r)
		if r.Status.Failed() {
			summary.Failed++
		}
	}
	for _, r := range c.resolveFulltexts(ctx, records) {
		c.settle(c.fulltexts, r)
		if r.Status.Failed() {
			summary.Failed++
		}
	}

	summary.Rows = make([]types.Enrichment, len(records))
	for i, rec := range records {
		row := types.Enrichment{
			DOI:         rec.DOI,
			ResourceURL: rec.ResourceURL,
			Abstract:    c.abstracts.Get(rec.DOI),
			Fulltext:    c.fulltexts.Get(FulltextKey(rec)),
		}
		if row.Abstract != "" {
			summary.Abstracts++
		}
		if row.Fulltext != "" {
			summary.Fulltexts++
		}
		summary.Rows[i] = row
	}

	c.log.WithFields(logrus.Fields{
		"records":   summary.Total(),
		"abstracts": summary.Abstracts,
		"fulltexts": summary.Fulltexts,
		"failed":    summary.Failed,
	}).Info("enrichment complete")
	return summary
}

// WriteEnrichment writes the summary rows to the configured enrichment table.
func (c *Crawler) WriteEnrichment(summary EnrichSummary) error {
	if err := metadata.WriteEnrichmentFile(c.outputPath, summary.Rows); err != nil {
		return err
	}
	c.log.WithField("path", c.outputPath).Info("enrichment written")
	return nil
}

// resolveAbstracts seeds the store with registry abstracts and resolves the
// rest concurrently.
func (c *Crawler) resolveAbstracts(ctx context.Context, records []types.PublicationRecord) []Result {
	var pending []string
	for _, rec := range records {
		if rec.DOI == "" {
			continue
		}
		if rec.Abstract != "" {
			c.abstracts.Set(rec.DOI, rec.Abstract)
			continue
		}
		pending = append(pending, rec.DOI)
	}

	results := make([]Result, len(pending))
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, doi := range pending {
		g.Go(func() error {
			results[i] = c.ResolveAbstract(ctx, doi)
			return nil
		})
	}
	g.Wait()
	return results
}

// resolveFulltexts batch-fetches publisher pages through fetch.FetchAll and
// resolves vendor documents on a worker group.
func (c *Crawler) resolveFulltexts(ctx context.Context, records []types.PublicationRecord) []Result {
	var vendor []string
	targets := make(map[string][]string) // fetch URL -> store keys
	var urls []string
	for _, rec := range records {
		key := FulltextKey(rec)
		if key == "" {
			continue
		}
		rule, ok := c.rules.Match(key)
		if !ok {
			continue
		}
		if rule.Kind == extract.KindVendorAPI {
			vendor = append(vendor, key)
			continue
		}
		u := rule.FetchURL(key)
		if _, seen := targets[u]; !seen {
			urls = append(urls, u)
		}
		targets[u] = append(targets[u], key)
	}

	var results []Result
	pages := fetch.FetchAll(ctx, c.client, urls, c.concurrency)
	for _, u := range urls {
		page := pages[u]
		for _, key := range targets[u] {
			if page.Absent() {
				rule, _ := c.rules.Match(key)
				results = append(results, newResult(key, string(rule.Publisher), "", page.Err))
				continue
			}
			results = append(results, c.resolveBody(key, page.Body))
		}
	}

	vendorResults := make([]Result, len(vendor))
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, key := range vendor {
		g.Go(func() error {
			vendorResults[i] = c.ResolveFulltext(ctx, key)
			return nil
		})
	}
	g.Wait()
	return append(results, vendorResults...)
}
