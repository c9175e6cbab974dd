// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crawler enriches funded publications with abstracts and full texts.
// A Crawler owns the shared fetch client, the publisher rule table, and the
// abstract and full-text stores. Resolution failures are logged and degrade
// to the stored value; they never reach the caller.
package crawler

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/grantscope/internal/extract"
	"github.com/pdiddy/grantscope/internal/fetch"
	"github.com/pdiddy/grantscope/internal/metadata"
	"github.com/pdiddy/grantscope/pkg/types"
)

// Base URLs for abstract and full-text sources. Declared as vars so tests
// can substitute httptest servers.
var (
	vendorAPIBase   = "https://api.elsevier.com/content/article/doi/"
	doiResolverBase = "https://www.doi.org/"
)

// Crawler resolves abstracts and full texts and records them in its stores.
type Crawler struct {
	client      fetch.Getter
	rules       extract.Rules
	apiKey      string
	concurrency int
	outputPath  string

	abstracts *Store
	fulltexts *Store

	log        logrus.FieldLogger
	keyWarning sync.Once
}

// New returns a Crawler fetching through client. A nil logger discards output.
func New(client fetch.Getter, cfg types.CrawlConfig, log logrus.FieldLogger) *Crawler {
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = fetch.DefaultLimit
	}
	outputPath := cfg.OutputPath
	if outputPath == "" {
		outputPath = metadata.DefaultEnrichmentPath
	}
	return &Crawler{
		client:      client,
		rules:       extract.DefaultRules(),
		apiKey:      cfg.ElsevierAPIKey,
		concurrency: concurrency,
		outputPath:  outputPath,
		abstracts:   NewStore(),
		fulltexts:   NewStore(),
		log:         log,
	}
}

// Abstracts returns the abstract store.
func (c *Crawler) Abstracts() *Store { return c.abstracts }

// Fulltexts returns the full-text store.
func (c *Crawler) Fulltexts() *Store { return c.fulltexts }

// RetrieveMetadata collects funded publications from Crossref, writes them
// to the metadata table, and returns the records with their DOIs.
func (c *Crawler) RetrieveMetadata(ctx context.Context, cfg types.MetadataConfig) ([]types.PublicationRecord, []string, error) {
	funder := cfg.FunderID
	if funder == "" {
		funder = metadata.DefaultFunderID
	}
	path := cfg.OutputPath
	if path == "" {
		path = metadata.DefaultPath
	}

	records, dois, err := metadata.NewRetriever(c.client, cfg.Mailto).Retrieve(ctx, funder, cfg.MaxResults)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieving metadata for funder %s: %w", funder, err)
	}
	if err := metadata.WriteFile(path, records); err != nil {
		return nil, nil, err
	}
	c.log.WithFields(logrus.Fields{"funder": funder, "records": len(records), "path": path}).Info("metadata written")
	return records, dois, nil
}

// ExtractAbstract resolves the abstract for doi, stores it, and returns it.
// On failure it logs and returns the previously stored value ("" if none).
func (c *Crawler) ExtractAbstract(ctx context.Context, doi string) string {
	return c.settle(c.abstracts, c.ResolveAbstract(ctx, doi))
}

// ResolveAbstract fetches the abstract for doi without touching the stores.
// Vendor DOIs go to the vendor content API; all others to the DOI resolver
// landing page.
func (c *Crawler) ResolveAbstract(ctx context.Context, doi string) Result {
	if extract.IsVendorIdentifier(doi) {
		source := c.vendorURL(doi)
		body, err := c.client.Get(ctx, source)
		if err != nil {
			return newResult(doi, string(extract.Elsevier), "", err)
		}
		text, err := extract.VendorAbstract(body)
		return newResult(doi, string(extract.Elsevier), text, err)
	}

	body, err := c.client.Get(ctx, doiResolverBase+doi)
	if err != nil {
		return newResult(doi, "doi", "", err)
	}
	text, err := extract.Description(body)
	return newResult(doi, "doi", text, err)
}

// ExtractFulltext resolves the full text for a vendor DOI or publisher URL,
// stores it under key, and returns it. Unmatched publishers yield "" and
// write nothing.
func (c *Crawler) ExtractFulltext(ctx context.Context, key string) string {
	return c.settle(c.fulltexts, c.ResolveFulltext(ctx, key))
}

// ResolveFulltext fetches and extracts full text for key without touching
// the stores.
func (c *Crawler) ResolveFulltext(ctx context.Context, key string) Result {
	rule, ok := c.rules.Match(key)
	if !ok {
		return newResult(key, "", "", fmt.Errorf("%w: %s", ErrNoRule, key))
	}
	body, err := c.client.Get(ctx, c.fetchURL(rule, key))
	if err != nil {
		return newResult(key, string(rule.Publisher), "", err)
	}
	text, err := rule.Extract(body)
	return newResult(key, string(rule.Publisher), text, err)
}

// ExtractFulltextFromHTML extracts full text from an already fetched
// document for rawURL, stores it under rawURL, and returns it.
func (c *Crawler) ExtractFulltextFromHTML(rawURL, html string) string {
	return c.settle(c.fulltexts, c.resolveBody(rawURL, []byte(html)))
}

func (c *Crawler) resolveBody(key string, body []byte) Result {
	rule, ok := c.rules.Match(key)
	if !ok {
		return newResult(key, "", "", fmt.Errorf("%w: %s", ErrNoRule, key))
	}
	text, err := rule.Extract(body)
	return newResult(key, string(rule.Publisher), text, err)
}

// ExtractPDF downloads a PDF, extracts its text up to the acknowledgements,
// stores it under rawURL, and returns it.
func (c *Crawler) ExtractPDF(ctx context.Context, rawURL string) string {
	body, err := c.client.Get(ctx, rawURL)
	if err != nil {
		return c.settle(c.fulltexts, newResult(rawURL, "pdf", "", err))
	}
	text, err := extract.PDFText(body)
	return c.settle(c.fulltexts, newResult(rawURL, "pdf", text, err))
}

// settle applies the degrade-to-default policy: found text is stored and
// returned, anything else is logged and the stored value is returned.
func (c *Crawler) settle(store *Store, r Result) string {
	entry := c.log.WithFields(logrus.Fields{"key": r.Key, "source": r.Source, "status": r.Status.String()})
	switch r.Status {
	case StatusFound:
		store.Set(r.Key, r.Text)
		entry.Debug("resolved")
		return r.Text
	case StatusNotApplicable:
		entry.WithError(r.Err).Debug("no text available")
	case StatusUnreachable:
		entry.WithError(r.Err).Error("source unreachable")
	case StatusUnexpectedShape:
		entry.WithError(r.Err).Warn("source reachable but document shape unexpected")
	}
	return store.Get(r.Key)
}

func (c *Crawler) vendorURL(doi string) string {
	if c.apiKey == "" {
		c.keyWarning.Do(func() {
			c.log.Warn("vendor content API key not set; vendor requests will be unauthenticated")
		})
	}
	return vendorAPIBase + doi + "?httpAccept=text/xml&APIKey=" + url.QueryEscape(c.apiKey)
}

func (c *Crawler) fetchURL(rule extract.Rule, key string) string {
	if rule.Kind == extract.KindVendorAPI {
		return c.vendorURL(key)
	}
	return rule.FetchURL(key)
}
