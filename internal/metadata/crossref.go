// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata retrieves funded publications from the Crossref works API
// and persists them as a flat metadata table.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/grantscope/pkg/types"
)

// crossrefWorksBase is the Crossref works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefWorksBase = "https://api.crossref.org/works"

// funderDOIPrefix prefixes funder identifiers in the Open Funder Registry.
const funderDOIPrefix = "10.13039/"

// maxRows is the largest page Crossref serves.
const maxRows = 1000

// DefaultFunderID identifies the German Federal Ministry of Education and Research.
const DefaultFunderID = "501100002347"

// Getter fetches the body at a URL. *httputil.Client implements it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Retriever pages through Crossref works filtered by funder.
type Retriever struct {
	client Getter
	mailto string
}

// NewRetriever returns a Retriever. mailto is optional and joins the
// Crossref polite pool.
func NewRetriever(client Getter, mailto string) *Retriever {
	return &Retriever{client: client, mailto: mailto}
}

// Retrieve collects up to maxResults records funded by funderID and returns
// them with the list of their DOIs. An error on any page aborts the whole
// retrieval.
func (r *Retriever) Retrieve(ctx context.Context, funderID string, maxResults int) ([]types.PublicationRecord, []string, error) {
	if funderID == "" {
		return nil, nil, fmt.Errorf("funder identifier is required")
	}
	if maxResults <= 0 {
		return nil, nil, fmt.Errorf("max results must be positive, got %d", maxResults)
	}

	var records []types.PublicationRecord
	cursor := "*"
	for len(records) < maxResults {
		rows := min(maxResults-len(records), maxRows)
		page, err := r.page(ctx, funderID, rows, cursor)
		if err != nil {
			return nil, nil, err
		}
		if len(page.Items) == 0 {
			break
		}
		for _, item := range page.Items {
			if len(records) >= maxResults {
				break
			}
			records = append(records, item.record(funderID))
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	dois := make([]string, len(records))
	for i, rec := range records {
		dois[i] = rec.DOI
	}
	return records, dois, nil
}

func (r *Retriever) page(ctx context.Context, funderID string, rows int, cursor string) (crossrefMessage, error) {
	params := url.Values{
		"filter": {"funder:" + funderID},
		"rows":   {strconv.Itoa(rows)},
		"cursor": {cursor},
	}
	if r.mailto != "" {
		params.Set("mailto", r.mailto)
	}

	body, err := r.client.Get(ctx, crossrefWorksBase+"?"+params.Encode())
	if err != nil {
		return crossrefMessage{}, fmt.Errorf("Crossref works request: %w", err)
	}

	var cr crossrefResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return crossrefMessage{}, fmt.Errorf("parsing Crossref response: %w", err)
	}
	return cr.Message, nil
}

// Crossref API JSON structures.
type crossrefResponse struct {
	Status  string          `json:"status"`
	Message crossrefMessage `json:"message"`
}

type crossrefMessage struct {
	TotalResults int            `json:"total-results"`
	NextCursor   string         `json:"next-cursor"`
	Items        []crossrefWork `json:"items"`
}

type crossrefWork struct {
	DOI      string           `json:"DOI"`
	Title    []string         `json:"title"`
	Abstract string           `json:"abstract"`
	Funder   []crossrefFunder `json:"funder"`
	Resource *struct {
		Primary *struct {
			URL string `json:"URL"`
		} `json:"primary"`
	} `json:"resource"`
}

type crossrefFunder struct {
	DOI   string   `json:"DOI"`
	Name  string   `json:"name"`
	Award []string `json:"award"`
}

// record converts a work into a PublicationRecord. The award comes from the
// first funder entry matching funderID.
func (w crossrefWork) record(funderID string) types.PublicationRecord {
	rec := types.PublicationRecord{
		DOI:      w.DOI,
		Abstract: w.Abstract,
	}
	if len(w.Title) > 0 {
		rec.Title = w.Title[0]
	}
	for _, f := range w.Funder {
		if f.DOI == funderDOIPrefix+funderID {
			rec.Award = strings.Join(f.Award, ", ")
			break
		}
	}
	if w.Resource != nil && w.Resource.Primary != nil {
		rec.ResourceURL = w.Resource.Primary.URL
	}
	return rec
}
