// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// descriptionProbes lists landing-page abstract locations in priority order.
var descriptionProbes = []string{
	`meta[name="dc.description"]`,
	`meta[name="description"]`,
	`meta[property="og:description"]`,
	`meta[name="citation_abstract"]`,
}

func parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse document: %v", ErrUnexpectedShape, err)
	}
	return doc, nil
}

// Description returns the content attribute of the first description meta
// tag present in a landing page.
func Description(body []byte) (string, error) {
	doc, err := parse(body)
	if err != nil {
		return "", err
	}
	for _, sel := range descriptionProbes {
		tag := doc.Find(sel).First()
		if tag.Length() == 0 {
			continue
		}
		content, ok := tag.Attr("content")
		if !ok {
			return "", fmt.Errorf("%w: %s has no content attribute", ErrUnexpectedShape, sel)
		}
		return content, nil
	}
	return "", fmt.Errorf("%w: no description meta tag", ErrUnexpectedShape)
}

// Extract applies the rule to a fetched document and returns its text.
func (r Rule) Extract(body []byte) (string, error) {
	if r.Kind == KindVendorAPI {
		return r.extractVendor(body)
	}
	return r.extractHTML(body)
}

func (r Rule) extractHTML(body []byte) (string, error) {
	doc, err := parse(body)
	if err != nil {
		return "", err
	}
	if r.RequiresOpenAccessCheck() && doc.Find(r.OpenAccessSelector).Length() == 0 {
		return "", fmt.Errorf("%s: %w", r.Publisher, ErrNotOpenAccess)
	}
	content := doc.Find(r.ContentSelector).First()
	if content.Length() == 0 {
		return "", fmt.Errorf("%w: %s: no %s", ErrUnexpectedShape, r.Publisher, r.ContentSelector)
	}
	return strings.TrimSpace(Truncate(joinText(content), r.TruncationMarker)), nil
}

func (r Rule) extractVendor(body []byte) (string, error) {
	doc, err := parse(body)
	if err != nil {
		return "", err
	}
	if r.RequiresOpenAccessCheck() {
		oa := findTag(doc, r.OpenAccessSelector)
		if oa.Length() == 0 {
			return "", fmt.Errorf("%w: %s: no %s", ErrUnexpectedShape, r.Publisher, r.OpenAccessSelector)
		}
		if !isTrue(oa.Text()) {
			return "", fmt.Errorf("%s: %w", r.Publisher, ErrNotOpenAccess)
		}
	}
	sections := findTag(doc, r.ContentSelector)
	if sections.Length() == 0 {
		return "", fmt.Errorf("%w: %s: no %s", ErrUnexpectedShape, r.Publisher, r.ContentSelector)
	}
	return strings.TrimSpace(Truncate(joinText(sections.First()), r.TruncationMarker)), nil
}

// VendorAbstract returns the dc:description text of a vendor API response.
func VendorAbstract(body []byte) (string, error) {
	doc, err := parse(body)
	if err != nil {
		return "", err
	}
	desc := findTag(doc, "dc:description")
	if desc.Length() == 0 {
		return "", fmt.Errorf("%w: no dc:description", ErrUnexpectedShape)
	}
	return strings.TrimSpace(desc.First().Text()), nil
}

// joinText returns the trimmed, non-empty descendant text nodes of sel in
// document order, separated by single spaces.
func joinText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				if t := strings.TrimSpace(c.Text()); t != "" {
					parts = append(parts, t)
				}
				return
			}
			walk(c)
		})
	}
	walk(sel)
	return strings.Join(parts, " ")
}

// findTag selects elements by raw (possibly namespaced) tag name, which CSS
// selectors cannot express for prefixed names such as "ce:sections".
func findTag(doc *goquery.Document, name string) *goquery.Selection {
	return doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return goquery.NodeName(s) == name
	})
}

func isTrue(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return true
	}
	return false
}
