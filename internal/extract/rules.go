// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract maps fetched publisher documents to plain text. It holds
// the ordered publisher rule table, the vendor content API parsers, the
// landing-page description probe, and PDF text extraction.
package extract

import (
	"errors"
	"strings"
)

var (
	// ErrUnexpectedShape marks documents that were fetched but did not have
	// the expected structure (missing container, tag, or attribute).
	ErrUnexpectedShape = errors.New("unexpected document shape")

	// ErrNotOpenAccess marks documents whose open-access marker is absent or false.
	ErrNotOpenAccess = errors.New("not open access")
)

// VendorPrefix is the DOI prefix routed to the vendor content API.
const VendorPrefix = "10.1016"

// IsVendorIdentifier reports whether id is served by the vendor content API.
func IsVendorIdentifier(id string) bool {
	return strings.HasPrefix(id, VendorPrefix)
}

// Publisher names a known full-text source.
type Publisher string

const (
	Elsevier  Publisher = "elsevier"
	MDPI      Publisher = "mdpi"
	Nature    Publisher = "nature"
	Frontiers Publisher = "frontiersin"
)

// Kind distinguishes how a rule obtains and parses its document.
type Kind int

const (
	// KindHTML rules fetch the publisher landing page and select a container.
	KindHTML Kind = iota
	// KindVendorAPI rules query the authenticated vendor content API by DOI.
	KindVendorAPI
)

// Rule describes how to recognise one publisher and pull full text out of
// its documents.
type Rule struct {
	Publisher Publisher
	Kind      Kind

	// Matcher is a substring of the URL (KindHTML) or a DOI prefix
	// (KindVendorAPI).
	Matcher string

	// ContentSelector is a CSS selector (KindHTML) or a tag name
	// (KindVendorAPI) locating the main content.
	ContentSelector string

	// OpenAccessSelector, when set, must match before text is extracted.
	// For KindVendorAPI it names a tag whose text must be true.
	OpenAccessSelector string

	// TruncationMarker cuts the extracted text at its first occurrence.
	TruncationMarker string

	// FetchSuffix is appended to the URL before fetching unless already present.
	FetchSuffix string
}

// RequiresOpenAccessCheck reports whether the rule gates extraction on an
// open-access marker.
func (r Rule) RequiresOpenAccessCheck() bool {
	return r.OpenAccessSelector != ""
}

// Matches reports whether key is handled by this rule.
func (r Rule) Matches(key string) bool {
	if r.Kind == KindVendorAPI {
		return strings.HasPrefix(key, r.Matcher)
	}
	return strings.Contains(key, r.Matcher)
}

// FetchURL returns the URL to fetch for rawURL. Rules with a FetchSuffix
// always yield a URL ending in it.
func (r Rule) FetchURL(rawURL string) string {
	if r.FetchSuffix == "" || strings.HasSuffix(rawURL, r.FetchSuffix) {
		return rawURL
	}
	return strings.TrimSuffix(rawURL, "/") + r.FetchSuffix
}

// Rules is an ordered rule table; the first matching rule wins.
type Rules []Rule

// DefaultRules returns the built-in table: the vendor API path first, then
// mdpi, nature and frontiersin.
func DefaultRules() Rules {
	return Rules{
		{
			Publisher:          Elsevier,
			Kind:               KindVendorAPI,
			Matcher:            VendorPrefix,
			ContentSelector:    "ce:sections",
			OpenAccessSelector: "openaccess",
		},
		{
			Publisher:       MDPI,
			Matcher:         "mdpi",
			ContentSelector: "div.html-body",
			FetchSuffix:     "/htm",
		},
		{
			Publisher:          Nature,
			Matcher:            "nature",
			ContentSelector:    "div.main-content",
			OpenAccessSelector: `span[data-test="open-access"]`,
			TruncationMarker:   "Data availability",
		},
		{
			Publisher:        Frontiers,
			Matcher:          "frontiersin",
			ContentSelector:  "div.JournalFullText",
			TruncationMarker: "Conflict of Interest",
		},
	}
}

// Match returns the first rule handling key.
func (rs Rules) Match(key string) (Rule, bool) {
	for _, r := range rs {
		if r.Matches(key) {
			return r, true
		}
	}
	return Rule{}, false
}

// Truncate returns text up to the first occurrence of marker. An empty or
// absent marker leaves text unchanged.
func Truncate(text, marker string) string {
	if marker == "" {
		return text
	}
	if i := strings.Index(text, marker); i >= 0 {
		return text[:i]
	}
	return text
}
