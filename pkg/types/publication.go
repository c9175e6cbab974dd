// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the grantscope pipeline:
// publication records produced by metadata retrieval, per-record enrichment
// output, and the stage configuration structs.
package types

// PublicationRecord holds the bibliographic fields kept for one funded
// publication. Records are produced by the metadata retriever and are not
// modified afterwards.
type PublicationRecord struct {
	// DOI is the persistent document identifier (e.g. "10.3390/su12010001").
	DOI string `json:"doi" yaml:"doi"`

	// Title is the first title listed by the registry.
	Title string `json:"title" yaml:"title"`

	// Abstract is the registry abstract, possibly empty.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Award lists the grant codes attributed to the queried funder,
	// joined with ", ". Empty when no funder entry matched.
	Award string `json:"award" yaml:"award"`

	// ResourceURL is the primary landing page URL, possibly empty.
	ResourceURL string `json:"resource_url" yaml:"resource_url"`
}

// Enrichment is the crawl output for one publication.
type Enrichment struct {
	DOI         string `json:"doi" yaml:"doi"`
	ResourceURL string `json:"resource_url" yaml:"resource_url"`
	Abstract    string `json:"abstract" yaml:"abstract"`
	Fulltext    string `json:"fulltext" yaml:"fulltext"`
}
