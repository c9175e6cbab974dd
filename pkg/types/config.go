// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request timeout (default 10s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retries on transport errors, 429 and 5xx (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RequestsPerSecond caps the request rate across the shared client.
	// Zero disables rate limiting.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// MetadataConfig holds settings for the metadata retrieval stage.
type MetadataConfig struct {
	// FunderID identifies the granting agency in the Crossref funder registry
	// (default "501100002347").
	FunderID string `json:"funder_id" yaml:"funder_id"`

	// MaxResults is the upper bound on retrieved records (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Mailto is sent to Crossref to join the polite pool. Optional.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`

	// OutputPath is the metadata table written on every run
	// (default "./data/metadata.csv").
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// CrawlConfig holds settings for abstract and full-text enrichment.
type CrawlConfig struct {
	HTTPConfig `yaml:",inline"`

	// ElsevierAPIKey authenticates requests to the vendor content API.
	ElsevierAPIKey string `json:"elsevier_api_key,omitempty" yaml:"elsevier_api_key,omitempty"`

	// Concurrency bounds the number of in-flight fetches during fan-out (default 8).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// OutputPath is the enrichment table (default "./data/enrichment.csv").
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// ClusterConfig holds settings for topic clustering.
type ClusterConfig struct {
	// Clusterer is one of kmeans, DBSCAN, agglomerativeclustering.
	Clusterer string `json:"clusterer" yaml:"clusterer"`

	// Vectorizer is one of countVectorizer, tfidfVectorizer.
	Vectorizer string `json:"vectorizer" yaml:"vectorizer"`

	// Preprocess enables German stopword and punctuation removal.
	Preprocess bool `json:"preprocess" yaml:"preprocess"`

	NClusters   int     `json:"n_clusters" yaml:"n_clusters"`
	Eps         float64 `json:"eps" yaml:"eps"`
	MinSamples  int     `json:"min_samples" yaml:"min_samples"`
	Linkage     string  `json:"linkage" yaml:"linkage"`
	RandomState int64   `json:"random_state" yaml:"random_state"`

	// NSamples limits the number of topics clustered; 0 means all.
	NSamples int `json:"n_samples" yaml:"n_samples"`
}

// RegistryConfig holds settings for reading the grant registry.
type RegistryConfig struct {
	// DataFile is the semicolon-delimited, Latin-1 encoded registry export.
	DataFile string `json:"data_file" yaml:"data_file"`

	// Ressort selects rows by the Ressort column (default "BMBF").
	Ressort string `json:"ressort" yaml:"ressort"`
}
