//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Metadata retrieves funded publications from Crossref into data/metadata.csv.
func Metadata() error {
	mg.Deps(Init)
	return sh.RunV(binary(), "metadata")
}

// Enrich resolves abstracts and full texts for data/metadata.csv.
func Enrich() error {
	mg.Deps(Metadata)
	return sh.RunV(binary(), "enrich")
}

// Clean cleans the grant registry export in data/.
func Clean() error {
	mg.Deps(Init)
	return sh.RunV(binary(), "clean")
}

// Cluster clusters registry topics with the default settings.
func Cluster() error {
	mg.Deps(Init)
	return sh.RunV(binary(), "cluster")
}

// Pipeline runs enrichment and clustering.
func Pipeline() {
	mg.SerialDeps(Enrich, Cluster)
}
