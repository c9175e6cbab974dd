// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/grantscope/pkg/types"
)

// DefaultPath is where the metadata table is written on every run.
const DefaultPath = "./data/metadata.csv"

// Header lists the metadata table columns in order.
var Header = []string{"AWARD", "DOI", "TITLE", "ABSTRACT", "RESOURCE"}

// WriteCSV encodes records as the metadata table.
func WriteCSV(w io.Writer, records []types.PublicationRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Award, r.DOI, r.Title, r.Abstract, r.ResourceURL}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV decodes a metadata table. Columns are located by header name so
// reordered tables still load.
func ReadCSV(r io.Reader) ([]types.PublicationRecord, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading metadata table: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	idx := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		idx[name] = i
	}
	if _, ok := idx["DOI"]; !ok {
		return nil, fmt.Errorf("metadata table has no DOI column")
	}
	field := func(row []string, name string) string {
		if i, ok := idx[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	records := make([]types.PublicationRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, types.PublicationRecord{
			Award:       field(row, "AWARD"),
			DOI:         field(row, "DOI"),
			Title:       field(row, "TITLE"),
			Abstract:    field(row, "ABSTRACT"),
			ResourceURL: field(row, "RESOURCE"),
		})
	}
	return records, nil
}

// WriteFile replaces the file at path with the metadata table, creating
// parent directories. The table is written to a temporary file first and
// renamed on success.
func WriteFile(path string, records []types.PublicationRecord) error {
	return writeAtomic(path, func(w io.Writer) error { return WriteCSV(w, records) })
}

// ReadFile loads the metadata table at path.
func ReadFile(path string) ([]types.PublicationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// writeAtomic writes through encode into a temp file next to path and
// renames it into place.
func writeAtomic(path string, encode func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".grantscope-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	encErr := encode(tmpFile)
	closeErr := tmpFile.Close()
	if encErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, encErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// DefaultEnrichmentPath is where enrichment output is written.
const DefaultEnrichmentPath = "./data/enrichment.csv"

// EnrichmentHeader lists the enrichment table columns in order.
var EnrichmentHeader = []string{"DOI", "RESOURCE", "ABSTRACT", "FULLTEXT"}

// WriteEnrichmentCSV encodes enrichment rows.
func WriteEnrichmentCSV(w io.Writer, rows []types.Enrichment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(EnrichmentHeader); err != nil {
		return err
	}
	for _, e := range rows {
		if err := cw.Write([]string{e.DOI, e.ResourceURL, e.Abstract, e.Fulltext}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEnrichmentFile replaces the file at path with the enrichment table.
func WriteEnrichmentFile(path string, rows []types.Enrichment) error {
	return writeAtomic(path, func(w io.Writer) error { return WriteEnrichmentCSV(w, rows) })
}
