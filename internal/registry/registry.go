// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry reads and cleans the funder's grant registry export, a
// semicolon-delimited Latin-1 file whose cells carry spreadsheet formula
// artefacts such as ="0123".
package registry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/pdiddy/grantscope/pkg/types"
)

// ErrMissingColumn is returned when a required column is absent.
var ErrMissingColumn = errors.New("missing column")

// Column names used by the pipeline.
const (
	// FKZColumn holds the grant identifier (Förderkennzeichen).
	FKZColumn     = "FKZ"
	RessortColumn = "Ressort"
	TopicColumn   = "Thema"
)

// DefaultRessort selects the research ministry's grants.
const DefaultRessort = "BMBF"

// droppedColumn is the trailing empty column produced by the export.
const droppedColumn = "Unnamed: 26"

// Table is a header row plus data rows of equal width.
type Table struct {
	Header []string
	Rows   [][]string
}

// Read decodes a Latin-1 registry export. Empty header cells are named
// "Unnamed: {index}". Short rows are padded to the header width.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	cr.Comma = ';'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parsing registry: empty input")
	}

	t := &Table{Header: make([]string, len(records[0]))}
	for i, name := range records[0] {
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		t.Header[i] = name
	}
	for _, rec := range records[1:] {
		row := make([]string, len(t.Header))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadFile opens path and calls Read.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening registry: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Load reads cfg.DataFile and cleans it.
func Load(cfg types.RegistryConfig) (*Table, error) {
	t, err := ReadFile(cfg.DataFile)
	if err != nil {
		return nil, err
	}
	if err := Clean(t); err != nil {
		return nil, fmt.Errorf("cleaning %s: %w", cfg.DataFile, err)
	}
	return t, nil
}

// Topics returns the topic of every row whose Ressort equals ressort, or
// DefaultRessort when ressort is empty.
func (t *Table) Topics(ressort string) ([]string, error) {
	if ressort == "" {
		ressort = DefaultRessort
	}
	rows, err := t.Filter(RessortColumn, ressort)
	if err != nil {
		return nil, err
	}
	return rows.Column(TopicColumn)
}

// Clean strips quote and equals artefacts from header names and values,
// drops the trailing unnamed column when present, and removes spaces from
// grant identifiers. It modifies t in place.
func Clean(t *Table) error {
	for i, name := range t.Header {
		t.Header[i] = stripArtefacts(name)
	}

	if drop := t.index(droppedColumn); drop >= 0 {
		t.Header = remove(t.Header, drop)
		for i, row := range t.Rows {
			t.Rows[i] = remove(row, drop)
		}
	}

	fkz := t.index(FKZColumn)
	if fkz < 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, FKZColumn)
	}

	for _, row := range t.Rows {
		for j, v := range row {
			row[j] = stripArtefacts(v)
		}
		row[fkz] = strings.ReplaceAll(row[fkz], " ", "")
	}
	return nil
}

// Column returns every value of the named column.
func (t *Table) Column(name string) ([]string, error) {
	i := t.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, nil
}

// Filter returns a table holding the rows whose column equals value.
func (t *Table) Filter(column, value string) (*Table, error) {
	i := t.index(column)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, column)
	}
	out := &Table{Header: append([]string(nil), t.Header...)}
	for _, row := range t.Rows {
		if row[i] == value {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// Write emits the table as UTF-8, semicolon-delimited CSV.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("writing registry: %w", err)
	}
	return nil
}

// WriteFile writes the table to path, replacing any existing file.
func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (t *Table) index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

func stripArtefacts(s string) string {
	return strings.NewReplacer(`"`, "", "=", "").Replace(s)
}

func remove(s []string, i int) []string {
	out := make([]string, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}
