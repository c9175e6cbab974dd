// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/pdiddy/grantscope/pkg/types"
)

func latin1(t *testing.T, s string) *bytes.Reader {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestReadDecodesLatin1(t *testing.T) {
	tbl, err := Read(latin1(t, "FKZ;Thema;Ressort\n01A;Förderung;BMBF\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"FKZ", "Thema", "Ressort"}, tbl.Header)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Förderung", tbl.Rows[0][1])
}

func TestReadNamesEmptyHeaders(t *testing.T) {
	tbl, err := Read(strings.NewReader("FKZ;;Thema;\n1;x;y;z\n2\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"FKZ", "Unnamed: 1", "Thema", "Unnamed: 3"}, tbl.Header)
	assert.Equal(t, []string{"2", "", "", ""}, tbl.Rows[1])
}

func TestReadEmpty(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.Error(t, err)
}

func TestCleanStripsArtefacts(t *testing.T) {
	tbl, err := Read(strings.NewReader(`"A";"FKZ"` + "\n" + `="1";1 2 3` + "\n"))
	require.NoError(t, err)
	require.NoError(t, Clean(tbl))

	assert.Equal(t, []string{"A", "FKZ"}, tbl.Header)
	assert.Equal(t, []string{"1", "123"}, tbl.Rows[0])
}

func TestCleanDropsUnnamed26(t *testing.T) {
	header := make([]string, 27)
	row := make([]string, 27)
	for i := range 26 {
		header[i] = "c" + string(rune('a'+i))
		row[i] = "v"
	}
	header[0] = "FKZ"
	row[26] = "trailing"

	tbl, err := Read(strings.NewReader(strings.Join(header, ";") + "\n" + strings.Join(row, ";") + "\n"))
	require.NoError(t, err)
	require.Equal(t, "Unnamed: 26", tbl.Header[26])
	require.NoError(t, Clean(tbl))
	assert.Len(t, tbl.Header, 26)
	assert.Len(t, tbl.Rows[0], 26)
	assert.NotContains(t, tbl.Rows[0], "trailing")
}

func TestCleanToleratesAbsentUnnamed26(t *testing.T) {
	tbl, err := Read(strings.NewReader("FKZ;Thema\n01 A;x\n"))
	require.NoError(t, err)
	require.NoError(t, Clean(tbl))
	assert.Equal(t, []string{"FKZ", "Thema"}, tbl.Header)
	assert.Equal(t, "01A", tbl.Rows[0][0])
}

func TestCleanMissingFKZ(t *testing.T) {
	tbl, err := Read(strings.NewReader("Thema;Ressort\nx;BMBF\n"))
	require.NoError(t, err)
	assert.ErrorIs(t, Clean(tbl), ErrMissingColumn)
}

func TestFilterAndColumn(t *testing.T) {
	tbl, err := Read(strings.NewReader("FKZ;Thema;Ressort\n1;Solar;BMBF\n2;Roads;BMVI\n3;Wind;BMBF\n"))
	require.NoError(t, err)
	require.NoError(t, Clean(tbl))

	bmbf, err := tbl.Filter("Ressort", "BMBF")
	require.NoError(t, err)
	topics, err := bmbf.Column("Thema")
	require.NoError(t, err)
	assert.Equal(t, []string{"Solar", "Wind"}, topics)

	_, err = tbl.Column("Nope")
	assert.ErrorIs(t, err, ErrMissingColumn)
	_, err = tbl.Filter("Nope", "x")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestWriteFileRoundTrip(t *testing.T) {
	tbl, err := Read(strings.NewReader("FKZ;Thema\n1;a;b\n"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "clean.csv")
	require.NoError(t, tbl.WriteFile(path))

	back, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, tbl.Header, back.Header)
}

func TestLoadAndTopics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "BMBF.csv")
	raw, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte("\"FKZ\";Thema;Ressort;\n=\"01 A\";Solar;BMBF;x\n02B;Straßen;BMVI;y\n03C;Wind;BMBF;z\n"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	tbl, err := Load(types.RegistryConfig{DataFile: path})
	require.NoError(t, err)
	assert.Equal(t, "01A", tbl.Rows[0][0])

	topics, err := tbl.Topics("")
	require.NoError(t, err)
	assert.Equal(t, []string{"Solar", "Wind"}, topics)

	topics, err = tbl.Topics("BMVI")
	require.NoError(t, err)
	assert.Equal(t, []string{"Straßen"}, topics)
}

func TestLoadMissingFKZ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "BMBF.csv")
	require.NoError(t, os.WriteFile(path, []byte("Thema;Ressort\nx;BMBF\n"), 0o644))
	_, err := Load(types.RegistryConfig{DataFile: path})
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestExtractFKZ(t *testing.T) {
	assert.Equal(t, []string{"01LA1112", "03SF0"}, ExtractFKZ("see 01LA1112 and 03SF0 for details"))
	assert.Equal(t, []string{}, ExtractFKZ("no ids here"))
}

func TestExtractURLs(t *testing.T) {
	got := ExtractURLs("a http://x.org/1 b https://y.org/2?q=1 c")
	assert.Equal(t, []string{"http://x.org/1", "https://y.org/2?q=1"}, got)
	assert.Equal(t, []string{}, ExtractURLs("none"))
}

func TestTextHelpers(t *testing.T) {
	assert.Equal(t, "bold text", RemoveHTMLTags("<b>bold</b> <i>text</i>"))
	assert.Equal(t, "see  now", RemoveURLs("see https://x.org/a now"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, SplitEntries("a & b|c; d;;"))
}
