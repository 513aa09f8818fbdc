package core

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportCSV = "CO2 per capita,1997,1998,1999\n" +
	"Brazil,1.0,2.0,3.0\n" +
	"Chile,0.25,0.50,0.75\n" +
	"China,5.0,4.0,3.5\n" +
	"Denmark,10.1,9.9,9.8\n"

func TestWriteSubset_RoundTrip(t *testing.T) {
	table := mustParse(t, exportCSV)
	keys := []string{"Denmark", "Brazil", "Chile"}

	var buf bytes.Buffer
	require.NoError(t, WriteSubset(&buf, table, keys))

	want := "CO2 per capita,1997,1998,1999\n" +
		"Denmark,10.1,9.9,9.8\n" +
		"Brazil,1.0,2.0,3.0\n" +
		"Chile,0.25,0.50,0.75\n"
	assert.Equal(t, want, buf.String())

	reloaded, err := Parse(&buf, "CO2 per capita")
	require.NoError(t, err)
	assert.Equal(t, keys, reloaded.Keys())
	assert.Equal(t, table.Years, reloaded.Years)
	for _, k := range keys {
		orig, _ := table.Row(k)
		got, _ := reloaded.Row(k)
		assert.Equal(t, orig, got, "row %s", k)
	}
}

func TestWriteSubset_UnknownKey(t *testing.T) {
	table := mustParse(t, exportCSV)

	err := WriteSubset(&bytes.Buffer{}, table, []string{"Brazil", "Atlantis"})
	assert.ErrorIs(t, err, ErrSelectionUnknownKey)
}

func TestExportSubsetFile(t *testing.T) {
	table := mustParse(t, exportCSV)
	path := filepath.Join(t.TempDir(), "Emissions_subset.csv")

	require.NoError(t, ExportSubsetFile(path, table, []string{"China", "Chile", "Brazil"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "CO2 per capita,1997,1998,1999", lines[0])
	assert.Equal(t, "China,5.0,4.0,3.5", lines[1])
}

func TestExportSubsetFile_WriteFailure(t *testing.T) {
	table := mustParse(t, exportCSV)
	path := filepath.Join(t.TempDir(), "no-such-dir", "out.csv")

	err := ExportSubsetFile(path, table, []string{"Brazil"})
	assert.ErrorIs(t, err, ErrWriteFailure)
	assert.Equal(t, "EXP001", MapError(err).Code)
}
