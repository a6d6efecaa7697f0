package export_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"nytarchive/internal/export"
	"nytarchive/internal/normalize"
)

func TestWriteCSV(t *testing.T) {
	n, err := normalize.New(nil)
	require.NoError(t, err)

	flat, err := n.Normalize(normalize.RawRecord{
		"_id":        "nyt://article/1",
		"headline":   map[string]any{"main": "Title"},
		"word_count": 420.0,
		"keywords": []any{
			map[string]any{"value": "a"},
			map[string]any{"value": "b"},
		},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, []normalize.FlatRecord{flat}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	cols := normalize.Columns()
	require.Equal(t, cols, rows[0])
	require.Len(t, rows[1], len(cols))

	byCol := make(map[string]string, len(cols))
	for i, col := range cols {
		byCol[col] = rows[1][i]
	}

	require.Equal(t, "nyt://article/1", byCol["_id"])
	require.Equal(t, "Title", byCol["headline"])
	require.Equal(t, "420", byCol["word_count"])
	require.Equal(t, "a,b", byCol["keywords"])
	require.Empty(t, byCol["abstract"]) // absent source field renders empty
}

func TestWriteCSVNoRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}

func TestWriteFile(t *testing.T) {
	n, err := normalize.New(nil)
	require.NoError(t, err)

	flat, err := n.Normalize(normalize.RawRecord{"_id": "nyt://article/1"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "articles.csv")
	require.NoError(t, export.WriteFile(path, []normalize.FlatRecord{flat}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "nyt://article/1")
}
