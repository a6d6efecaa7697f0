// Package export writes normalized records as tabular data.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"nytarchive/internal/normalize"
)

// WriteCSV writes one row per record. The header and column order match
// the normalizer catalog, so every run produces the same schema.
func WriteCSV(w io.Writer, records []normalize.FlatRecord) error {
	cw := csv.NewWriter(w)
	cols := normalize.Columns()

	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(cols))
	for i, rec := range records {
		for j, col := range cols {
			row[j] = formatCell(rec[col])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes records to a CSV file, creating or truncating it.
func WriteFile(path string, records []normalize.FlatRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		// Normalized records only hold scalars, but don't drop data if
		// something else slips through.
		enc, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(enc)
	}
}
