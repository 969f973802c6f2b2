package edgeio

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

// ScoreTable is a keyed numeric table: one row per key, one value per column
type ScoreTable struct {
	KeyColumn string
	Columns   []string
	Keys      []string
	Rows      [][]float64
}

// WriteScoreTable writes t as comma-separated text with a header row and no
// index column. NaN cells are written empty.
func WriteScoreTable(w io.Writer, t *ScoreTable) error {
	if len(t.Keys) != len(t.Rows) {
		return fmt.Errorf("score table has %d keys but %d rows", len(t.Keys), len(t.Rows))
	}

	cw := csv.NewWriter(w)

	header := make([]string, 0, len(t.Columns)+1)
	header = append(header, t.KeyColumn)
	header = append(header, t.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for i, key := range t.Keys {
		row := t.Rows[i]
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %q has %d values, want %d", key, len(row), len(t.Columns))
		}
		record[0] = key
		for j, v := range row {
			record[j+1] = formatFloat(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteScoreTableFile writes t to path through a temporary file in the same
// directory, so readers never observe a half-written table.
func WriteScoreTableFile(path string, t *ScoreTable) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteScoreTable(tmp, t); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
