// Package csvio loads and writes annotation tables as CSV.
//
// Empty cells and the usual missing-value markers ("NA", "N/A", "null", "NaN",
// "None" and friends, matched exactly) are read as missing values. Missing
// values are written as empty cells.
package csvio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/emoclean/pkg/emoclean/internalerr"
	"github.com/cognicore/emoclean/pkg/emoclean/table"
)

const bom = "\ufeff"

// nullMarkers are cell values read as missing, in addition to the empty cell.
var nullMarkers = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true,
	"-1.#IND": true, "-1.#QNAN": true, "1.#IND": true, "1.#QNAN": true,
	"-NaN": true, "-nan": true, "NaN": true, "nan": true,
	"<NA>": true, "N/A": true, "n/a": true, "NA": true,
	"NULL": true, "null": true, "None": true,
}

// IsNullMarker reports whether a raw cell reads as a missing value.
func IsNullMarker(cell string) bool {
	return cell == "" || nullMarkers[cell]
}

// Read parses a CSV stream with a header row.
// Every column named in required must be present in the header.
func Read(r io.Reader, required ...string) (*table.Table, error) {
	reader := csv.NewReader(bufio.NewReader(r))

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read header: %w: empty file", internalerr.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}

	seen := make(map[string]bool, len(header))
	for _, col := range header {
		if seen[col] {
			return nil, fmt.Errorf("read header: %w: duplicate column %q", internalerr.ErrInvalidInput, col)
		}
		seen[col] = true
	}
	for _, col := range required {
		if !seen[col] {
			return nil, fmt.Errorf("read header: %w: %q", internalerr.ErrMissingColumn, col)
		}
	}

	t := table.New(header...)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", t.Len()+1, err)
		}

		row := make(table.Row, len(header))
		for i, col := range header {
			if IsNullMarker(record[i]) {
				row[col] = table.Null
				continue
			}
			row[col] = table.Str(record[i])
		}
		t.Append(row)
	}
	return t, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string, required ...string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	t, err := Read(f, required...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Write emits the header followed by every row in column order.
func Write(w io.Writer, t *table.Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j, col := range t.Columns {
			record[j] = row.Get(col).String
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes t to path, creating the parent directory when needed.
func WriteFile(path string, t *table.Table) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	bw := bufio.NewWriter(f)
	if err := Write(bw, t); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
