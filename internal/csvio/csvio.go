// Package csvio loads the three tabular inputs (roster, payments, bookings)
// from CSV or XLSX files into the in-memory collections the engine consumes.
// Loading is all-or-nothing: a malformed file aborts the whole load before
// any reconciliation logic runs.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadError reports a malformed or unreadable input collection. It is fatal
// for the run and surfaced verbatim to the caller.
type LoadError struct {
	Source string // members, payments or bookings
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadErr(source, format string, args ...any) error {
	return &LoadError{Source: source, Err: fmt.Errorf(format, args...)}
}

// readRows materializes tabular rows from CSV or XLSX data, selected by file
// extension. The first row is the header.
func readRows(filename string, r io.Reader) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return readXLSXRows(r)
	}
	return readCSVRows(r)
}

func readCSVRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // header validation happens per column below
	return reader.ReadAll()
}

func readXLSXRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// headerIndex maps column names to positions and verifies the required ones
// are present. Header cells are matched after trimming surrounding space.
func headerIndex(rows [][]string, required ...string) (map[string]int, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("input is empty")
	}

	index := make(map[string]int)
	for i, col := range rows[0] {
		name := strings.TrimSpace(col)
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required columns absent: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

// colIdx returns the position of an optional column, or -1 when absent
func colIdx(index map[string]int, name string) int {
	if i, ok := index[name]; ok {
		return i
	}
	return -1
}

// cell returns the trimmed value at idx, or "" when the row is short.
// XLSX rows are ragged: trailing empty cells are dropped by the reader.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseFloat(value, source, column string, rowNum int) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, loadErr(source, "row %d: unparsable %s value %q", rowNum, column, value)
	}
	return v, nil
}
