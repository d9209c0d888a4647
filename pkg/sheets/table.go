package sheets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Row is one wide-form record: a work-center/agent assignment with up to two
// scheduled evaluation dates. A zero date means the cell was blank or unparseable.
type Row struct {
	cells        map[string]string
	Qualitative  time.Time
	Quantitative time.Time
}

// Get returns the trimmed cell for a canonical column, or "" when absent.
func (r Row) Get(col string) string {
	return r.cells[col]
}

func (r Row) HasQualitative() bool  { return !r.Qualitative.IsZero() }
func (r Row) HasQuantitative() bool { return !r.Quantitative.IsZero() }

// Table is the normalized wide table produced by one load.
type Table struct {
	Columns []string
	Rows    []Row

	present map[string]bool
}

// Has reports whether the source carried the column.
func (t *Table) Has(col string) bool {
	return t.present[col]
}

// NewTable builds a Table from a header and its records. The header is
// normalized and both evaluation-date columns run through ParseDate.
func NewTable(header []string, records [][]string) *Table {
	cols := NormalizeColumns(header)
	t := &Table{
		Columns: cols,
		Rows:    make([]Row, 0, len(records)),
		present: make(map[string]bool, len(cols)),
	}
	for _, c := range cols {
		t.present[c] = true
	}

	for _, rec := range records {
		row := Row{cells: make(map[string]string, len(cols))}
		for i, c := range cols {
			if i >= len(rec) {
				break
			}
			// First occurrence wins on duplicated headers.
			if _, dup := row.cells[c]; dup {
				continue
			}
			row.cells[c] = strings.TrimSpace(rec[i])
		}
		if d, ok := ParseDate(row.cells[ColQualitativeDate]); ok {
			row.Qualitative = d
		}
		if d, ok := ParseDate(row.cells[ColQuantitativeDate]); ok {
			row.Quantitative = d
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ParseCSV reads a complete CSV export into a Table.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty CSV: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read header: %w", err)
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read CSV: %w", err)
		}
		if isBlankRecord(rec) {
			continue
		}
		records = append(records, rec)
	}
	return NewTable(header, records), nil
}

func isBlankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
