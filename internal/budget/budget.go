// Package budget parses IWFM Budget output text files. A budget file
// holds one table per location (subregion, stream reach, small
// watershed); each table is a header block, a run of dated data rows,
// and a footer. Data rows are the lines that begin with a digit (the
// date token), everything else belongs to the surrounding blocks.
package budget

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"iwfmcli/internal/dates"
	"iwfmcli/internal/errors"
	"iwfmcli/internal/iwfmio"
)

// Table is one location's budget: dated rows of flow terms.
type Table struct {
	Location string
	Header   []string
	Dates    []time.Time
	Values   [][]float64
}

// Rows returns the number of dated rows in the table.
func (t *Table) Rows() int {
	return len(t.Dates)
}

// Columns returns the number of value columns per row.
func (t *Table) Columns() int {
	if len(t.Values) == 0 {
		return 0
	}
	return len(t.Values[0])
}

// ColumnNames returns generic column names sized to the table. Budget
// column titles span several ruled header lines in the raw file and
// are not recoverable reliably, so exports use positional names.
func (t *Table) ColumnNames() []string {
	names := make([]string, t.Columns())
	for i := range names {
		names[i] = fmt.Sprintf("Column%d", i+1)
	}
	return names
}

// RecordHeaders returns the header row matching Records: the Location
// and Date columns followed by the value column names.
func (t *Table) RecordHeaders() []string {
	return append([]string{"Location", "Date"}, t.ColumnNames()...)
}

// Records renders the table as CSV records, one per dated row, with
// the location and formatted date prepended.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.Dates))
	for i, d := range t.Dates {
		row := make([]string, 0, len(t.Values[i])+2)
		row = append(row, t.Location, d.Format(dates.Layout))
		for _, v := range t.Values[i] {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		records = append(records, row)
	}
	return records
}

// ParseFile reads and parses a budget output file.
func ParseFile(path string) ([]*Table, error) {
	lines, err := iwfmio.ReadLines(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, lines)
}

// Parse splits budget file lines into per-location tables. The path is
// used only for error reporting.
func Parse(path string, lines []string) ([]*Table, error) {
	var tables []*Table
	var header []string
	var current *Table

	for i, raw := range lines {
		trimmed := strings.TrimSpace(raw)

		if !isDataRow(trimmed) {
			if current != nil {
				// Footer after a data run doubles as the next
				// table's header block.
				current = nil
				header = nil
			}
			if trimmed != "" {
				header = append(header, trimmed)
			}
			continue
		}

		if current == nil {
			current = &Table{
				Location: locationFromHeader(header, len(tables)),
				Header:   header,
			}
			tables = append(tables, current)
		}

		fields := strings.Fields(trimmed)
		d, err := dates.Parse(fields[0])
		if err != nil {
			return nil, errors.ParseError(path, i+1, fields[0], err)
		}

		row := make([]float64, len(fields)-1)
		for j, tok := range fields[1:] {
			v, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", ""), 64)
			if err != nil {
				return nil, errors.ParseError(path, i+1, tok, err)
			}
			row[j] = v
		}

		current.Dates = append(current.Dates, d)
		current.Values = append(current.Values, row)
	}

	return tables, nil
}

// isDataRow reports whether a trimmed line begins a dated budget
// record. Date tokens start with a digit; header and footer lines
// never do.
func isDataRow(trimmed string) bool {
	return len(trimmed) > 0 && trimmed[0] >= '0' && trimmed[0] <= '9'
}

// locationFromHeader extracts the location name from a table's header
// block. Budget titles read like "GROUNDWATER BUDGET FOR SUBREGION 1
// (REGION1)"; the text after FOR names the location. Tables without a
// recognizable title get a positional name.
func locationFromHeader(header []string, index int) string {
	for _, line := range header {
		upper := strings.ToUpper(line)
		if pos := strings.Index(upper, " FOR "); pos >= 0 {
			name := strings.TrimSpace(line[pos+len(" FOR "):])
			if name != "" {
				return name
			}
		}
	}
	return fmt.Sprintf("TABLE %d", index+1)
}
