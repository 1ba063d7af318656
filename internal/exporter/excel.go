package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"iwfmcli/internal/budget"
	"iwfmcli/internal/config"
	"iwfmcli/internal/dates"
)

// ExcelWriter exports budget tables to Excel workbooks
type ExcelWriter struct {
	paths *config.Paths
}

// NewExcelWriter creates a new Excel writer instance
func NewExcelWriter(paths *config.Paths) *ExcelWriter {
	return &ExcelWriter{paths: paths}
}

// WriteBudgetWorkbook writes one worksheet per budget table. The
// sheet name is the table's location, truncated and scrubbed to
// Excel's sheet-name rules.
func (w *ExcelWriter) WriteBudgetWorkbook(filePath string, tables []*budget.Table) error {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing Excel workbook",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("table_count", len(tables)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	used := make(map[string]bool, len(tables))
	for i, tbl := range tables {
		sheet := uniqueSheetName(tbl.Location, i, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
			}
		}

		if err := writeTable(f, sheet, tbl); err != nil {
			return err
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}

// writeTable writes a header row and the dated value rows to a sheet.
func writeTable(f *excelize.File, sheet string, tbl *budget.Table) error {
	header := append([]string{"Date"}, tbl.ColumnNames()...)
	for c, name := range header {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}

	for r, d := range tbl.Dates {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, d.Format(dates.Layout)); err != nil {
			return err
		}

		for c, v := range tbl.Values[r] {
			cell, err := excelize.CoordinatesToCellName(c+2, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return nil
}

// sheetName scrubs a location name into a legal, unique Excel sheet
// name. Excel forbids []:*?/\ and limits names to 31 characters.
func sheetName(location string, index int) string {
	name := location
	for _, ch := range []string{"[", "]", ":", "*", "?", "/", "\\"} {
		name = strings.ReplaceAll(name, ch, " ")
	}
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		name = fmt.Sprintf("Table %d", index+1)
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

// uniqueSheetName suffixes a counter when two locations scrub or
// truncate to the same sheet name, so no table silently overwrites
// another's sheet.
func uniqueSheetName(location string, index int, used map[string]bool) string {
	name := sheetName(location, index)
	if !used[name] {
		used[name] = true
		return name
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate := name
		if len(candidate)+len(suffix) > 31 {
			candidate = candidate[:31-len(suffix)]
		}
		candidate += suffix
		if !used[candidate] {
			used[candidate] = true
			return candidate
		}
	}
}

func (w *ExcelWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return w.paths.GetReportPath(filePath)
}
