// Package exporter writes merge results to spreadsheet files and persists
// quality reports beside them.
package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "wranglecli/internal/errors"
	"wranglecli/internal/merge"
	"wranglecli/internal/table"
)

// maxSheetNameLen is the sheet name limit imposed by the xlsx format.
const maxSheetNameLen = 31

// mergedSheetName is the sheet name used for an append-mode result.
const mergedSheetName = "merged_data"

// maxColumnWidth caps auto-fitted column widths.
const maxColumnWidth = 50

// ExcelWriter writes merge results to formatted xlsx workbooks.
type ExcelWriter struct {
	logger *slog.Logger
	// Styling can be disabled for very large exports.
	FormatTables bool
}

// NewExcelWriter creates an Excel writer with table formatting enabled.
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{
		logger:       logger.With(slog.String("component", "exporter")),
		FormatTables: true,
	}
}

// Write saves the merge result to an xlsx workbook at path: one sheet for
// an append-mode result, one sheet per source table in per-sheet mode.
func (w *ExcelWriter) Write(path string, result *merge.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	var sheets []*table.Table
	if result.Combined != nil {
		sheets = []*table.Table{result.Combined}
	} else {
		sheets = result.Sheets
	}

	taken := make(map[string]struct{}, len(sheets))
	for i, t := range sheets {
		name := mergedSheetName
		if result.Combined == nil {
			name = sheetName(t.Source, taken)
		}
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return apperrors.NewStorageError("failed to rename sheet", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return apperrors.NewStorageError("failed to add sheet", err)
			}
		}
		if err := w.writeSheet(f, name, t); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to save workbook %s", path), err)
	}

	w.logger.Info("workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(sheets)))

	return nil
}

// writeSheet writes one table to a sheet, with header styling, zebra
// striping, auto-fitted column widths and an Excel table region.
func (w *ExcelWriter) writeSheet(f *excelize.File, sheet string, t *table.Table) error {
	widths := make([]int, len(t.Columns))

	for col, c := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, c.Name); err != nil {
			return apperrors.NewStorageError("failed to write header cell", err)
		}
		widths[col] = len(c.Name)
	}

	rows := t.RowCount()
	for row := 0; row < rows; row++ {
		for col, c := range t.Columns {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			v := c.Cells[row]
			if v.IsMissing() {
				continue
			}
			var err error
			switch v.Kind() {
			case table.KindInteger:
				n, _ := v.AsInt()
				err = f.SetCellValue(sheet, cell, n)
			case table.KindFloat:
				fv, _ := v.AsFloat()
				err = f.SetCellValue(sheet, cell, fv)
			case table.KindBoolean:
				b, _ := v.AsBool()
				err = f.SetCellValue(sheet, cell, b)
			default:
				// Dates export in their canonical YYYY-MM-DD text form.
				err = f.SetCellValue(sheet, cell, v.String())
			}
			if err != nil {
				return apperrors.NewStorageError("failed to write cell", err)
			}
			if l := len(v.String()); l > widths[col] {
				widths[col] = l
			}
		}
	}

	if !w.FormatTables || len(t.Columns) == 0 {
		return nil
	}
	return w.formatSheet(f, sheet, t, widths)
}

func (w *ExcelWriter) formatSheet(f *excelize.File, sheet string, t *table.Table, widths []int) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return apperrors.NewStorageError("failed to create header style", err)
	}

	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, _ := excelize.CoordinatesToCellName(len(t.Columns), 1)
	if err := f.SetCellStyle(sheet, first, last, headerStyle); err != nil {
		return apperrors.NewStorageError("failed to style header row", err)
	}

	for col := range t.Columns {
		name, _ := excelize.ColumnNumberToName(col + 1)
		width := widths[col] + 2
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if err := f.SetColWidth(sheet, name, name, float64(width)); err != nil {
			return apperrors.NewStorageError("failed to set column width", err)
		}
	}

	if t.RowCount() > 0 {
		end, _ := excelize.CoordinatesToCellName(len(t.Columns), t.RowCount()+1)
		stripes := true
		err := f.AddTable(sheet, &excelize.Table{
			Range:          fmt.Sprintf("%s:%s", first, end),
			Name:           tableName(sheet),
			StyleName:      "TableStyleMedium2",
			ShowRowStripes: &stripes,
		})
		if err != nil {
			return apperrors.NewStorageError("failed to add table region", err)
		}
	}

	return nil
}

// sheetName sanitizes a source identifier into a unique, Excel-legal
// sheet name: forbidden characters replaced, capped at 31 characters,
// never empty.
func sheetName(source string, taken map[string]struct{}) string {
	name := source
	for _, c := range []string{"[", "]", "*", "?", ":", "\\", "/"} {
		name = strings.ReplaceAll(name, c, "_")
	}
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}
	if name == "" {
		name = "Sheet1"
	}

	candidate := name
	for n := 2; ; n++ {
		if _, dup := taken[candidate]; !dup {
			break
		}
		suffix := fmt.Sprintf("_%d", n)
		if len(name)+len(suffix) > maxSheetNameLen {
			candidate = name[:maxSheetNameLen-len(suffix)] + suffix
		} else {
			candidate = name + suffix
		}
	}
	taken[candidate] = struct{}{}
	return candidate
}

// tableName derives a legal Excel table name from a sheet name.
func tableName(sheet string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, sheet)
	return "Table_" + name
}
