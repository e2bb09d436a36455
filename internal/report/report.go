// Package report computes the quality report from per-table diagnostics and
// the merge outcome, and renders it to text. Report computation is a pure
// function of its inputs; identifiers and timestamps are stamped by the
// shell when the report is persisted, not here.
package report

import (
	"fmt"

	"wranglecli/internal/cleaning"
	"wranglecli/internal/merge"
	"wranglecli/internal/table"
)

// Warning codes for the report-level data quality heuristics.
const (
	WarnCodeHighMissing = "high_missing"
	WarnCodeEmptyColumn = "empty_column"
	WarnCodeSingleValue = "single_value"
)

// highMissingThreshold is the null fraction above which a column is
// flagged as mostly missing.
const highMissingThreshold = 0.5

// ColumnStat summarizes one column of a cleaned table.
type ColumnStat struct {
	Name        string            `json:"name"`
	Type        table.LogicalType `json:"type"`
	NullCount   int               `json:"null_count"`
	NullPercent float64           `json:"null_percent"`
	UniqueCount int               `json:"unique_count"`
}

// FileReport is the per-file section of the quality report.
type FileReport struct {
	Source          string                         `json:"source"`
	OriginalRows    int                            `json:"original_rows"`
	OriginalColumns int                            `json:"original_columns"`
	FinalRows       int                            `json:"final_rows"`
	FinalColumns    int                            `json:"final_columns"`
	TypeChanges     map[string]cleaning.TypeChange `json:"type_changes,omitempty"`
	CellsCoerced    int                            `json:"cells_coerced"`
	CellsNulled     int                            `json:"cells_nulled"`
	CellsFilled     int                            `json:"cells_filled"`
	DuplicatesRemoved int                          `json:"duplicates_removed"`
	NARowsDropped   int                            `json:"na_rows_dropped"`
	Columns         []ColumnStat                   `json:"columns"`
	Warnings        []cleaning.Warning             `json:"warnings,omitempty"`
}

// MergeSection reports the merge-level outcome.
type MergeSection struct {
	Mode             string             `json:"mode"`
	UnionColumnCount int                `json:"union_column_count,omitempty"`
	SheetCount       int                `json:"sheet_count,omitempty"`
	MergedRows       int                `json:"merged_rows,omitempty"`
	Warnings         []cleaning.Warning `json:"warnings,omitempty"`
}

// Summary aggregates the whole run. WarningCount is the pass/fail signal
// for the calling shell.
type Summary struct {
	TotalFiles             int `json:"total_files"`
	TotalRows              int `json:"total_rows"`
	TotalColumns           int `json:"total_columns"`
	TotalCellsCoerced      int `json:"total_cells_coerced"`
	TotalDuplicatesRemoved int `json:"total_duplicates_removed"`
	TotalNACellsAffected   int `json:"total_na_cells_affected"`
	FilesWithIssues        int `json:"files_with_issues"`
	WarningCount           int `json:"warning_count"`
}

// Report is the full quality report. Immutable once produced.
type Report struct {
	Files   []FileReport `json:"files"`
	Merge   MergeSection `json:"merge"`
	Summary Summary      `json:"summary"`
}

// Passed reports whether the run produced no warnings at all.
func (r *Report) Passed() bool {
	return r.Summary.WarningCount == 0
}

// Build computes the quality report. diags and cleaned are aligned by
// index; result may be nil when the merge step was not reached.
func Build(diags []*cleaning.Diagnostic, cleaned []*table.Table, result *merge.Result) *Report {
	r := &Report{}

	for i, diag := range diags {
		fr := FileReport{
			Source:            diag.Source,
			OriginalRows:      diag.OriginalRows,
			OriginalColumns:   diag.OriginalColumns,
			FinalRows:         diag.FinalRows,
			FinalColumns:      diag.FinalColumns,
			TypeChanges:       diag.TypeChanges,
			CellsCoerced:      diag.CellsCoerced,
			CellsNulled:       diag.CellsNulled,
			CellsFilled:       diag.CellsFilled,
			DuplicatesRemoved: diag.RowsDroppedDuplicates,
			NARowsDropped:     diag.RowsDroppedNA,
			Warnings:          append([]cleaning.Warning(nil), diag.Warnings...),
		}
		if i < len(cleaned) && cleaned[i] != nil {
			fr.Columns = columnStats(cleaned[i])
			fr.Warnings = append(fr.Warnings, columnWarnings(fr.Columns, cleaned[i].RowCount())...)
		}
		r.Files = append(r.Files, fr)
	}

	if result != nil {
		r.Merge.Mode = string(result.Mode)
		r.Merge.Warnings = append([]cleaning.Warning(nil), result.Warnings...)
		if result.Combined != nil {
			r.Merge.UnionColumnCount = len(result.UnionColumns)
			r.Merge.MergedRows = result.Combined.RowCount()
		}
		r.Merge.SheetCount = len(result.Sheets)
	}

	r.Summary = summarize(r)
	return r
}

func columnStats(t *table.Table) []ColumnStat {
	stats := make([]ColumnStat, 0, len(t.Columns))
	rows := t.RowCount()
	for _, c := range t.Columns {
		nulls := 0
		unique := make(map[string]struct{})
		for _, cell := range c.Cells {
			if cell.IsMissing() {
				nulls++
				continue
			}
			unique[cell.Key()] = struct{}{}
		}
		stat := ColumnStat{
			Name:        c.Name,
			Type:        c.Type,
			NullCount:   nulls,
			UniqueCount: len(unique),
		}
		if rows > 0 {
			stat.NullPercent = float64(nulls) / float64(rows) * 100
		}
		stats = append(stats, stat)
	}
	return stats
}

// columnWarnings applies the data quality heuristics to the cleaned
// columns: mostly-missing columns, fully empty columns and columns with a
// single distinct value.
func columnWarnings(stats []ColumnStat, rows int) []cleaning.Warning {
	var warnings []cleaning.Warning
	for _, s := range stats {
		switch {
		case rows > 0 && s.NullCount == rows:
			warnings = append(warnings, cleaning.Warning{
				Code: WarnCodeEmptyColumn, Column: s.Name,
				Message: "column has no values",
			})
		case rows > 0 && float64(s.NullCount)/float64(rows) > highMissingThreshold:
			warnings = append(warnings, cleaning.Warning{
				Code: WarnCodeHighMissing, Column: s.Name,
				Message: fmt.Sprintf("%.1f%% of values are missing", float64(s.NullCount)/float64(rows)*100),
			})
		}
		if rows > 1 && s.UniqueCount == 1 && s.NullCount == 0 {
			warnings = append(warnings, cleaning.Warning{
				Code: WarnCodeSingleValue, Column: s.Name,
				Message: "column holds a single distinct value",
			})
		}
	}
	return warnings
}

func summarize(r *Report) Summary {
	s := Summary{TotalFiles: len(r.Files)}
	for _, f := range r.Files {
		s.TotalRows += f.FinalRows
		s.TotalColumns += f.FinalColumns
		s.TotalCellsCoerced += f.CellsCoerced
		s.TotalDuplicatesRemoved += f.DuplicatesRemoved
		s.TotalNACellsAffected += f.CellsFilled + f.CellsNulled
		s.WarningCount += len(f.Warnings)
		if len(f.Warnings) > 0 {
			s.FilesWithIssues++
		}
	}
	s.WarningCount += len(r.Merge.Warnings)
	return s
}
