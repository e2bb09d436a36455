// Package cleaning implements the per-table cleaning pipeline: whitespace
// trimming, column name standardization, type inference and coercion, date
// normalization, missing-value resolution and duplicate removal. Cleaning a
// table is a pure function of (raw table, options); every change it makes is
// recorded in a Diagnostic.
package cleaning

import "wranglecli/internal/table"

// Warning codes attached to diagnostics and reports.
const (
	WarnCodeParse = "parse_warning"
	WarnCodeFill  = "fill_incompatible"
	WarnCodeMerge = "merge_conflict"
)

// Warning is a non-fatal condition recovered during cleaning or merging.
type Warning struct {
	Code    string `json:"code"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

// TypeChange records a column whose logical type changed during cleaning.
type TypeChange struct {
	From table.LogicalType `json:"from"`
	To   table.LogicalType `json:"to"`
}

// Diagnostic is the per-table record of what cleaning changed. It is owned
// by the orchestrator and consumed by the quality reporter.
type Diagnostic struct {
	Source string `json:"source"`

	OriginalRows    int `json:"original_rows"`
	OriginalColumns int `json:"original_columns"`
	FinalRows       int `json:"final_rows"`
	FinalColumns    int `json:"final_columns"`

	// RenamedColumns maps original header names to their standardized
	// forms, for the names that actually changed.
	RenamedColumns map[string]string     `json:"renamed_columns,omitempty"`
	TypeChanges    map[string]TypeChange `json:"type_changes,omitempty"`

	CellsCoerced int `json:"cells_coerced"`
	// CellsNulled counts coercion failures that became the missing marker.
	CellsNulled int `json:"cells_nulled"`
	CellsFilled int `json:"cells_filled"`

	RowsDroppedDuplicates int   `json:"rows_dropped_duplicates"`
	RowsDroppedNA         int   `json:"rows_dropped_na"`
	DuplicatePositions    []int `json:"duplicate_positions,omitempty"`

	Warnings []Warning `json:"warnings,omitempty"`
}

// AddWarning appends a warning to the diagnostic.
func (d *Diagnostic) AddWarning(code, column, message string) {
	d.Warnings = append(d.Warnings, Warning{Code: code, Column: column, Message: message})
}
