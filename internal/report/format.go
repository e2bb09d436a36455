package report

import (
	"fmt"
	"sort"
	"strings"
)

// FormatText renders the report as human-readable text. The rendering is a
// pure projection of the structured report.
func FormatText(r *Report) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)
	sub := strings.Repeat("-", 40)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "DATA QUALITY REPORT")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Files processed: %d\n", r.Summary.TotalFiles)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "SUMMARY")
	fmt.Fprintln(&b, sub[:20])
	fmt.Fprintf(&b, "Total rows:           %d\n", r.Summary.TotalRows)
	fmt.Fprintf(&b, "Total columns:        %d\n", r.Summary.TotalColumns)
	fmt.Fprintf(&b, "Cells coerced:        %d\n", r.Summary.TotalCellsCoerced)
	fmt.Fprintf(&b, "Duplicates removed:   %d\n", r.Summary.TotalDuplicatesRemoved)
	fmt.Fprintf(&b, "NA cells affected:    %d\n", r.Summary.TotalNACellsAffected)
	fmt.Fprintf(&b, "Files with issues:    %d\n", r.Summary.FilesWithIssues)
	fmt.Fprintf(&b, "Warnings:             %d\n", r.Summary.WarningCount)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "MERGE")
	fmt.Fprintln(&b, sub[:20])
	fmt.Fprintf(&b, "Mode: %s\n", r.Merge.Mode)
	if r.Merge.UnionColumnCount > 0 {
		fmt.Fprintf(&b, "Column union size: %d\n", r.Merge.UnionColumnCount)
		fmt.Fprintf(&b, "Merged rows: %d\n", r.Merge.MergedRows)
	}
	if r.Merge.SheetCount > 0 {
		fmt.Fprintf(&b, "Sheets: %d\n", r.Merge.SheetCount)
	}
	for _, w := range r.Merge.Warnings {
		fmt.Fprintf(&b, "  - [%s] %s: %s\n", w.Code, w.Column, w.Message)
	}
	fmt.Fprintln(&b)

	for _, f := range r.Files {
		fmt.Fprintf(&b, "FILE: %s\n", f.Source)
		fmt.Fprintln(&b, sub)
		fmt.Fprintf(&b, "Rows: %d -> %d   Columns: %d -> %d\n",
			f.OriginalRows, f.FinalRows, f.OriginalColumns, f.FinalColumns)
		fmt.Fprintf(&b, "Coerced: %d   Nulled: %d   Filled: %d   Duplicates: %d   NA rows dropped: %d\n",
			f.CellsCoerced, f.CellsNulled, f.CellsFilled, f.DuplicatesRemoved, f.NARowsDropped)

		if len(f.TypeChanges) > 0 {
			names := make([]string, 0, len(f.TypeChanges))
			for name := range f.TypeChanges {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Fprintln(&b, "Type changes:")
			for _, name := range names {
				tc := f.TypeChanges[name]
				fmt.Fprintf(&b, "  %s: %s -> %s\n", name, tc.From, tc.To)
			}
		}

		if len(f.Columns) > 0 {
			fmt.Fprintln(&b, "Columns:")
			for _, c := range f.Columns {
				fmt.Fprintf(&b, "  %s (%s): nulls %d (%.1f%%), unique %d\n",
					c.Name, c.Type, c.NullCount, c.NullPercent, c.UniqueCount)
			}
		}

		if len(f.Warnings) > 0 {
			fmt.Fprintln(&b, "Warnings:")
			for _, w := range f.Warnings {
				if w.Column != "" {
					fmt.Fprintf(&b, "  - [%s] %s: %s\n", w.Code, w.Column, w.Message)
				} else {
					fmt.Fprintf(&b, "  - [%s] %s\n", w.Code, w.Message)
				}
			}
		}
		fmt.Fprintln(&b)
	}

	return b.String()
}
