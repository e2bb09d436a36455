package cleaning

import (
	"wranglecli/internal/table"
)

// Deduplicate removes rows whose key values exactly match an earlier row,
// keeping the first occurrence and preserving the relative order of the
// survivors. key defaults to all columns when empty. Float cells compare by
// exact post-coercion equality; values that differ only past the float64
// precision limit are considered equal (known caveat).
func Deduplicate(t *table.Table, key []string, diag *Diagnostic) {
	rows := t.RowCount()
	if rows == 0 {
		return
	}
	if len(key) == 0 {
		key = t.ColumnNames()
	}

	seen := make(map[string]struct{}, rows)
	keep := make([]int, 0, rows)
	for i := 0; i < rows; i++ {
		k := t.RowKey(i, key)
		if _, dup := seen[k]; dup {
			diag.DuplicatePositions = append(diag.DuplicatePositions, i)
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}

	if dropped := rows - len(keep); dropped > 0 {
		*t = *t.SelectRows(keep)
		diag.RowsDroppedDuplicates += dropped
	}
}
