package cleaning

import (
	"fmt"

	"wranglecli/internal/config"
	"wranglecli/internal/table"
)

// fillFor parses the configured fill value against a column's logical type.
func fillFor(c *table.Column, opts config.CleanOptions) (table.Value, bool) {
	v := opts.FillValue
	switch c.Type {
	case table.TypeInteger:
		if n, ok := parseInt(v, opts); ok {
			return table.Int(n), true
		}
	case table.TypeFloat:
		if f, ok := parseFloat(v, opts); ok {
			return table.Float(f), true
		}
	case table.TypeBoolean:
		if b, ok := parseBool(v); ok {
			return table.Bool(b), true
		}
	case table.TypeDate:
		if t, clock, ok := parseDate(v, false); ok {
			return table.Date(t, clock && opts.KeepTime), true
		}
	default:
		return table.String(v), true
	}
	return table.Value{}, false
}

// ResolveNA applies the configured missing-value policy to t.
//
//   - drop: removes rows with a missing value in any non-exempt column
//   - keep: leaves the missing markers in place
//   - fill: replaces missing values with the configured scalar; a fill
//     value incompatible with the column type falls back to its string
//     form, the column becomes mixed, and a warning is recorded
func ResolveNA(t *table.Table, opts config.CleanOptions, diag *Diagnostic) {
	switch opts.NAPolicy {
	case config.NAKeep:
		return

	case config.NADrop:
		exempt := make(map[string]struct{}, len(opts.NAExemptColumns))
		for _, name := range opts.NAExemptColumns {
			exempt[name] = struct{}{}
		}
		var keep []int
		for i := 0; i < t.RowCount(); i++ {
			complete := true
			for _, c := range t.Columns {
				if _, ex := exempt[c.Name]; ex {
					continue
				}
				if c.Cells[i].IsMissing() {
					complete = false
					break
				}
			}
			if complete {
				keep = append(keep, i)
			}
		}
		dropped := t.RowCount() - len(keep)
		if dropped > 0 {
			*t = *t.SelectRows(keep)
			diag.RowsDroppedNA += dropped
		}

	case config.NAFill:
		for i := range t.Columns {
			c := &t.Columns[i]
			holes := 0
			for _, cell := range c.Cells {
				if cell.IsMissing() {
					holes++
				}
			}
			if holes == 0 {
				continue
			}
			fill, ok := fillFor(c, opts)
			if !ok {
				fill = table.String(opts.FillValue)
				c.Type = table.TypeMixed
				diag.AddWarning(WarnCodeFill, c.Name,
					fmt.Sprintf("fill value %q is incompatible with column type, stored as string", opts.FillValue))
			}
			for j, cell := range c.Cells {
				if cell.IsMissing() {
					c.Cells[j] = fill
					diag.CellsFilled++
				}
			}
		}
	}
}
