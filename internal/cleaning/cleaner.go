package cleaning

import (
	"fmt"
	"regexp"
	"strings"

	"wranglecli/internal/config"
	"wranglecli/internal/table"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// standardizeName lowercases a column name, collapses runs of
// non-alphanumeric characters to a single underscore and trims leading and
// trailing underscores. A name with nothing left becomes "col".
func standardizeName(name string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(name), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "col"
	}
	return s
}

// StandardizeNames rewrites all column names to their standardized form,
// resolving collisions by appending _2, _3, ... in first-seen order. A
// suffixed candidate can itself collide with a literal header, so each
// candidate is probed until one is unclaimed. Returns the original->new
// mapping for names that changed.
func StandardizeNames(t *table.Table) map[string]string {
	renamed := make(map[string]string)
	seen := make(map[string]struct{}, len(t.Columns))
	for i := range t.Columns {
		original := t.Columns[i].Name
		name := standardizeName(original)
		if _, dup := seen[name]; dup {
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s_%d", name, n)
				if _, dup := seen[candidate]; !dup {
					name = candidate
					break
				}
			}
		}
		seen[name] = struct{}{}
		t.Columns[i].Name = name
		if name != original {
			renamed[original] = name
		}
	}
	return renamed
}

// TrimWhitespace trims every string-typed cell in place. Trimming happens
// before inference so that " 5 " can still become an integer.
func TrimWhitespace(t *table.Table) {
	for i := range t.Columns {
		for j, cell := range t.Columns[i].Cells {
			if s, ok := cell.AsString(); ok {
				trimmed := strings.TrimSpace(s)
				if trimmed != s {
					t.Columns[i].Cells[j] = table.String(trimmed)
				}
			}
		}
	}
}

// CoerceColumn converts the cells of a string column to the inferred type.
// Values on the inference failure list become the missing marker and are
// counted, never dropped. Empty strings turn into the missing marker for
// non-string columns. Returns (coerced, nulled) cell counts.
func CoerceColumn(c *table.Column, inf Inference, opts config.CleanOptions) (int, int) {
	if inf.Type == table.TypeString || inf.Type == table.TypeMixed {
		c.Type = table.TypeString
		return 0, 0
	}

	failed := make(map[int]struct{}, len(inf.FailedRows))
	for _, i := range inf.FailedRows {
		failed[i] = struct{}{}
	}

	coerced, nulled := 0, 0
	for i, cell := range c.Cells {
		if cell.IsMissing() {
			continue
		}
		s, _ := cell.AsString()
		if strings.TrimSpace(s) == "" {
			c.Cells[i] = table.Missing()
			continue
		}
		if _, bad := failed[i]; bad {
			c.Cells[i] = table.Missing()
			nulled++
			continue
		}
		switch inf.Type {
		case table.TypeBoolean:
			b, _ := parseBool(s)
			c.Cells[i] = table.Bool(b)
		case table.TypeInteger:
			n, _ := parseInt(s, opts)
			c.Cells[i] = table.Int(n)
		case table.TypeFloat:
			f, _ := parseFloat(s, opts)
			c.Cells[i] = table.Float(f)
		case table.TypeDate:
			t, clock, _ := parseDate(s, inf.PreferDMY)
			c.Cells[i] = table.Date(t, clock && opts.KeepTime)
		}
		coerced++
	}
	c.Type = inf.Type
	return coerced, nulled
}

// splitClockColumns moves the time-of-day component of each clock-bearing
// date column into a <name>_time string column, keeping names unique. The
// clock flag is cleared on the date cells, so a later pass finds nothing
// left to split.
func splitClockColumns(t *table.Table) {
	taken := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		taken[c.Name] = struct{}{}
	}

	var extra []table.Column
	for ci := range t.Columns {
		c := &t.Columns[ci]
		if c.Type != table.TypeDate {
			continue
		}
		any := false
		for _, cell := range c.Cells {
			if cell.HasClock() {
				any = true
				break
			}
		}
		if !any {
			continue
		}

		name := c.Name + "_time"
		for n := 2; ; n++ {
			if _, dup := taken[name]; !dup {
				break
			}
			name = fmt.Sprintf("%s_time_%d", c.Name, n)
		}
		taken[name] = struct{}{}

		cells := make([]table.Value, len(c.Cells))
		for i, cell := range c.Cells {
			if cell.HasClock() {
				cells[i] = table.String(cell.ClockString())
				day, _, _ := cell.AsDate()
				c.Cells[i] = table.Date(day, false)
			} else {
				cells[i] = table.Missing()
			}
		}
		extra = append(extra, table.Column{Name: name, Type: table.TypeString, Cells: cells})
	}
	t.Columns = append(t.Columns, extra...)
}

// CleanColumns applies the column-level cleaning steps to t in the fixed
// order: trim, standardize names, infer types, coerce, normalize dates.
// The order matters; trimming before inference changes inference outcomes.
func CleanColumns(t *table.Table, opts config.CleanOptions, diag *Diagnostic) {
	if opts.TrimWhitespace {
		TrimWhitespace(t)
	}
	if opts.StandardizeNames {
		diag.RenamedColumns = StandardizeNames(t)
	}
	if !opts.InferTypes {
		return
	}

	for i := range t.Columns {
		c := &t.Columns[i]
		if c.Type != table.TypeString {
			// Already typed; inference and coercion are fixed points.
			continue
		}
		inf := InferColumn(c.Cells, opts)
		if inf.Type == table.TypeDate && !opts.EnforceDateFormat {
			// Date coercion is opt-out; the column keeps its text form.
			continue
		}
		coerced, nulled := CoerceColumn(c, inf, opts)
		diag.CellsCoerced += coerced
		diag.CellsNulled += nulled
		if c.Type != table.TypeString {
			if diag.TypeChanges == nil {
				diag.TypeChanges = make(map[string]TypeChange)
			}
			diag.TypeChanges[c.Name] = TypeChange{From: table.TypeString, To: c.Type}
		}
		if nulled > 0 {
			diag.AddWarning(WarnCodeParse, c.Name,
				fmt.Sprintf("%d value(s) did not match inferred type %s and became missing", nulled, c.Type))
		}
	}

	if opts.KeepTime {
		splitClockColumns(t)
	}
}
