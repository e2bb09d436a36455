// Package table provides the in-memory tabular data model shared by the
// cleaning pipeline: ordered named columns of typed cell values, with an
// explicit missing marker distinct from the empty string.
package table

import (
	"fmt"
	"strings"
)

// LogicalType is the canonical semantic type of a column after inference.
type LogicalType string

const (
	TypeString  LogicalType = "string"
	TypeInteger LogicalType = "integer"
	TypeFloat   LogicalType = "float"
	TypeBoolean LogicalType = "boolean"
	TypeDate    LogicalType = "date"
	// TypeMixed marks a column whose cells did not resolve to a single
	// logical type; cells keep their individual typed variants.
	TypeMixed LogicalType = "mixed"
)

// Column is an ordered sequence of cells sharing one logical type.
type Column struct {
	Name  string
	Type  LogicalType
	Cells []Value
}

// Table is an ordered sequence of named columns with a uniform row count.
// Source carries the identifier of the file the table was loaded from.
type Table struct {
	Source  string
	Columns []Column
}

// New creates an empty table for the given source identifier.
func New(source string) *Table {
	return &Table{Source: source}
}

// FromRows builds a raw string-typed table from a header and data rows.
// Short rows are padded with missing cells and long rows truncated so the
// row count stays uniform across columns.
func FromRows(source string, header []string, rows [][]string) *Table {
	t := &Table{Source: source, Columns: make([]Column, len(header))}
	for i, name := range header {
		cells := make([]Value, len(rows))
		for j, row := range rows {
			if i < len(row) {
				cells[j] = String(row[i])
			} else {
				cells[j] = Missing()
			}
		}
		t.Columns[i] = Column{Name: name, Type: TypeString, Cells: cells}
	}
	return t
}

// RowCount returns the number of rows in the table.
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// ColumnCount returns the number of columns in the table.
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the column with the given name, or nil if absent.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// Row returns the cells of row i across all columns.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.Columns))
	for j := range t.Columns {
		row[j] = t.Columns[j].Cells[i]
	}
	return row
}

// SelectRows returns a copy of the table containing only the rows whose
// indices are set in keep, preserving relative order.
func (t *Table) SelectRows(keep []int) *Table {
	out := &Table{Source: t.Source, Columns: make([]Column, len(t.Columns))}
	for i, c := range t.Columns {
		cells := make([]Value, 0, len(keep))
		for _, r := range keep {
			cells = append(cells, c.Cells[r])
		}
		out.Columns[i] = Column{Name: c.Name, Type: c.Type, Cells: cells}
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{Source: t.Source, Columns: make([]Column, len(t.Columns))}
	for i, c := range t.Columns {
		cells := make([]Value, len(c.Cells))
		copy(cells, c.Cells)
		out.Columns[i] = Column{Name: c.Name, Type: c.Type, Cells: cells}
	}
	return out
}

// Validate checks the structural invariants: unique column names and a
// uniform row count across columns.
func (t *Table) Validate() error {
	seen := make(map[string]struct{}, len(t.Columns))
	rows := -1
	for _, c := range t.Columns {
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("duplicate column name %q in table %q", c.Name, t.Source)
		}
		seen[c.Name] = struct{}{}
		if rows == -1 {
			rows = len(c.Cells)
		} else if len(c.Cells) != rows {
			return fmt.Errorf("column %q has %d cells, expected %d", c.Name, len(c.Cells), rows)
		}
	}
	return nil
}

// RowKey builds a map key from the named columns of row i. Missing columns
// contribute the missing marker. Used by the deduplicator; float cells use
// exact post-coercion equality (known precision caveat).
func (t *Table) RowKey(i int, columns []string) string {
	var b strings.Builder
	for _, name := range columns {
		c := t.Column(name)
		if c == nil {
			b.WriteString(Missing().Key())
		} else {
			b.WriteString(c.Cells[i].Key())
		}
		b.WriteByte(0x1f)
	}
	return b.String()
}
