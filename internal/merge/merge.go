// Package merge combines cleaned tables into a merged result: row-wise
// concatenation over the column union (append mode) or one sheet per source
// table (per-sheet mode). Column or type mismatches across tables are
// warnings, never errors; only structurally impossible requests fail.
package merge

import (
	"context"
	"fmt"
	"log/slog"

	"wranglecli/internal/cleaning"
	"wranglecli/internal/config"
	apperrors "wranglecli/internal/errors"
	"wranglecli/internal/table"
)

// SourceColumn is the provenance column appended in append mode.
const SourceColumn = "source"

// Result is the merge outcome. Combined is set in append mode, Sheets in
// per-sheet mode; both keep input order.
type Result struct {
	Mode     config.MergeMode `json:"mode"`
	Combined *table.Table     `json:"-"`
	Sheets   []*table.Table   `json:"-"`
	// UnionColumns lists the data columns of the combined table in
	// first-seen order, excluding the appended provenance column.
	UnionColumns []string           `json:"union_columns,omitempty"`
	Warnings     []cleaning.Warning `json:"warnings,omitempty"`
}

// Engine merges cleaned tables. It is the synchronization point of the
// pipeline: all per-table cleaning completes before Merge runs.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a merge engine.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger.With(slog.String("component", "merge"))}
}

// Merge combines the cleaned tables according to mode. It fails with a
// configuration error when append mode receives zero tables or when any
// table has zero columns.
func (e *Engine) Merge(ctx context.Context, tables []*table.Table, mode config.MergeMode) (*Result, error) {
	if err := validate(tables, mode); err != nil {
		return nil, err
	}

	switch mode {
	case config.MergePerSheet:
		// No cross-table reconciliation: each table stays distinct.
		e.logger.InfoContext(ctx, "merged per sheet", slog.Int("sheets", len(tables)))
		return &Result{Mode: mode, Sheets: tables}, nil

	case config.MergeAppend:
		res := e.appendTables(ctx, tables)
		return res, nil

	default:
		return nil, apperrors.NewConfigError(fmt.Sprintf("unknown merge mode %q", mode), nil)
	}
}

func validate(tables []*table.Table, mode config.MergeMode) error {
	if len(tables) == 0 {
		if mode == config.MergeAppend {
			return apperrors.NewConfigError("append merge requested with zero input tables", nil)
		}
		return apperrors.NewEmptyInputError()
	}
	for _, t := range tables {
		if t.ColumnCount() == 0 {
			return apperrors.NewConfigError(
				fmt.Sprintf("table %q has zero columns", t.Source), nil)
		}
	}
	return nil
}

// appendTables concatenates tables over the union of their columns, fills
// absent columns with the missing marker, widens conflicting column types
// and appends the provenance column.
func (e *Engine) appendTables(ctx context.Context, tables []*table.Table) *Result {
	res := &Result{Mode: config.MergeAppend}

	// Column union in first-seen order across tables in input order.
	var union []string
	colTypes := make(map[string][]table.LogicalType)
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, seen := colTypes[c.Name]; !seen {
				union = append(union, c.Name)
			}
			colTypes[c.Name] = append(colTypes[c.Name], c.Type)
		}
	}

	// Resolve one logical type per union column; conflicts widen and warn.
	finalTypes := make(map[string]table.LogicalType, len(union))
	for _, name := range union {
		final, conflict := widen(colTypes[name])
		finalTypes[name] = final
		if conflict {
			res.Warnings = append(res.Warnings, cleaning.Warning{
				Code:   cleaning.WarnCodeMerge,
				Column: name,
				Message: fmt.Sprintf("column types differ across tables %v, widened to %s",
					colTypes[name], final),
			})
		}
	}

	sourceCol := provenanceName(union)
	totalRows := 0
	for _, t := range tables {
		totalRows += t.RowCount()
	}

	out := table.New("merged")
	out.Columns = make([]table.Column, 0, len(union)+1)
	for _, name := range union {
		out.Columns = append(out.Columns, table.Column{
			Name:  name,
			Type:  finalTypes[name],
			Cells: make([]table.Value, 0, totalRows),
		})
	}
	out.Columns = append(out.Columns, table.Column{
		Name:  sourceCol,
		Type:  table.TypeString,
		Cells: make([]table.Value, 0, totalRows),
	})

	for _, t := range tables {
		rows := t.RowCount()
		for i, name := range union {
			dst := &out.Columns[i]
			src := t.Column(name)
			if src == nil {
				for r := 0; r < rows; r++ {
					dst.Cells = append(dst.Cells, table.Missing())
				}
				continue
			}
			for r := 0; r < rows; r++ {
				dst.Cells = append(dst.Cells, widenValue(src.Cells[r], finalTypes[name]))
			}
		}
		prov := &out.Columns[len(union)]
		for r := 0; r < rows; r++ {
			prov.Cells = append(prov.Cells, table.String(t.Source))
		}
	}

	res.Combined = out
	res.UnionColumns = union

	e.logger.InfoContext(ctx, "merged by append",
		slog.Int("tables", len(tables)),
		slog.Int("union_columns", len(union)),
		slog.Int("rows", totalRows),
		slog.Int("type_conflicts", len(res.Warnings)))

	return res
}

// widen resolves a single logical type for a column seen with the given
// types, and reports whether they conflicted. Integer and float widen to
// float; every other mix widens to string as the last resort.
func widen(types []table.LogicalType) (table.LogicalType, bool) {
	final := types[0]
	conflict := false
	for _, t := range types[1:] {
		if t == final {
			continue
		}
		conflict = true
		if (final == table.TypeInteger && t == table.TypeFloat) ||
			(final == table.TypeFloat && t == table.TypeInteger) {
			final = table.TypeFloat
			continue
		}
		final = table.TypeString
	}
	return final, conflict
}

// widenValue converts a cell to the widened column type.
func widenValue(v table.Value, final table.LogicalType) table.Value {
	if v.IsMissing() {
		return v
	}
	switch final {
	case table.TypeFloat:
		if n, ok := v.AsInt(); ok {
			return table.Float(float64(n))
		}
	case table.TypeString:
		if v.Kind() != table.KindString {
			return table.String(v.String())
		}
	}
	return v
}

// provenanceName returns the name of the provenance column, suffixed when
// an input column already claimed it.
func provenanceName(union []string) string {
	taken := make(map[string]struct{}, len(union))
	for _, name := range union {
		taken[name] = struct{}{}
	}
	name := SourceColumn
	for n := 2; ; n++ {
		if _, dup := taken[name]; !dup {
			return name
		}
		name = fmt.Sprintf("%s_%d", SourceColumn, n)
	}
}
