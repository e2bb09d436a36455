package report

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wranglecli/internal/cleaning"
	"wranglecli/internal/config"
	"wranglecli/internal/merge"
	"wranglecli/internal/table"
)

func cleanDiag(source string, rows, cols int) *cleaning.Diagnostic {
	return &cleaning.Diagnostic{
		Source:          source,
		OriginalRows:    rows,
		OriginalColumns: cols,
		FinalRows:       rows,
		FinalColumns:    cols,
	}
}

func TestBuild_CleanRunPasses(t *testing.T) {
	tbl := table.FromRows("a", []string{"id", "name"}, [][]string{
		{"1", "alice"},
		{"2", "bob"},
	})

	r := Build([]*cleaning.Diagnostic{cleanDiag("a", 2, 2)}, []*table.Table{tbl}, nil)

	assert.True(t, r.Passed())
	assert.Equal(t, 1, r.Summary.TotalFiles)
	assert.Equal(t, 2, r.Summary.TotalRows)
	assert.Zero(t, r.Summary.FilesWithIssues)

	require.Len(t, r.Files, 1)
	require.Len(t, r.Files[0].Columns, 2)
	assert.Equal(t, 2, r.Files[0].Columns[0].UniqueCount)
	assert.Zero(t, r.Files[0].Columns[0].NullCount)
}

func TestBuild_ColumnHeuristics(t *testing.T) {
	tbl := &table.Table{Source: "a", Columns: []table.Column{
		{Name: "empty", Type: table.TypeString, Cells: []table.Value{
			table.Missing(), table.Missing(), table.Missing(),
		}},
		{Name: "sparse", Type: table.TypeString, Cells: []table.Value{
			table.String("x"), table.Missing(), table.Missing(),
		}},
		{Name: "constant", Type: table.TypeString, Cells: []table.Value{
			table.String("same"), table.String("same"), table.String("same"),
		}},
		{Name: "healthy", Type: table.TypeString, Cells: []table.Value{
			table.String("a"), table.String("b"), table.String("c"),
		}},
	}}

	r := Build([]*cleaning.Diagnostic{cleanDiag("a", 3, 4)}, []*table.Table{tbl}, nil)

	assert.False(t, r.Passed())
	codes := make(map[string]string)
	for _, w := range r.Files[0].Warnings {
		codes[w.Column] = w.Code
	}
	assert.Equal(t, WarnCodeEmptyColumn, codes["empty"])
	assert.Equal(t, WarnCodeHighMissing, codes["sparse"])
	assert.Equal(t, WarnCodeSingleValue, codes["constant"])
	assert.NotContains(t, codes, "healthy")
	assert.Equal(t, 1, r.Summary.FilesWithIssues)
}

func TestBuild_HighMissingBoundary(t *testing.T) {
	// Exactly half missing does not trip the threshold; over half does.
	half := &table.Table{Source: "a", Columns: []table.Column{
		{Name: "v", Type: table.TypeString, Cells: []table.Value{
			table.String("x"), table.String("y"), table.Missing(), table.Missing(),
		}},
	}}
	r := Build([]*cleaning.Diagnostic{cleanDiag("a", 4, 1)}, []*table.Table{half}, nil)
	assert.Empty(t, r.Files[0].Warnings)

	over := &table.Table{Source: "a", Columns: []table.Column{
		{Name: "v", Type: table.TypeString, Cells: []table.Value{
			table.String("x"), table.Missing(), table.Missing(), table.Missing(),
		}},
	}}
	r = Build([]*cleaning.Diagnostic{cleanDiag("a", 4, 1)}, []*table.Table{over}, nil)
	require.Len(t, r.Files[0].Warnings, 1)
	assert.Equal(t, WarnCodeHighMissing, r.Files[0].Warnings[0].Code)
}

func TestBuild_CarriesDiagnosticAndMergeWarnings(t *testing.T) {
	diag := cleanDiag("a", 2, 1)
	diag.AddWarning(cleaning.WarnCodeParse, "v", "1 value(s) did not match inferred type integer")
	diag.CellsCoerced = 1
	diag.RowsDroppedDuplicates = 1

	tbl := table.FromRows("a", []string{"v"}, [][]string{{"1"}, {"2"}})
	result := &merge.Result{
		Mode:     config.MergeAppend,
		Combined: tbl,
		Warnings: []cleaning.Warning{
			{Code: cleaning.WarnCodeMerge, Column: "v", Message: "column types differ across tables"},
		},
	}

	r := Build([]*cleaning.Diagnostic{diag}, []*table.Table{tbl}, result)

	assert.False(t, r.Passed())
	assert.Equal(t, 2, r.Summary.WarningCount, "one file warning plus one merge warning")
	assert.Equal(t, 1, r.Summary.TotalCellsCoerced)
	assert.Equal(t, 1, r.Summary.TotalDuplicatesRemoved)
	assert.Equal(t, string(config.MergeAppend), r.Merge.Mode)
	assert.Equal(t, 2, r.Merge.MergedRows)
}

func TestBuild_Deterministic(t *testing.T) {
	diag := cleanDiag("a", 2, 1)
	tbl := table.FromRows("a", []string{"v"}, [][]string{{"1"}, {"2"}})

	first := Build([]*cleaning.Diagnostic{diag}, []*table.Table{tbl}, nil)
	second := Build([]*cleaning.Diagnostic{diag}, []*table.Table{tbl}, nil)

	assert.Equal(t, first, second)
	assert.Equal(t, FormatText(first), FormatText(second))
}

func TestBuild_PerSheetSection(t *testing.T) {
	a := &table.Table{Source: "a", Columns: []table.Column{
		{Name: "id", Type: table.TypeInteger, Cells: []table.Value{table.Int(1)}},
	}}
	engine := merge.NewEngine(nil)
	result, err := engine.Merge(context.Background(), []*table.Table{a}, config.MergePerSheet)
	require.NoError(t, err)

	r := Build([]*cleaning.Diagnostic{cleanDiag("a", 1, 1)}, []*table.Table{a}, result)

	assert.Equal(t, 1, r.Merge.SheetCount)
	assert.Zero(t, r.Merge.MergedRows)
}

func TestFormatText(t *testing.T) {
	diag := cleanDiag("orders", 3, 2)
	diag.FinalRows = 2
	diag.RowsDroppedDuplicates = 1
	diag.TypeChanges = map[string]cleaning.TypeChange{
		"id":     {From: table.TypeString, To: table.TypeInteger},
		"amount": {From: table.TypeString, To: table.TypeFloat},
	}

	tbl := &table.Table{Source: "orders", Columns: []table.Column{
		{Name: "id", Type: table.TypeInteger, Cells: []table.Value{table.Int(1), table.Int(2)}},
		{Name: "amount", Type: table.TypeFloat, Cells: []table.Value{table.Float(1.5), table.Missing()}},
	}}

	r := Build([]*cleaning.Diagnostic{diag}, []*table.Table{tbl}, &merge.Result{
		Mode: config.MergeAppend, Combined: tbl, UnionColumns: []string{"id", "amount"},
	})
	text := FormatText(r)

	assert.Contains(t, text, "DATA QUALITY REPORT")
	assert.Contains(t, text, "FILE: orders")
	assert.Contains(t, text, "Rows: 3 -> 2")
	assert.Contains(t, text, "Duplicates: 1")
	assert.Contains(t, text, "Mode: append")
	// Type changes are rendered in sorted column order.
	amountAt := strings.Index(text, "amount: string -> float")
	idAt := strings.Index(text, "id: string -> integer")
	require.GreaterOrEqual(t, amountAt, 0)
	require.GreaterOrEqual(t, idAt, 0)
	assert.Less(t, amountAt, idAt)
}
