package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wranglecli/internal/config"
	apperrors "wranglecli/internal/errors"
	"wranglecli/internal/table"
)

func TestNew_RejectsInvalidOptions(t *testing.T) {
	opts := config.DefaultCleanOptions()
	opts.Delimiter = "."

	_, err := New(nil, opts)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeConfig, apperrors.TypeOf(err))
}

func TestPipeline_Run_AppendScenario(t *testing.T) {
	p, err := New(nil, config.DefaultCleanOptions())
	require.NoError(t, err)

	a := table.FromRows("a", []string{"id", "name"}, [][]string{
		{"1", "Al "},
		{"2", "Bo"},
	})
	b := table.FromRows("b", []string{"id", "name", "age"}, [][]string{
		{"2", "Bo", "30"},
	})

	out, err := p.Run(context.Background(), []*table.Table{a, b})
	require.NoError(t, err)

	merged := out.Merge.Combined
	require.NotNil(t, merged)
	assert.Equal(t, []string{"id", "name", "age", "source"}, merged.ColumnNames())
	require.Equal(t, 3, merged.RowCount())

	// Trim runs before the merge, and the missing age cells stay missing
	// under the keep policy.
	assert.Equal(t, table.String("Al"), merged.Column("name").Cells[0])
	assert.True(t, merged.Column("age").Cells[0].IsMissing())
	assert.True(t, merged.Column("age").Cells[1].IsMissing())
	assert.Equal(t, table.Int(30), merged.Column("age").Cells[2])
	assert.Equal(t, table.String("a"), merged.Column("source").Cells[0])
	assert.Equal(t, table.String("b"), merged.Column("source").Cells[2])

	require.Len(t, out.Cleaned, 2)
	require.Len(t, out.Diagnostics, 2)
	assert.Equal(t, "a", out.Diagnostics[0].Source)
	assert.Equal(t, "b", out.Diagnostics[1].Source)
	require.NotNil(t, out.Report)
}

func TestPipeline_Run_PerSheetDisjointSchemas(t *testing.T) {
	opts := config.DefaultCleanOptions()
	opts.MergeMode = config.MergePerSheet
	p, err := New(nil, opts)
	require.NoError(t, err)

	tables := []*table.Table{
		table.FromRows("x", []string{"id"}, [][]string{{"1"}, {"2"}}),
		table.FromRows("y", []string{"city"}, [][]string{{"Basra"}, {"Erbil"}}),
		table.FromRows("z", []string{"qty", "price"}, [][]string{{"1", "2.5"}}),
	}

	out, err := p.Run(context.Background(), tables)
	require.NoError(t, err)

	// Three incompatible schemas coexist without any merge warnings.
	require.Len(t, out.Merge.Sheets, 3)
	assert.Nil(t, out.Merge.Combined)
	assert.Empty(t, out.Merge.Warnings)
	assert.True(t, out.Report.Passed())
}

func TestPipeline_Run_WarningsDoNotAbort(t *testing.T) {
	opts := config.DefaultCleanOptions()
	opts.TypeThreshold = 0.5
	p, err := New(nil, opts)
	require.NoError(t, err)

	raw := table.FromRows("noisy", []string{"amount"}, [][]string{
		{"1.5"}, {"2.5"}, {"junk"},
	})

	out, err := p.Run(context.Background(), []*table.Table{raw})
	require.NoError(t, err, "coercion failures are warnings, not errors")

	assert.False(t, out.Report.Passed())
	assert.True(t, out.Merge.Combined.Column("amount").Cells[2].IsMissing())
	assert.Equal(t, 1, out.Diagnostics[0].CellsNulled)
}

func TestPipeline_Run_EmptyInput(t *testing.T) {
	p, err := New(nil, config.DefaultCleanOptions())
	require.NoError(t, err)

	_, err = p.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeEmptyInput, apperrors.TypeOf(err))
}

func TestPipeline_Run_InvalidTableFailsRun(t *testing.T) {
	p, err := New(nil, config.DefaultCleanOptions())
	require.NoError(t, err)

	bad := &table.Table{Source: "bad", Columns: []table.Column{
		{Name: "a", Type: table.TypeString, Cells: []table.Value{table.String("1")}},
		{Name: "a", Type: table.TypeString, Cells: []table.Value{table.String("2")}},
	}}

	_, err = p.Run(context.Background(), []*table.Table{bad})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))
}

func TestPipeline_Run_ManyTablesKeepOrder(t *testing.T) {
	p, err := New(nil, config.DefaultCleanOptions())
	require.NoError(t, err)

	var tables []*table.Table
	sources := []string{"q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8"}
	for _, s := range sources {
		tables = append(tables, table.FromRows(s, []string{"id"}, [][]string{{"1"}}))
	}

	out, err := p.Run(context.Background(), tables)
	require.NoError(t, err)

	// Concurrent cleaning must not disturb the input order of the output.
	for i, s := range sources {
		assert.Equal(t, s, out.Cleaned[i].Source)
		assert.Equal(t, s, out.Diagnostics[i].Source)
	}
	src := out.Merge.Combined.Column("source")
	for i, s := range sources {
		assert.Equal(t, table.String(s), src.Cells[i])
	}
}
