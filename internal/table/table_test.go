package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_ZeroValueIsMissing(t *testing.T) {
	var v Value
	assert.True(t, v.IsMissing())
	assert.Equal(t, KindMissing, v.Kind())
	assert.Equal(t, "", v.String())
}

func TestValue_MissingDistinctFromEmptyString(t *testing.T) {
	missing := Missing()
	empty := String("")

	assert.True(t, missing.IsMissing())
	assert.False(t, empty.IsMissing())
	assert.False(t, missing.Equal(empty))
	assert.NotEqual(t, missing.Key(), empty.Key())

	// Both render as "" so callers must check IsMissing to distinguish.
	assert.Equal(t, "", missing.String())
	assert.Equal(t, "", empty.String())
}

func TestValue_String(t *testing.T) {
	day := time.Date(2024, 2, 13, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"string", String("hello"), "hello"},
		{"integer", Int(42), "42"},
		{"negative integer", Int(-7), "-7"},
		{"float", Float(3.14), "3.14"},
		{"boolean true", Bool(true), "true"},
		{"boolean false", Bool(false), "false"},
		{"date drops clock", Date(day, true), "2024-02-13"},
		{"missing", Missing(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestValue_ClockString(t *testing.T) {
	day := time.Date(2024, 2, 13, 9, 30, 5, 0, time.UTC)

	assert.Equal(t, "09:30:05", Date(day, true).ClockString())
	assert.Equal(t, "", Date(day, false).ClockString())
	assert.Equal(t, "", String("09:30:05").ClockString())
}

func TestValue_KeyAvoidsCrossKindCollisions(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	values := []Value{
		Missing(),
		String("1"),
		Int(1),
		Float(1),
		Bool(true),
		String("true"),
		Date(day, false),
		String("2024-01-01"),
	}

	seen := make(map[string]int)
	for i, v := range values {
		key := v.Key()
		prev, dup := seen[key]
		assert.False(t, dup, "values %d and %d share key %q", prev, i, key)
		seen[key] = i
	}
}

func TestValue_KeyDistinguishesClock(t *testing.T) {
	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	assert.NotEqual(t, Date(day, true).Key(), Date(day, false).Key())
}

func TestValue_Equal(t *testing.T) {
	day := time.Date(2024, 2, 13, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"missing equals missing", Missing(), Missing(), true},
		{"same string", String("a"), String("a"), true},
		{"different string", String("a"), String("b"), false},
		{"same int", Int(5), Int(5), true},
		{"int vs float", Int(5), Float(5), false},
		{"same date", Date(day, false), Date(day, false), true},
		{"clock flag differs", Date(day, true), Date(day, false), false},
		{"string vs missing", String(""), Missing(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
		})
	}
}

func TestKindFor(t *testing.T) {
	assert.Equal(t, KindInteger, KindFor(TypeInteger))
	assert.Equal(t, KindFloat, KindFor(TypeFloat))
	assert.Equal(t, KindBoolean, KindFor(TypeBoolean))
	assert.Equal(t, KindDate, KindFor(TypeDate))
	assert.Equal(t, KindString, KindFor(TypeString))
	assert.Equal(t, KindString, KindFor(TypeMixed))
}

func TestFromRows(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		rows     [][]string
		wantRows int
		check    func(t *testing.T, tbl *Table)
	}{
		{
			name:     "rectangular input",
			header:   []string{"id", "name"},
			rows:     [][]string{{"1", "alice"}, {"2", "bob"}},
			wantRows: 2,
			check: func(t *testing.T, tbl *Table) {
				assert.Equal(t, String("alice"), tbl.Column("name").Cells[0])
			},
		},
		{
			name:     "short row padded with missing",
			header:   []string{"id", "name", "age"},
			rows:     [][]string{{"1", "alice"}},
			wantRows: 1,
			check: func(t *testing.T, tbl *Table) {
				assert.True(t, tbl.Column("age").Cells[0].IsMissing())
			},
		},
		{
			name:     "long row truncated",
			header:   []string{"id"},
			rows:     [][]string{{"1", "extra"}},
			wantRows: 1,
			check: func(t *testing.T, tbl *Table) {
				assert.Equal(t, 1, tbl.ColumnCount())
				assert.Equal(t, String("1"), tbl.Column("id").Cells[0])
			},
		},
		{
			name:     "no data rows",
			header:   []string{"id", "name"},
			rows:     nil,
			wantRows: 0,
			check: func(t *testing.T, tbl *Table) {
				assert.Equal(t, 2, tbl.ColumnCount())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := FromRows("src", tt.header, tt.rows)
			require.NoError(t, tbl.Validate())
			assert.Equal(t, "src", tbl.Source)
			assert.Equal(t, tt.wantRows, tbl.RowCount())
			for _, c := range tbl.Columns {
				assert.Equal(t, TypeString, c.Type)
			}
			tt.check(t, tbl)
		})
	}
}

func TestTable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		table   *Table
		wantErr string
	}{
		{
			name:  "valid table",
			table: FromRows("s", []string{"a", "b"}, [][]string{{"1", "2"}}),
		},
		{
			name:  "empty table",
			table: New("s"),
		},
		{
			name: "duplicate column names",
			table: &Table{Source: "s", Columns: []Column{
				{Name: "a", Type: TypeString, Cells: []Value{String("1")}},
				{Name: "a", Type: TypeString, Cells: []Value{String("2")}},
			}},
			wantErr: "duplicate column name",
		},
		{
			name: "ragged columns",
			table: &Table{Source: "s", Columns: []Column{
				{Name: "a", Type: TypeString, Cells: []Value{String("1")}},
				{Name: "b", Type: TypeString, Cells: []Value{String("2"), String("3")}},
			}},
			wantErr: "expected 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestTable_SelectRows(t *testing.T) {
	tbl := FromRows("s", []string{"id", "name"}, [][]string{
		{"1", "a"}, {"2", "b"}, {"3", "c"},
	})

	out := tbl.SelectRows([]int{0, 2})

	assert.Equal(t, 2, out.RowCount())
	assert.Equal(t, String("a"), out.Column("name").Cells[0])
	assert.Equal(t, String("c"), out.Column("name").Cells[1])
	// Original is untouched.
	assert.Equal(t, 3, tbl.RowCount())
}

func TestTable_CloneIsDeep(t *testing.T) {
	tbl := FromRows("s", []string{"id"}, [][]string{{"1"}})
	cp := tbl.Clone()

	cp.Columns[0].Name = "renamed"
	cp.Columns[0].Cells[0] = String("changed")

	assert.Equal(t, "id", tbl.Columns[0].Name)
	assert.Equal(t, String("1"), tbl.Columns[0].Cells[0])
}

func TestTable_RowKey(t *testing.T) {
	tbl := FromRows("s", []string{"id", "name"}, [][]string{
		{"1", "a"}, {"1", "a"}, {"1", "b"},
	})

	assert.Equal(t, tbl.RowKey(0, []string{"id", "name"}), tbl.RowKey(1, []string{"id", "name"}))
	assert.NotEqual(t, tbl.RowKey(0, []string{"id", "name"}), tbl.RowKey(2, []string{"id", "name"}))
	// Keying on a subset makes rows 0 and 2 equal.
	assert.Equal(t, tbl.RowKey(0, []string{"id"}), tbl.RowKey(2, []string{"id"}))
	// Unknown columns contribute the missing marker rather than panicking.
	assert.Equal(t, tbl.RowKey(0, []string{"absent"}), tbl.RowKey(2, []string{"absent"}))
}
