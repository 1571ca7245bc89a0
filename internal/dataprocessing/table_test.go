package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tabprep/internal/errors"
)

// mustTable builds a typed table from raw records or fails the test
func mustTable(t *testing.T, header []string, rows [][]string) *Table {
	t.Helper()
	table, err := TableFromRecords(header, rows)
	require.NoError(t, err)
	return table
}

// columnCells returns the output cells of one column
func columnCells(t *testing.T, table *Table, name string) []string {
	t.Helper()
	c, ok := table.Column(name)
	require.True(t, ok, "column %q not found in %v", name, table.Names())
	cells := make([]string, c.Len())
	for i := range cells {
		cells[i] = c.Cell(i)
	}
	return cells
}

func TestFormatNumber(t *testing.T) {
	a, b := 0.1, 0.2
	tests := []struct {
		name    string
		value   float64
		integer bool
		want    string
	}{
		{"integer column", 3, true, "3"},
		{"whole number in fractional column", 2, false, "2.0"},
		{"fraction", 2.5, false, "2.5"},
		{"shortest representation", a + b, false, "0.30000000000000004"},
		{"exact constant", 0.3, false, "0.3"},
		{"negative zero integer", math.Copysign(0, -1), true, "0"},
		{"negative zero fractional", math.Copysign(0, -1), false, "0.0"},
		{"negative", -1.25, false, "-1.25"},
		{"large whole number", 1e21, false, "1000000000000000000000.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatNumber(tt.value, tt.integer))
		})
	}
}

func TestColumn_Cell(t *testing.T) {
	num := NewNumericColumn("n", []float64{1, 0, 2.5}, []bool{false, true, false}, false)
	assert.Equal(t, "1.0", num.Cell(0))
	assert.Equal(t, "", num.Cell(1))
	assert.Equal(t, "2.5", num.Cell(2))
	assert.Equal(t, 1, num.MissingCount())

	cat := NewCategoricalColumn("c", []string{"yes", ""}, []bool{false, true})
	assert.Equal(t, "yes", cat.Cell(0))
	assert.Equal(t, "", cat.Cell(1))
	assert.Equal(t, KindCategorical, cat.Kind)
}

func TestNewTable(t *testing.T) {
	t.Run("keeps column order", func(t *testing.T) {
		table, err := NewTable(
			NewNumericColumn("b", []float64{1, 2}, nil, true),
			NewCategoricalColumn("a", []string{"x", "y"}, nil),
		)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, table.Names())
		assert.Equal(t, 2, table.Len())
		assert.Equal(t, 2, table.Width())
		assert.Equal(t, []string{"2", "y"}, table.Row(1))
	})

	t.Run("duplicate names", func(t *testing.T) {
		_, err := NewTable(
			NewNumericColumn("a", []float64{1}, nil, true),
			NewNumericColumn("a", []float64{2}, nil, true),
		)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFormat))
	})

	t.Run("unequal lengths", func(t *testing.T) {
		_, err := NewTable(
			NewNumericColumn("a", []float64{1, 2}, nil, true),
			NewNumericColumn("b", []float64{2}, nil, true),
		)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFormat))
	})

	t.Run("empty table", func(t *testing.T) {
		table, err := NewTable()
		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
		assert.Empty(t, table.Names())
	})
}

func TestTable_AddColumn(t *testing.T) {
	table := mustTable(t, []string{"a", "b", "c"}, [][]string{{"1", "2", "3"}})

	require.NoError(t, table.AddColumn(NewNumericColumn("d", []float64{4}, nil, true)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, table.Names())

	require.NoError(t, table.AddColumn(NewCategoricalColumn("b", []string{"replaced"}, nil)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, table.Names(), "replacement keeps position")
	assert.Equal(t, []string{"1", "replaced", "3", "4"}, table.Row(0))
}

func TestTable_DropColumn(t *testing.T) {
	table := mustTable(t, []string{"a", "b", "c"}, [][]string{{"1", "2", "3"}})

	assert.True(t, table.DropColumn("b"))
	assert.False(t, table.DropColumn("b"))
	assert.Equal(t, []string{"a", "c"}, table.Names())

	c, ok := table.Column("c")
	require.True(t, ok)
	assert.Equal(t, "3", c.Cell(0))
}

func TestTable_Rename(t *testing.T) {
	table := mustTable(t, []string{"A", "B"}, [][]string{{"1", "2"}})

	require.NoError(t, table.Rename([]string{"x", "y"}))
	_, ok := table.Column("A")
	assert.False(t, ok)
	_, ok = table.Column("y")
	assert.True(t, ok)

	err := table.Rename([]string{"z", "z"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFormat))
	assert.Equal(t, []string{"x", "y"}, table.Names(), "failed rename leaves names untouched")

	assert.Error(t, table.Rename([]string{"only"}))
}

func TestTable_KeepRows(t *testing.T) {
	table := mustTable(t, []string{"n", "s"}, [][]string{
		{"1", "a"},
		{"2", "b"},
		{"", "c"},
		{"4", ""},
	})

	table.KeepRows([]bool{true, false, true, true})

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"1.0", "", "4.0"}, columnCells(t, table, "n"))
	assert.Equal(t, []string{"a", "c", ""}, columnCells(t, table, "s"))
}

func TestTable_Schema(t *testing.T) {
	table := mustTable(t, []string{"n", "s"}, [][]string{{"1", "a"}, {"", "b"}})

	assert.Equal(t, []ColumnMeta{
		{Name: "n", Kind: KindNumeric, Integer: false, Missing: 1},
		{Name: "s", Kind: KindCategorical, Integer: false, Missing: 0},
	}, table.Schema())
}
