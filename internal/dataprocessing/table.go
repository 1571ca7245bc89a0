package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "tabprep/internal/errors"
)

// ColumnKind classifies a column for imputation and arithmetic
type ColumnKind int

const (
	// KindNumeric columns hold float64 cells
	KindNumeric ColumnKind = iota
	// KindCategorical columns hold text cells
	KindCategorical
)

// String returns the kind name used in logs and reports
func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return fmt.Sprintf("ColumnKind(%d)", int(k))
	}
}

// Column is one named, typed column. Numeric columns use Numbers, categorical
// columns use Strings; Missing marks absent cells for either kind.
type Column struct {
	Name string
	Kind ColumnKind
	// Integer controls output formatting of numeric cells
	Integer bool
	Numbers []float64
	Strings []string
	Missing []bool
}

// NewNumericColumn builds a numeric column. A nil missing slice means no cell is missing.
func NewNumericColumn(name string, values []float64, missing []bool, integer bool) *Column {
	if missing == nil {
		missing = make([]bool, len(values))
	}
	return &Column{Name: name, Kind: KindNumeric, Integer: integer, Numbers: values, Missing: missing}
}

// NewCategoricalColumn builds a text column. A nil missing slice means no cell is missing.
func NewCategoricalColumn(name string, values []string, missing []bool) *Column {
	if missing == nil {
		missing = make([]bool, len(values))
	}
	return &Column{Name: name, Kind: KindCategorical, Strings: values, Missing: missing}
}

// Len returns the number of cells
func (c *Column) Len() int {
	return len(c.Missing)
}

// MissingCount returns how many cells are missing
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

// Cell returns the cell at row i as it is written to CSV. Missing cells are empty.
func (c *Column) Cell(i int) string {
	if c.Missing[i] {
		return ""
	}
	if c.Kind == KindCategorical {
		return c.Strings[i]
	}
	return formatNumber(c.Numbers[i], c.Integer)
}

// formatNumber renders integral columns without a fraction and fractional
// columns with at least one decimal digit.
func formatNumber(v float64, integer bool) string {
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	if integer {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsInf(v, 0) || math.IsNaN(v) || strings.ContainsRune(s, '.') {
		return s
	}
	return s + ".0"
}

// filter keeps the cells whose keep flag is set
func (c *Column) filter(keep []bool) {
	n := 0
	for i, k := range keep {
		if !k {
			continue
		}
		c.Missing[n] = c.Missing[i]
		if c.Kind == KindNumeric {
			c.Numbers[n] = c.Numbers[i]
		} else {
			c.Strings[n] = c.Strings[i]
		}
		n++
	}
	c.Missing = c.Missing[:n]
	if c.Kind == KindNumeric {
		c.Numbers = c.Numbers[:n]
	} else {
		c.Strings = c.Strings[:n]
	}
}

// ColumnMeta is the inspectable classification of one column
type ColumnMeta struct {
	Name    string
	Kind    ColumnKind
	Integer bool
	Missing int
}

// Table is an ordered set of equally long, uniquely named columns
type Table struct {
	columns []*Column
	index   map[string]int
}

// NewTable assembles columns into a table. Columns must have equal length and unique names.
func NewTable(columns ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if _, dup := t.index[c.Name]; dup {
			return nil, apperrors.NewFormatError(fmt.Sprintf("duplicate column name %q", c.Name), nil)
		}
		if err := t.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	if len(t.columns) == 0 {
		return 0
	}
	return t.columns[0].Len()
}

// Width returns the number of columns
func (t *Table) Width() int {
	return len(t.columns)
}

// Columns returns the columns in table order
func (t *Table) Columns() []*Column {
	return t.columns
}

// Names returns the column names in table order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by name
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// AddColumn appends c, or replaces an existing column of the same name in place.
func (t *Table) AddColumn(c *Column) error {
	if len(t.columns) > 0 && c.Len() != t.Len() {
		return apperrors.NewFormatError(
			fmt.Sprintf("column %q has %d rows, table has %d", c.Name, c.Len(), t.Len()), nil)
	}
	if i, ok := t.index[c.Name]; ok {
		t.columns[i] = c
		return nil
	}
	t.index[c.Name] = len(t.columns)
	t.columns = append(t.columns, c)
	return nil
}

// DropColumn removes the named column and reports whether it existed
func (t *Table) DropColumn(name string) bool {
	i, ok := t.index[name]
	if !ok {
		return false
	}
	t.columns = append(t.columns[:i], t.columns[i+1:]...)
	t.reindex()
	return true
}

// Rename changes column names in place. names must match the table width and be unique.
func (t *Table) Rename(names []string) error {
	if len(names) != len(t.columns) {
		return apperrors.NewFormatError(
			fmt.Sprintf("rename needs %d names, got %d", len(t.columns), len(names)), nil)
	}
	seen := make(map[string]int, len(names))
	for i, n := range names {
		if j, dup := seen[n]; dup {
			return apperrors.NewFormatError(
				fmt.Sprintf("columns %q and %q both normalize to %q", t.columns[j].Name, t.columns[i].Name, n), nil)
		}
		seen[n] = i
	}
	for i, c := range t.columns {
		c.Name = names[i]
	}
	t.reindex()
	return nil
}

// KeepRows drops every row whose keep flag is false
func (t *Table) KeepRows(keep []bool) {
	for _, c := range t.columns {
		c.filter(keep)
	}
}

// Row returns row i formatted for output
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Cell(i)
	}
	return row
}

// Schema returns the current classification of every column
func (t *Table) Schema() []ColumnMeta {
	metas := make([]ColumnMeta, len(t.columns))
	for i, c := range t.columns {
		metas[i] = ColumnMeta{Name: c.Name, Kind: c.Kind, Integer: c.Integer, Missing: c.MissingCount()}
	}
	return metas
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.columns))
	for i, c := range t.columns {
		t.index[c.Name] = i
	}
}
