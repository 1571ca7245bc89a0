package dataprocessing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tabprep/internal/errors"
	"tabprep/pkg/contracts/domain"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Gender", "gender"},
		{" Patient ID ", "patient_id"},
		{"Obesity-Level", "obesity_level"},
		{"FAM HIST-O", "fam_hist_o"},
		{"ch2o", "ch2o"},
		{"Two  Spaces", "two__spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHeader(tt.in))
		})
	}
}

func TestHeaderNormalizer_Apply(t *testing.T) {
	t.Run("renames in place", func(t *testing.T) {
		table := mustTable(t, []string{"Patient_ID", "Obesity-Level", "CH2O"}, [][]string{{"1", "Normal", "2"}})

		require.NoError(t, HeaderNormalizer{}.Apply(context.Background(), table, nil))
		assert.Equal(t, []string{"patient_id", "obesity_level", "ch2o"}, table.Names())
	})

	t.Run("collision", func(t *testing.T) {
		table := mustTable(t, []string{"Age", "age "}, [][]string{{"1", "2"}})

		err := HeaderNormalizer{}.Apply(context.Background(), table, nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFormat))
	})
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
	assert.Equal(t, 7.0, Median([]float64{7}))
	assert.Equal(t, 0.0, Median(nil))
}

func TestMode(t *testing.T) {
	assert.Equal(t, "b", Mode([]string{"c", "b", "b"}))
	assert.Equal(t, "a", Mode([]string{"b", "a", "b", "a"}), "ties go to the smallest value")
	assert.Equal(t, "x", Mode([]string{"x"}))
	assert.Equal(t, "", Mode(nil))
}

func TestImputer_Apply(t *testing.T) {
	table := mustTable(t, []string{"age", "height", "gender", "full"}, [][]string{
		{"20", "1.5", "Male", "1"},
		{"", "1.7", "Female", "2"},
		{"30", "", "", "3"},
		{"25", "1.6", "Female", "4"},
	})
	report := &domain.RunReport{}

	require.NoError(t, Imputer{}.Apply(context.Background(), table, report))

	assert.Equal(t, []string{"20.0", "25.0", "30.0", "25.0"}, columnCells(t, table, "age"))
	assert.Equal(t, []string{"1.5", "1.7", "1.6", "1.6"}, columnCells(t, table, "height"))
	assert.Equal(t, []string{"Male", "Female", "Female", "Female"}, columnCells(t, table, "gender"))
	assert.Equal(t, []string{"1", "2", "3", "4"}, columnCells(t, table, "full"), "complete columns untouched")

	for _, c := range table.Columns() {
		assert.Zero(t, c.MissingCount(), c.Name)
	}

	assert.Equal(t, []domain.Imputation{
		{Column: "age", Strategy: domain.ImputationMedian, Value: "25.0", Filled: 1},
		{Column: "height", Strategy: domain.ImputationMedian, Value: "1.6", Filled: 1},
		{Column: "gender", Strategy: domain.ImputationMode, Value: "Female", Filled: 1},
	}, report.Imputations)
}

func TestImputer_Apply_EvenMedian(t *testing.T) {
	table := mustTable(t, []string{"v"}, [][]string{{"1"}, {"2"}, {"NA"}})

	require.NoError(t, Imputer{}.Apply(context.Background(), table, nil))
	assert.Equal(t, []string{"1.0", "2.0", "1.5"}, columnCells(t, table, "v"))
}

func TestImputer_Apply_AllMissing(t *testing.T) {
	table := mustTable(t, []string{"ok", "empty"}, [][]string{{"1", ""}, {"2", "NA"}})

	err := Imputer{}.Apply(context.Background(), table, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeImputation))
	assert.Contains(t, err.Error(), `"empty"`)
}

func TestDeduplicator_Apply(t *testing.T) {
	table := mustTable(t, []string{"id", "name", "score"}, [][]string{
		{"1", "a", "0"},
		{"2", "b", "1.5"},
		{"1", "a", "-0"},
		{"2", "b", "1.5"},
		{"2", "b,", "1.5"},
		{"3", "", "2"},
		{"3", "", "2"},
	})
	report := &domain.RunReport{}

	require.NoError(t, Deduplicator{}.Apply(context.Background(), table, report))

	assert.Equal(t, 4, table.Len())
	assert.Equal(t, []string{"1", "2", "2", "3"}, columnCells(t, table, "id"))
	assert.Equal(t, []string{"a", "b", "b,", ""}, columnCells(t, table, "name"))
	assert.Equal(t, 3, report.DuplicatesRemoved)
}

func TestDeduplicator_Apply_NoDuplicates(t *testing.T) {
	table := mustTable(t, []string{"a", "b"}, [][]string{{"1", "x"}, {"1", "y"}, {"2", "x"}})
	report := &domain.RunReport{}

	require.NoError(t, Deduplicator{}.Apply(context.Background(), table, report))
	assert.Equal(t, 3, table.Len())
	assert.Zero(t, report.DuplicatesRemoved)
}

func TestDeduplicator_KeyIsUnambiguous(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide
	table := mustTable(t, []string{"x", "y"}, [][]string{{"ab", "c"}, {"a", "bc"}})

	require.NoError(t, Deduplicator{}.Apply(context.Background(), table, nil))
	assert.Equal(t, 2, table.Len())
}

func TestEncodeColumn(t *testing.T) {
	t.Run("text sorted by byte order", func(t *testing.T) {
		c := NewCategoricalColumn("favc", []string{"yes", "no", "Yes", "yes"}, nil)

		codeMap, err := EncodeColumn(c)
		require.NoError(t, err)

		assert.Equal(t, []string{"Yes", "no", "yes"}, codeMap.Categories)
		assert.Equal(t, KindNumeric, c.Kind)
		assert.True(t, c.Integer)
		assert.Equal(t, []float64{2, 1, 0, 2}, c.Numbers)
		assert.Nil(t, c.Strings)

		code, ok := codeMap.Code("no")
		assert.True(t, ok)
		assert.Equal(t, 1, code)
	})

	t.Run("numeric sorted ascending", func(t *testing.T) {
		c := NewNumericColumn("smoke", []float64{10, 2, 10}, nil, true)

		codeMap, err := EncodeColumn(c)
		require.NoError(t, err)

		assert.Equal(t, []string{"2", "10"}, codeMap.Categories)
		assert.Equal(t, []float64{1, 0, 1}, c.Numbers)
	})

	t.Run("missing cells", func(t *testing.T) {
		c := NewCategoricalColumn("favc", []string{"yes", ""}, []bool{false, true})

		_, err := EncodeColumn(c)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFormat))
	})
}

func TestEncoder_Apply(t *testing.T) {
	table := mustTable(t, []string{"gender", "calc", "notes"}, [][]string{
		{"Male", "Sometimes", "x"},
		{"Female", "no", "y"},
		{"Male", "Frequently", "z"},
	})
	report := &domain.RunReport{}

	encoder := NewEncoder([]string{"gender", "smoke"}, []string{"calc", "mtrans"})
	require.NoError(t, encoder.Apply(context.Background(), table, report))

	assert.Equal(t, []string{"1", "0", "1"}, columnCells(t, table, "gender"))
	assert.Equal(t, []string{"1", "2", "0"}, columnCells(t, table, "calc"))
	assert.Equal(t, []string{"x", "y", "z"}, columnCells(t, table, "notes"), "unlisted columns pass through")

	assert.Equal(t, []domain.CategoryCodeMap{
		{Column: "gender", Categories: []string{"Female", "Male"}},
		{Column: "calc", Categories: []string{"Frequently", "Sometimes", "no"}},
	}, report.CodeMaps)
}

func TestBMIDeriver_Apply(t *testing.T) {
	t.Run("appends bmi", func(t *testing.T) {
		table := mustTable(t, []string{"height", "weight", "age"}, [][]string{
			{"1.75", "70", "20"},
			{"1.6", "64", "30"},
		})
		report := &domain.RunReport{}

		require.NoError(t, NewBMIDeriver("weight", "height", "bmi").Apply(context.Background(), table, report))

		assert.Equal(t, []string{"height", "weight", "age", "bmi"}, table.Names())
		bmi, _ := table.Column("bmi")
		assert.InDelta(t, 22.857142857, bmi.Numbers[0], 1e-9)
		assert.InDelta(t, 25.0, bmi.Numbers[1], 1e-9)
		assert.False(t, bmi.Integer)
		assert.Equal(t, []string{"bmi"}, report.DerivedColumns)
	})

	t.Run("replaces existing column in place", func(t *testing.T) {
		table := mustTable(t, []string{"bmi", "height", "weight"}, [][]string{{"0", "2", "80"}})

		require.NoError(t, NewBMIDeriver("weight", "height", "bmi").Apply(context.Background(), table, nil))

		assert.Equal(t, []string{"bmi", "height", "weight"}, table.Names())
		assert.Equal(t, []string{"20.0"}, columnCells(t, table, "bmi"))
	})

	t.Run("missing source column", func(t *testing.T) {
		table := mustTable(t, []string{"weight"}, [][]string{{"80"}})

		require.NoError(t, NewBMIDeriver("weight", "height", "bmi").Apply(context.Background(), table, nil))
		assert.Equal(t, []string{"weight"}, table.Names())
	})

	t.Run("zero height", func(t *testing.T) {
		table := mustTable(t, []string{"height", "weight"}, [][]string{{"1.7", "70"}, {"0", "70"}})

		err := NewBMIDeriver("weight", "height", "bmi").Apply(context.Background(), table, nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeDerivation))
		assert.Contains(t, err.Error(), "row 2")
		_, ok := table.Column("bmi")
		assert.False(t, ok)
	})

	t.Run("categorical source", func(t *testing.T) {
		table := mustTable(t, []string{"height", "weight"}, [][]string{{"1.7", "heavy"}})

		err := NewBMIDeriver("weight", "height", "bmi").Apply(context.Background(), table, nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeDerivation))
	})
}

func TestProjector_Apply(t *testing.T) {
	table := mustTable(t, []string{"patient_id", "age"}, [][]string{{"7", "30"}})
	report := &domain.RunReport{}

	p := NewProjector("patient_id", "", "not_there")
	assert.Equal(t, []string{"patient_id", "not_there"}, p.Drop)

	require.NoError(t, p.Apply(context.Background(), table, report))
	assert.Equal(t, []string{"age"}, table.Names())
	assert.Equal(t, []string{"patient_id"}, report.DroppedColumns)
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		places int32
		want   float64
	}{
		{"half up", 2.5, 0, 3},
		{"half away from zero when negative", -2.5, 0, -3},
		{"below half", 30.4, 0, 30},
		{"shortest decimal form 2.675", 2.675, 2, 2.68},
		{"shortest decimal form 1.005", 1.005, 2, 1.01},
		{"one place", 2.25, 1, 2.3},
		{"already rounded", 1.5, 1, 1.5},
		{"zero", 0, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundHalfAwayFromZero(tt.value, tt.places))
		})
	}

	assert.True(t, math.IsNaN(RoundHalfAwayFromZero(math.NaN(), 2)))
	assert.True(t, math.IsInf(RoundHalfAwayFromZero(math.Inf(1), 2), 1))
}

func TestRoundingRules(t *testing.T) {
	rules := RoundingRules("age", []string{"fcvc", "ncp"}, "ch2o", []string{"height", "", "bmi"})

	assert.Equal(t, []RoundingRule{
		{Column: "age", Places: 0, Integer: true},
		{Column: "fcvc", Places: 0, Integer: true},
		{Column: "ncp", Places: 0, Integer: true},
		{Column: "ch2o", Places: 1},
		{Column: "height", Places: 2},
		{Column: "bmi", Places: 2},
	}, rules)
}

func TestRounder_Apply(t *testing.T) {
	table := mustTable(t, []string{"age", "fcvc", "ch2o", "height", "other"}, [][]string{
		{"20.5", "2.7", "2.25", "1.755", "0.123456"},
		{"33.2", "1", "3", "1.8", "7"},
	})
	report := &domain.RunReport{}

	rounder := NewRounder(RoundingRules("age", []string{"fcvc", "faf"}, "ch2o", []string{"height", "bmi"}))
	require.NoError(t, rounder.Apply(context.Background(), table, report))

	assert.Equal(t, []string{"21", "33"}, columnCells(t, table, "age"))
	assert.Equal(t, []string{"3", "1"}, columnCells(t, table, "fcvc"))
	assert.Equal(t, []string{"2.3", "3.0"}, columnCells(t, table, "ch2o"))
	assert.Equal(t, []string{"1.76", "1.8"}, columnCells(t, table, "height"))
	assert.Equal(t, []string{"0.123456", "7.0"}, columnCells(t, table, "other"), "unruled columns untouched")

	assert.Equal(t, []domain.RoundedColumn{
		{Column: "age", Places: 0, Integer: true},
		{Column: "fcvc", Places: 0, Integer: true},
		{Column: "ch2o", Places: 1},
		{Column: "height", Places: 2},
	}, report.RoundedColumns)
}

func TestRounder_Apply_Categorical(t *testing.T) {
	table := mustTable(t, []string{"age"}, [][]string{{"young"}})

	err := NewRounder([]RoundingRule{{Column: "age", Integer: true}}).Apply(context.Background(), table, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFormat))
}
