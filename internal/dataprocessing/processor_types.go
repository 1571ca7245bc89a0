package dataprocessing

import (
	"context"

	"tabprep/pkg/contracts/domain"
)

// Stage is one in-place transformation of the table
type Stage interface {
	Name() string
	// Apply mutates t and records what it did in report, which may be nil
	Apply(ctx context.Context, t *Table, report *domain.RunReport) error
}

// Options configures the pipeline. Column names are matched after header normalization.
type Options struct {
	Load LoadOptions

	// BinaryColumns and MultiColumns are label-encoded, binary set first
	BinaryColumns []string
	MultiColumns  []string

	WeightColumn string
	HeightColumn string
	BMIColumn    string

	// IdentifierColumn is dropped when present
	IdentifierColumn string

	Rounding []RoundingRule
}

// DefaultOptions returns the standard column sets for the obesity survey data
func DefaultOptions() Options {
	return Options{
		Load:             LoadOptions{Delimiter: ','},
		BinaryColumns:    []string{"gender", "fam_hist_o", "favc", "smoke", "scc"},
		MultiColumns:     []string{"mtrans", "obesity_level", "caec", "calc"},
		WeightColumn:     "weight",
		HeightColumn:     "height",
		BMIColumn:        "bmi",
		IdentifierColumn: "patient_id",
		Rounding: RoundingRules(
			"age",
			[]string{"fcvc", "ncp", "faf", "tue"},
			"ch2o",
			[]string{"height", "weight", "bmi"},
		),
	}
}
