package dataprocessing

import (
	"context"
	"fmt"
	"math"

	apperrors "tabprep/internal/errors"
	"tabprep/pkg/contracts/domain"
)

// BMIDeriver adds a body-mass-index column computed as weight / height²
type BMIDeriver struct {
	Weight string
	Height string
	Target string
}

// NewBMIDeriver creates a deriver reading weight and height and writing target
func NewBMIDeriver(weight, height, target string) *BMIDeriver {
	return &BMIDeriver{Weight: weight, Height: height, Target: target}
}

func (d *BMIDeriver) Name() string { return "derive" }

// Apply derives the target column when both source columns exist. The target
// is appended, or replaced in place when a column of that name already exists.
// Non-numeric sources and non-finite results (height 0) are DerivationErrors.
func (d *BMIDeriver) Apply(_ context.Context, t *Table, report *domain.RunReport) error {
	weight, okW := t.Column(d.Weight)
	height, okH := t.Column(d.Height)
	if !okW || !okH {
		return nil
	}
	for _, c := range []*Column{weight, height} {
		if c.Kind != KindNumeric {
			return apperrors.NewDerivationError(
				fmt.Sprintf("column %q is %s, %s needs numeric input", c.Name, c.Kind, d.Target)).
				WithContext("column", c.Name)
		}
	}

	n := t.Len()
	values := make([]float64, n)
	missing := make([]bool, n)
	for i := 0; i < n; i++ {
		if weight.Missing[i] || height.Missing[i] {
			missing[i] = true
			continue
		}
		h := height.Numbers[i]
		v := weight.Numbers[i] / (h * h)
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return apperrors.NewDerivationError(
				fmt.Sprintf("%s is undefined on row %d (%s=%s, %s=%s)", d.Target, i+1,
					d.Weight, weight.Cell(i), d.Height, height.Cell(i))).
				WithContext("row", i+1)
		}
		values[i] = v
	}

	if err := t.AddColumn(NewNumericColumn(d.Target, values, missing, false)); err != nil {
		return err
	}
	if report != nil {
		report.DerivedColumns = append(report.DerivedColumns, d.Target)
	}
	return nil
}
