package dataprocessing

import (
	"context"
	"fmt"
	"sort"

	apperrors "tabprep/internal/errors"
	"tabprep/pkg/contracts/domain"
)

// Imputer fills missing numeric cells with the column median and missing
// categorical cells with the column mode
type Imputer struct{}

func (Imputer) Name() string { return "impute" }

// Apply fills every column that has missing cells. A column with missing cells
// and no present value is an ImputationError.
func (Imputer) Apply(_ context.Context, t *Table, report *domain.RunReport) error {
	for _, c := range t.Columns() {
		missing := c.MissingCount()
		if missing == 0 {
			continue
		}
		if missing == c.Len() {
			return apperrors.NewImputationError(
				fmt.Sprintf("column %q has no values to compute a fill value from", c.Name)).
				WithContext("column", c.Name)
		}

		var imp domain.Imputation
		if c.Kind == KindNumeric {
			median := Median(presentNumbers(c))
			for i, m := range c.Missing {
				if m {
					c.Numbers[i] = median
					c.Missing[i] = false
				}
			}
			// a filled integer column is no longer guaranteed integral
			c.Integer = false
			imp = domain.Imputation{Column: c.Name, Strategy: domain.ImputationMedian, Value: formatNumber(median, false)}
		} else {
			mode := Mode(presentStrings(c))
			for i, m := range c.Missing {
				if m {
					c.Strings[i] = mode
					c.Missing[i] = false
				}
			}
			imp = domain.Imputation{Column: c.Name, Strategy: domain.ImputationMode, Value: mode}
		}
		imp.Filled = missing
		if report != nil {
			report.Imputations = append(report.Imputations, imp)
		}
	}
	return nil
}

func presentNumbers(c *Column) []float64 {
	nums := make([]float64, 0, c.Len())
	for i, m := range c.Missing {
		if !m {
			nums = append(nums, c.Numbers[i])
		}
	}
	return nums
}

func presentStrings(c *Column) []string {
	vals := make([]string, 0, c.Len())
	for i, m := range c.Missing {
		if !m {
			vals = append(vals, c.Strings[i])
		}
	}
	return vals
}

// Median returns the middle value of x, or the mean of the two middle values
// for an even count. x is sorted in place. Median of an empty slice is 0.
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	sort.Float64s(x)
	if n%2 == 1 {
		return x[n/2]
	}
	return (x[n/2-1] + x[n/2]) / 2
}

// Mode returns the most frequent value of x. Ties go to the lexicographically
// smallest value. Mode of an empty slice is "".
func Mode(x []string) string {
	counts := make(map[string]int, len(x))
	for _, v := range x {
		counts[v]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestCount := "", 0
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}
