package dataprocessing

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	apperrors "tabprep/internal/errors"
	"tabprep/pkg/contracts/domain"
)

// RoundingRule fixes the precision of one column. Integer rules round to
// whole numbers and make the column print without a fraction. Other rules keep
// an already integral column integral.
type RoundingRule struct {
	Column  string
	Places  int32
	Integer bool
}

// RoundingRules builds the standard rule table: age and count columns become
// integers, the intake column keeps one decimal, the decimal columns keep two.
func RoundingRules(age string, count []string, intake string, decimals []string) []RoundingRule {
	var rules []RoundingRule
	if age != "" {
		rules = append(rules, RoundingRule{Column: age, Places: 0, Integer: true})
	}
	for _, c := range count {
		rules = append(rules, RoundingRule{Column: c, Places: 0, Integer: true})
	}
	if intake != "" {
		rules = append(rules, RoundingRule{Column: intake, Places: 1})
	}
	for _, c := range decimals {
		if c != "" {
			rules = append(rules, RoundingRule{Column: c, Places: 2})
		}
	}
	return rules
}

// Rounder applies rounding rules to the columns present in a table
type Rounder struct {
	Rules []RoundingRule
}

// NewRounder creates a rounder for rules
func NewRounder(rules []RoundingRule) *Rounder {
	return &Rounder{Rules: rules}
}

func (r *Rounder) Name() string { return "round" }

// Apply rounds each ruled column that is present. A ruled column that is not
// numeric is a FormatError.
func (r *Rounder) Apply(_ context.Context, t *Table, report *domain.RunReport) error {
	for _, rule := range r.Rules {
		c, ok := t.Column(rule.Column)
		if !ok {
			continue
		}
		if c.Kind != KindNumeric {
			return apperrors.NewFormatError(
				fmt.Sprintf("column %q must be numeric to round to %d places", c.Name, rule.Places), nil).
				WithContext("column", c.Name)
		}
		for i, v := range c.Numbers {
			if !c.Missing[i] {
				c.Numbers[i] = RoundHalfAwayFromZero(v, rule.Places)
			}
		}
		if rule.Integer {
			c.Integer = true
		}
		if report != nil {
			report.RoundedColumns = append(report.RoundedColumns,
				domain.RoundedColumn{Column: c.Name, Places: rule.Places, Integer: rule.Integer})
		}
	}
	return nil
}

// RoundHalfAwayFromZero rounds the shortest decimal representation of v to
// places digits, so 2.675 becomes 2.68 and -2.5 becomes -3. Non-finite values
// are returned unchanged.
func RoundHalfAwayFromZero(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
