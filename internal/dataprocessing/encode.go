package dataprocessing

import (
	"context"
	"fmt"
	"sort"

	apperrors "tabprep/internal/errors"
	"tabprep/pkg/contracts/domain"
)

// Encoder label-encodes named categorical columns into integer codes
type Encoder struct {
	// Binary columns are expected to hold two categories; this is not enforced.
	Binary []string
	Multi  []string
}

// NewEncoder creates an encoder for the given binary and multi-category column names
func NewEncoder(binary, multi []string) *Encoder {
	return &Encoder{Binary: binary, Multi: multi}
}

func (e *Encoder) Name() string { return "encode" }

// Apply encodes every listed column present in t, binary set first. Absent columns are skipped.
func (e *Encoder) Apply(_ context.Context, t *Table, report *domain.RunReport) error {
	for _, set := range [][]string{e.Binary, e.Multi} {
		for _, name := range set {
			c, ok := t.Column(name)
			if !ok {
				continue
			}
			codeMap, err := EncodeColumn(c)
			if err != nil {
				return err
			}
			if report != nil {
				report.CodeMaps = append(report.CodeMaps, codeMap)
			}
		}
	}
	return nil
}

// EncodeColumn replaces c's cells with codes 0..k-1 assigned in sorted order of
// the k distinct values: byte order for text, ascending order for numbers.
// c becomes an integral numeric column.
func EncodeColumn(c *Column) (domain.CategoryCodeMap, error) {
	if c.MissingCount() > 0 {
		return domain.CategoryCodeMap{}, apperrors.NewFormatError(
			fmt.Sprintf("column %q has missing values and cannot be encoded", c.Name), nil).
			WithContext("column", c.Name)
	}

	codeMap := domain.CategoryCodeMap{Column: c.Name}
	codes := make([]float64, c.Len())

	if c.Kind == KindCategorical {
		distinct := distinctStrings(c.Strings)
		lookup := make(map[string]int, len(distinct))
		for i, v := range distinct {
			lookup[v] = i
		}
		for i, v := range c.Strings {
			codes[i] = float64(lookup[v])
		}
		codeMap.Categories = distinct
	} else {
		distinct := distinctNumbers(c.Numbers)
		lookup := make(map[float64]int, len(distinct))
		codeMap.Categories = make([]string, len(distinct))
		for i, v := range distinct {
			lookup[v] = i
			codeMap.Categories[i] = formatNumber(v, c.Integer)
		}
		for i, v := range c.Numbers {
			codes[i] = float64(lookup[v])
		}
	}

	c.Kind = KindNumeric
	c.Integer = true
	c.Numbers = codes
	c.Strings = nil
	return codeMap, nil
}

func distinctStrings(values []string) []string {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func distinctNumbers(values []float64) []float64 {
	set := make(map[float64]struct{}, len(values))
	for _, v := range values {
		if v == 0 {
			v = 0
		}
		set[v] = struct{}{}
	}
	out := make([]float64, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}
