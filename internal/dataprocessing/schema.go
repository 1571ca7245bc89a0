package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "tabprep/internal/errors"
)

// missingTokens are the cell values read as "no value"
var missingTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsMissing reports whether a raw cell denotes a missing value
func IsMissing(raw string) bool {
	_, ok := missingTokens[strings.TrimSpace(raw)]
	return ok
}

func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	return v, err == nil
}

func isIntegerToken(raw string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return err == nil
}

// InferSchema classifies every column of raw records. A column is numeric when
// all of its non-missing cells parse as numbers (an all-missing column counts
// as numeric), and integral when additionally no cell is missing and every
// cell is a base-10 integer.
func InferSchema(header []string, rows [][]string) []ColumnMeta {
	metas := make([]ColumnMeta, len(header))
	for j, name := range header {
		meta := ColumnMeta{Name: name, Kind: KindNumeric, Integer: true}
		for _, row := range rows {
			cell := row[j]
			if IsMissing(cell) {
				meta.Missing++
				meta.Integer = false
				continue
			}
			if meta.Kind == KindCategorical {
				continue
			}
			if _, ok := parseNumber(cell); !ok {
				meta.Kind = KindCategorical
				meta.Integer = false
				continue
			}
			if meta.Integer && !isIntegerToken(cell) {
				meta.Integer = false
			}
		}
		if len(rows) == 0 {
			meta.Integer = false
		}
		metas[j] = meta
	}
	return metas
}

// TableFromRecords builds a typed table from a header and raw string records.
// Every record must have exactly len(header) fields.
func TableFromRecords(header []string, rows [][]string) (*Table, error) {
	for i, name := range header {
		if strings.TrimSpace(name) == "" {
			return nil, apperrors.NewFormatError(fmt.Sprintf("header field %d is blank", i+1), nil)
		}
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, apperrors.NewFormatError(
				fmt.Sprintf("row %d has %d fields, header has %d", i+1, len(row), len(header)), nil).
				WithContext("row", i+1)
		}
	}

	metas := InferSchema(header, rows)
	columns := make([]*Column, len(metas))
	for j, meta := range metas {
		columns[j] = buildColumn(meta, j, rows)
	}
	return NewTable(columns...)
}

func buildColumn(meta ColumnMeta, j int, rows [][]string) *Column {
	missing := make([]bool, len(rows))
	if meta.Kind == KindCategorical {
		values := make([]string, len(rows))
		for i, row := range rows {
			if IsMissing(row[j]) {
				missing[i] = true
				continue
			}
			values[i] = row[j]
		}
		return NewCategoricalColumn(meta.Name, values, missing)
	}

	values := make([]float64, len(rows))
	for i, row := range rows {
		if IsMissing(row[j]) {
			missing[i] = true
			continue
		}
		values[i], _ = parseNumber(row[j])
	}
	return NewNumericColumn(meta.Name, values, missing, meta.Integer)
}
