package dataprocessing

import (
	"context"
	"math"
	"strconv"
	"strings"

	"tabprep/pkg/contracts/domain"
)

// Deduplicator removes rows that exactly repeat an earlier row
type Deduplicator struct{}

func (Deduplicator) Name() string { return "deduplicate" }

// Apply keeps the first occurrence of every distinct row, preserving order
func (Deduplicator) Apply(_ context.Context, t *Table, report *domain.RunReport) error {
	n := t.Len()
	seen := make(map[string]struct{}, n)
	keep := make([]bool, n)
	removed := 0

	var b strings.Builder
	for i := 0; i < n; i++ {
		b.Reset()
		for _, c := range t.Columns() {
			writeCellKey(&b, c, i)
		}
		key := b.String()
		if _, dup := seen[key]; dup {
			removed++
			continue
		}
		seen[key] = struct{}{}
		keep[i] = true
	}

	if removed > 0 {
		t.KeepRows(keep)
	}
	if report != nil {
		report.DuplicatesRemoved += removed
	}
	return nil
}

// writeCellKey appends an unambiguous encoding of one cell to b
func writeCellKey(b *strings.Builder, c *Column, i int) {
	switch {
	case c.Missing[i]:
		b.WriteString("m;")
	case c.Kind == KindNumeric:
		v := c.Numbers[i]
		if v == 0 {
			v = 0 // -0 equals 0
		}
		b.WriteByte('n')
		b.WriteString(strconv.FormatUint(math.Float64bits(v), 16))
		b.WriteByte(';')
	default:
		s := c.Strings[i]
		b.WriteByte('s')
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
}
