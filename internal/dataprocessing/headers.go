package dataprocessing

import (
	"context"
	"strings"

	"tabprep/pkg/contracts/domain"
)

var headerReplacer = strings.NewReplacer(" ", "_", "-", "_")

// NormalizeHeader trims, lowercases and replaces spaces and hyphens with underscores
func NormalizeHeader(name string) string {
	return headerReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// HeaderNormalizer renames every column with NormalizeHeader
type HeaderNormalizer struct{}

func (HeaderNormalizer) Name() string { return "normalize_headers" }

// Apply renames columns in place. Two headers that normalize to the same name are a FormatError.
func (HeaderNormalizer) Apply(_ context.Context, t *Table, _ *domain.RunReport) error {
	names := t.Names()
	for i, n := range names {
		names[i] = NormalizeHeader(n)
	}
	return t.Rename(names)
}
