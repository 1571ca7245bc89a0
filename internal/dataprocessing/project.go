package dataprocessing

import (
	"context"

	"tabprep/pkg/contracts/domain"
)

// Projector drops identifier columns that carry no information for analysis
type Projector struct {
	Drop []string
}

// NewProjector creates a projector dropping the given columns. Empty names are ignored.
func NewProjector(drop ...string) *Projector {
	names := make([]string, 0, len(drop))
	for _, d := range drop {
		if d != "" {
			names = append(names, d)
		}
	}
	return &Projector{Drop: names}
}

func (p *Projector) Name() string { return "project" }

// Apply removes each listed column that is present
func (p *Projector) Apply(_ context.Context, t *Table, report *domain.RunReport) error {
	for _, name := range p.Drop {
		if t.DropColumn(name) && report != nil {
			report.DroppedColumns = append(report.DroppedColumns, name)
		}
	}
	return nil
}
