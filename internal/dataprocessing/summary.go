package dataprocessing

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"tabprep/pkg/contracts/domain"
)

// RenderSummary writes a human-readable account of a run to w: row counts,
// the imputation fill values, the category codes of every encoded column and
// per-stage timings.
func RenderSummary(w io.Writer, r *domain.RunReport) error {
	var b strings.Builder

	b.WriteString(renderTable("Run "+r.RunID,
		table.Row{"Metric", "Value"},
		[]table.Row{
			{"Input", r.InputPath},
			{"Output", r.OutputPath},
			{"Rows read", r.InputRows},
			{"Rows written", r.OutputRows},
			{"Duplicates removed", r.DuplicatesRemoved},
			{"Columns written", len(r.OutputColumns)},
			{"Derived", strings.Join(r.DerivedColumns, ", ")},
			{"Dropped", strings.Join(r.DroppedColumns, ", ")},
			{"Duration", r.Duration().String()},
		}))

	if len(r.Imputations) > 0 {
		rows := make([]table.Row, 0, len(r.Imputations))
		for _, imp := range r.Imputations {
			rows = append(rows, table.Row{imp.Column, string(imp.Strategy), imp.Value, imp.Filled})
		}
		b.WriteString("\n")
		b.WriteString(renderTable("Imputation", table.Row{"Column", "Strategy", "Fill value", "Cells filled"}, rows))
	}

	if len(r.CodeMaps) > 0 {
		var rows []table.Row
		for _, m := range r.CodeMaps {
			for code, category := range m.Categories {
				rows = append(rows, table.Row{m.Column, category, code})
			}
		}
		b.WriteString("\n")
		b.WriteString(renderTable("Category codes", table.Row{"Column", "Category", "Code"}, rows))
	}

	if len(r.Stages) > 0 {
		rows := make([]table.Row, 0, len(r.Stages))
		for _, s := range r.Stages {
			rows = append(rows, table.Row{s.Stage, s.Duration.String()})
		}
		b.WriteString("\n")
		b.WriteString(renderTable("Stages", table.Row{"Stage", "Duration"}, rows))
	}

	b.WriteString("\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func renderTable(title string, header table.Row, rows []table.Row) string {
	t := table.NewWriter()
	t.SetTitle(title)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	return t.Render() + "\n"
}
