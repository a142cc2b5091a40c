package output

import (
	"strings"

	"microtab/core"
	"microtab/exec"
)

type textFormatter struct{}

// Format renders each table as a right-aligned fixed-width grid: a header
// row of column names, a dashed separator rule spanning the total table
// width, then one row per tuple, columns padded to the maximum of the
// declared variable width and the header length
// (original_source/src/tabulate.rs::format_as_text, spec.md §4.5 "Text
// output").
func (textFormatter) Format(tables []*exec.Table) (string, error) {
	var sb strings.Builder
	for i, table := range tables {
		if i > 0 {
			sb.WriteString("\n")
		}
		if table.Sample != "" {
			sb.WriteString(table.Sample)
			sb.WriteString("\n")
		}
		widths := columnWidths(table)
		writeRow(&sb, headerCells(table), widths)
		sb.WriteString(strings.Repeat("-", ruleWidth(widths)))
		sb.WriteString("\n")
		for _, row := range table.Rows {
			writeRow(&sb, valueCells(row), widths)
		}
	}
	return sb.String(), nil
}

// ruleWidth computes the total width of a row: each column's width plus the
// two-space gap between columns.
func ruleWidth(widths []int) int {
	total := 0
	for i, w := range widths {
		if i > 0 {
			total += 2
		}
		total += w
	}
	return total
}

func headerCells(table *exec.Table) []string {
	cells := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		cells[i] = c.Name
	}
	return cells
}

func valueCells(row []core.Value) []string {
	cells := make([]string, len(row))
	for i, v := range row {
		cells[i] = v.Text()
	}
	return cells
}

// columnWidths is the maximum of the declared variable width
// (querygen.ColumnMeta.Width) and the header length — not the widest value
// actually observed in the materialized rows.
func columnWidths(table *exec.Table) []int {
	widths := make([]int, len(table.Columns))
	for i, c := range table.Columns {
		widths[i] = len(c.Name)
		if c.Width > widths[i] {
			widths[i] = c.Width
		}
	}
	return widths
}

func writeRow(sb *strings.Builder, cells []string, widths []int) {
	for i, cell := range cells {
		if i > 0 {
			sb.WriteString("  ")
		}
		if pad := widths[i] - len(cell); pad > 0 {
			sb.WriteString(strings.Repeat(" ", pad))
		}
		sb.WriteString(cell)
	}
	sb.WriteString("\n")
}
