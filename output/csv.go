package output

import (
	"encoding/csv"
	"strings"

	"microtab/exec"
)

type csvFormatter struct{}

// Format renders each table as RFC 4180 CSV via encoding/csv, one table's
// rows following directly after its header with a blank line separating
// tables (spec.md §6 "-f csv").
func (csvFormatter) Format(tables []*exec.Table) (string, error) {
	var sb strings.Builder
	for i, table := range tables {
		if i > 0 {
			sb.WriteString("\n")
		}
		w := csv.NewWriter(&sb)
		if err := w.Write(headerCells(table)); err != nil {
			return "", err
		}
		for _, row := range table.Rows {
			if err := w.Write(valueCells(row)); err != nil {
				return "", err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}
