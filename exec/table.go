package exec

import (
	"microtab/core"
	"microtab/querygen"
)

// Table is the materialized, typed result of one executed Statement: one
// row per distinct output tuple, columns ordered ct, weighted_ct, then each
// tabulation variable in request order (spec.md §4.3 "Output column
// order", §5 "Result materialization").
type Table struct {
	Sample  string
	Columns []querygen.ColumnMeta
	Rows    [][]core.Value
}

// ColumnIndex returns the index of the named output column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Count returns the number of materialized rows.
func (t *Table) Count() int { return len(t.Rows) }
