// Package duckdb is the concrete querygen.Dialect targeting the in-process
// analytical engine exec opens (spec.md §9 "Engine coupling").
package duckdb

import (
	"fmt"
	"strconv"
	"strings"

	"microtab/core"
)

// Dialect renders FROM-clause table references and quoting for DuckDB.
type Dialect struct{}

// New returns the DuckDB dialect, which satisfies querygen.Dialect. It
// returns the concrete type so this package need not import querygen,
// whose own tests import this package.
func New() Dialect { return Dialect{} }

// Name implements querygen.Dialect.
func (Dialect) Name() string { return "duckdb" }

// QuoteIdentifier double-quotes an identifier, doubling any embedded quote.
func (Dialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral renders a core.Value as a DuckDB literal, preserving Float's
// ASCII decimal text verbatim rather than reformatting through float64
// (spec.md §9 "Floats as ASCII").
func (Dialect) QuoteLiteral(v core.Value) string {
	switch v.Type {
	case core.DataTypeInteger:
		return strconv.FormatInt(v.Integer, 10)
	case core.DataTypeFloat:
		return v.Float
	default:
		return "'" + strings.ReplaceAll(v.Text(), "'", "''") + "'"
	}
}

// TableExpr renders one or more Parquet-shaped paths as a DuckDB relation:
// read_parquet('path') for a single path, or the multi-file read_parquet([...]) form
// when a record type has multiple shards (spec.md §4.3 "files are
// referenced by literal path with a glob when a record type has multiple
// shards").
func (d Dialect) TableExpr(paths []string) string {
	if len(paths) == 1 {
		return "read_parquet(" + d.quotePath(paths[0]) + ")"
	}
	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = d.quotePath(p)
	}
	return fmt.Sprintf("read_parquet([%s])", strings.Join(quoted, ", "))
}

func (Dialect) quotePath(p string) string {
	return "'" + strings.ReplaceAll(p, "'", "''") + "'"
}
