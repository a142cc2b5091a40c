// Package querygen compiles a bound tabulation request into one analytical
// SQL statement per requested sample (spec.md §4.3).
package querygen

import (
	"microtab/core"
	"microtab/request"
)

// ColumnMeta describes one output column of a generated statement, so the
// executor can materialize a typed table without reparsing SQL (spec.md
// §4.3 "Output column order").
type ColumnMeta struct {
	Name     string
	Width    int
	DataType core.DataType
}

// Statement is one generated SQL SELECT plus the metadata describing its
// output columns, for a single sample.
type Statement struct {
	Sample  string
	SQL     string
	Columns []ColumnMeta
}

// FileResolver resolves a record type to the on-disk glob path(s) holding
// its rows for a given sample — the interface boundary onto the layout
// reader and columnar-file metadata extractor, which spec.md §1 keeps
// "in scope only at the interface level" for this package.
type FileResolver interface {
	Resolve(sample string, rt *core.RecordType) ([]string, error)
}

// Dialect targets a concrete analytical SQL engine's FROM-clause and
// quoting syntax (spec.md §9 "Engine coupling"); join and expression
// synthesis are engine-agnostic and live in Generator.
type Dialect interface {
	Name() string
	QuoteIdentifier(name string) string
	QuoteLiteral(v core.Value) string
	TableExpr(paths []string) string
}

// Generator compiles a BoundRequest into one Statement per sample.
type Generator interface {
	TabulationQueries(bound *request.BoundRequest, files FileResolver) ([]Statement, error)
}
