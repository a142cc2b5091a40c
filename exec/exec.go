// Package exec runs compiled tabulation statements against an in-process
// analytical engine and materializes their results as typed tables
// (spec.md §5, §9 "Engine coupling").
package exec

import (
	"context"
	"database/sql"
	"strconv"

	_ "github.com/duckdb/duckdb-go/v2"

	"microtab/core"
	"microtab/querygen"
)

// Options configures an Executor. DSN is passed to DuckDB's driver verbatim;
// an empty DSN opens an in-memory database, which is the normal mode for
// tabulation (spec.md §5 "no persistent state").
type Options struct {
	DSN string
}

// Executor owns a transient DuckDB connection opened for the lifetime of one
// request, mirroring the connect/run/close shape the teacher's Applier uses
// for its own database/sql connection.
type Executor struct {
	db *sql.DB
}

// NewExecutor opens a DuckDB connection per options. Callers must Close it.
func NewExecutor(ctx context.Context, options Options) (*Executor, error) {
	dsn := options.DSN
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, core.WrapError(core.QueryError, "", err, "open duckdb connection")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, core.WrapError(core.QueryError, "", err, "ping duckdb connection")
	}
	return &Executor{db: db}, nil
}

// Close releases the underlying connection.
func (e *Executor) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

// Run executes stmt and materializes its rows into a Table, scanning every
// value through scanValue's ASCII-preserving Value conversion rather than
// through Go's binary float64 path (spec.md §9 "Floats as ASCII").
func (e *Executor) Run(ctx context.Context, stmt querygen.Statement) (*Table, error) {
	rows, err := e.db.QueryContext(ctx, stmt.SQL)
	if err != nil {
		return nil, core.WrapError(core.QueryError, stmt.Sample, err, "execute tabulation query")
	}
	defer rows.Close()

	table := &Table{Sample: stmt.Sample, Columns: stmt.Columns}
	dest := make([]any, len(stmt.Columns))
	raw := make([]sql.RawBytes, len(stmt.Columns))
	for i := range dest {
		dest[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, core.WrapError(core.QueryError, stmt.Sample, err, "scan tabulation row")
		}
		record := make([]core.Value, len(stmt.Columns))
		for i, col := range stmt.Columns {
			record[i] = scanValue(col.DataType, raw[i])
		}
		table.Rows = append(table.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return nil, core.WrapError(core.QueryError, stmt.Sample, err, "iterate tabulation rows")
	}
	return table, nil
}

// RunAll executes every statement in order, one Table per sample.
func (e *Executor) RunAll(ctx context.Context, stmts []querygen.Statement) ([]*Table, error) {
	tables := make([]*Table, 0, len(stmts))
	for _, stmt := range stmts {
		table, err := e.Run(ctx, stmt)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// scanValue converts a driver RawBytes into a core.Value without routing
// through float64: a NULL scan (nil raw) becomes the zero core.Value, whose
// Type is empty and whose Text() is "". Generated tabulation queries drop
// rows with a NULL tabulation value before grouping, so out-of-bin values
// never reach this point (spec.md §4.3 "unbinned values... dropped via
// NULL").
func scanValue(dt core.DataType, raw sql.RawBytes) core.Value {
	if raw == nil {
		return core.Value{}
	}
	text := string(raw)
	switch dt {
	case core.DataTypeInteger:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return core.StringValue([]byte(text), true)
		}
		return core.IntegerValue(n)
	case core.DataTypeFloat:
		return core.FloatValue(text)
	default:
		return core.StringValue([]byte(text), true)
	}
}
