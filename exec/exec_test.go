package exec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microtab/core"
	"microtab/querygen"
)

func TestExecutorRunMaterializesTypedTable(t *testing.T) {
	ctx := context.Background()
	ex, err := NewExecutor(ctx, Options{})
	require.NoError(t, err)
	defer ex.Close()

	stmt := querygen.Statement{
		Sample: "us2019a",
		SQL: `SELECT * FROM (VALUES
			(3, 1.5, 1),
			(2, 2.5, 2)
		) AS t(ct, weighted_ct, marst)`,
		Columns: []querygen.ColumnMeta{
			{Name: "ct", DataType: core.DataTypeInteger},
			{Name: "weighted_ct", DataType: core.DataTypeFloat},
			{Name: "marst", DataType: core.DataTypeInteger},
		},
	}

	table, err := ex.Run(ctx, stmt)
	require.NoError(t, err)
	assert.Equal(t, "us2019a", table.Sample)
	require.Equal(t, 2, table.Count())

	require.Equal(t, 0, table.ColumnIndex("ct"))
	require.Equal(t, 2, table.ColumnIndex("marst"))
	assert.Equal(t, -1, table.ColumnIndex("nope"))

	assert.Equal(t, core.IntegerValue(3), table.Rows[0][0])
	assert.Equal(t, core.DataTypeFloat, table.Rows[0][1].Type)
	assert.Equal(t, core.IntegerValue(1), table.Rows[0][2])
}

func TestExecutorRunQueryErrorWraps(t *testing.T) {
	ctx := context.Background()
	ex, err := NewExecutor(ctx, Options{})
	require.NoError(t, err)
	defer ex.Close()

	_, err = ex.Run(ctx, querygen.Statement{Sample: "us2019a", SQL: "SELECT * FROM nonexistent_table"})
	require.Error(t, err)
	var mdErr *core.MdError
	require.ErrorAs(t, err, &mdErr)
	assert.Equal(t, core.QueryError, mdErr.Kind)
}

func TestExecutorRunAllPreservesOrder(t *testing.T) {
	ctx := context.Background()
	ex, err := NewExecutor(ctx, Options{})
	require.NoError(t, err)
	defer ex.Close()

	stmts := []querygen.Statement{
		{Sample: "a", SQL: "SELECT 1 AS ct", Columns: []querygen.ColumnMeta{{Name: "ct", DataType: core.DataTypeInteger}}},
		{Sample: "b", SQL: "SELECT 2 AS ct", Columns: []querygen.ColumnMeta{{Name: "ct", DataType: core.DataTypeInteger}}},
	}
	tables, err := ex.RunAll(ctx, stmts)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "a", tables[0].Sample)
	assert.Equal(t, "b", tables[1].Sample)
}

func TestExecutorCloseWithoutConnectIsSafe(t *testing.T) {
	ex := &Executor{}
	assert.NoError(t, ex.Close())
}
