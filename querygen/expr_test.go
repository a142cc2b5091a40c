package querygen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microtab/core"
	"microtab/querygen/duckdb"
	"microtab/request"
)

func marstVariable() *core.Variable {
	return &core.Variable{
		Name:       "MARST",
		DataType:   core.DataTypeInteger,
		RecordType: "P",
		Formatting: &core.Width{Start: 1, Width: 1},
	}
}

func relateVariable() *core.Variable {
	return &core.Variable{
		Name:         "RELATE",
		DataType:     core.DataTypeInteger,
		RecordType:   "P",
		Formatting:   &core.Width{Start: 1, Width: 4},
		GeneralWidth: 1,
	}
}

func TestProjectVariablePlainColumn(t *testing.T) {
	d := duckdb.New()
	bv := request.BoundVariable{Request: request.RequestVariable{}, Variable: marstVariable()}
	expr, err := projectVariable(d, bv)
	require.NoError(t, err)
	assert.Equal(t, `"P"."MARST"`, expr)
}

func TestProjectVariableGeneralTruncation(t *testing.T) {
	d := duckdb.New()
	bv := request.BoundVariable{
		Request:  request.RequestVariable{GeneralDetailedSelection: request.General},
		Variable: relateVariable(),
	}
	expr, err := projectVariable(d, bv)
	require.NoError(t, err)
	assert.Equal(t, `("P"."RELATE" // 1000)`, expr)
}

func TestProjectVariableBinCaseExpr(t *testing.T) {
	d := duckdb.New()
	bv := request.BoundVariable{
		Variable: marstVariable(),
		Bins: []request.CategoryBin{
			{Kind: request.BinRange, Low: 1, High: 2, Code: 1},
			{Kind: request.BinMoreThan, Low: 2, Code: 2},
		},
	}
	expr, err := projectVariable(d, bv)
	require.NoError(t, err)
	assert.Equal(t, `CASE WHEN "P"."MARST" BETWEEN 1 AND 2 THEN 1 WHEN "P"."MARST" > 2 THEN 2 ELSE NULL END`, expr)
}

func TestSubpopulationPredicateAndsAcrossVariables(t *testing.T) {
	d := duckdb.New()
	sex := &core.Variable{Name: "SEX", DataType: core.DataTypeInteger, RecordType: "P", Formatting: &core.Width{Width: 1}}
	ownershp := &core.Variable{Name: "OWNERSHP", DataType: core.DataTypeInteger, RecordType: "H", Formatting: &core.Width{Width: 1}}

	vars := []request.BoundVariable{
		{
			Variable: sex,
			Request: request.RequestVariable{
				RequestCaseSelections: []request.RequestCaseSelection{mustCaseSelection(t, 2, 2)},
			},
		},
		{
			Variable: ownershp,
			Request: request.RequestVariable{
				RequestCaseSelections: []request.RequestCaseSelection{mustCaseSelection(t, 1, 1)},
			},
		},
	}
	where, err := subpopulationPredicate(d, vars)
	require.NoError(t, err)
	assert.Equal(t, `("P"."SEX" BETWEEN 2 AND 2) AND ("H"."OWNERSHP" BETWEEN 1 AND 1)`, where)
}

func mustCaseSelection(t *testing.T, low, high uint64) request.RequestCaseSelection {
	t.Helper()
	cs, err := request.NewRequestCaseSelection(&low, &high)
	require.NoError(t, err)
	return cs
}
