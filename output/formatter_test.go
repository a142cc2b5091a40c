package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microtab/core"
	"microtab/exec"
	"microtab/querygen"
)

func sampleTable() *exec.Table {
	return &exec.Table{
		Sample: "us2019a",
		Columns: []querygen.ColumnMeta{
			{Name: "ct", DataType: core.DataTypeInteger, Width: 3},
			{Name: "weighted_ct", DataType: core.DataTypeFloat, Width: 11},
			{Name: "MARST", DataType: core.DataTypeInteger, Width: 1},
		},
		Rows: [][]core.Value{
			{core.IntegerValue(100), core.FloatValue("123.50"), core.IntegerValue(1)},
			{core.IntegerValue(42), core.FloatValue("9.00"), core.IntegerValue(2)},
		},
	}
}

func TestNewFormatterDefaultsToText(t *testing.T) {
	f, err := NewFormatter("")
	require.NoError(t, err)
	assert.IsType(t, textFormatter{}, f)
}

func TestNewFormatterHTMLNotImplemented(t *testing.T) {
	_, err := NewFormatter("html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not implemented")
}

func TestNewFormatterUnsupported(t *testing.T) {
	_, err := NewFormatter("xml")
	require.Error(t, err)
}

func TestTextFormatterAlignsColumns(t *testing.T) {
	f, _ := NewFormatter("text")
	out, err := f.Format([]*exec.Table{sampleTable()})
	require.NoError(t, err)
	assert.Contains(t, out, "us2019a")
	assert.Contains(t, out, " ct  weighted_ct  MARST")
	assert.Contains(t, out, strings.Repeat("-", 23))
	assert.Contains(t, out, "100       123.50      1")
}

func TestTextFormatterUsesDeclaredWidthNotDataWidth(t *testing.T) {
	table := &exec.Table{
		Columns: []querygen.ColumnMeta{
			{Name: "AGE", DataType: core.DataTypeInteger, Width: 3},
		},
		Rows: [][]core.Value{{core.IntegerValue(7)}},
	}
	f, _ := NewFormatter("text")
	out, err := f.Format([]*exec.Table{table})
	require.NoError(t, err)
	assert.Contains(t, out, "AGE\n")
	assert.Contains(t, out, strings.Repeat("-", 3))
	assert.Contains(t, out, "  7\n")
}

func TestJSONFormatterProducesRowObjects(t *testing.T) {
	f, _ := NewFormatter("json")
	out, err := f.Format([]*exec.Table{sampleTable()})
	require.NoError(t, err)
	assert.Contains(t, out, `"sample": "us2019a"`)
	assert.Contains(t, out, `"MARST": "1"`)
	assert.Contains(t, out, `"weighted_ct": "123.50"`)
}

func TestCSVFormatterWritesHeaderAndRows(t *testing.T) {
	f, _ := NewFormatter("csv")
	out, err := f.Format([]*exec.Table{sampleTable()})
	require.NoError(t, err)
	assert.Equal(t, "ct,weighted_ct,MARST\n100,123.50,1\n42,9.00,2\n", out)
}
