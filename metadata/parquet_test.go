package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microtab/core"
)

const variablesJSON = `{
  "AGE": {
    "label": "Age",
    "data_type": "integer",
    "column_start": 1,
    "column_width": 3,
    "record_type": "P",
    "categories": {"999": "Missing"}
  },
  "SEX": {
    "label": "Sex",
    "data_type": "integer",
    "column_start": 4,
    "column_width": 1,
    "record_type": "P",
    "categories": {"1": "Male", "2": "Female", "9": "NIU"}
  }
}`

func TestParseVariableMetadata(t *testing.T) {
	vars, err := ParseVariableMetadata(variablesJSON, "P", nil)
	require.NoError(t, err)
	require.Len(t, vars, 2)

	byName := map[string]*core.Variable{}
	for _, v := range vars {
		byName[v.Name] = v
	}

	age := byName["AGE"]
	require.NotNil(t, age)
	assert.Equal(t, core.DataTypeInteger, age.DataType)
	assert.Equal(t, "P", age.RecordType)
	require.NotNil(t, age.Formatting)
	assert.Equal(t, 1, age.Formatting.Start)
	assert.Equal(t, 3, age.Formatting.Width)
	cat, ok := age.CategoryFor("999")
	require.True(t, ok)
	assert.Equal(t, core.SemanticMissing, cat.Semantic)

	sex := byName["SEX"]
	require.NotNil(t, sex)
	niu, ok := sex.CategoryFor("9")
	require.True(t, ok)
	assert.Equal(t, core.SemanticNotInUniverse, niu.Semantic)
}

func TestParseVariableMetadataSkipsInvalidEntries(t *testing.T) {
	mixed := `{"AGE": {"label": "Age", "data_type": "integer"}, "BAD": "not an object"}`
	vars, err := ParseVariableMetadata(mixed, "P", func(string) {})
	require.NoError(t, err)
	assert.Len(t, vars, 1)
	assert.Equal(t, "AGE", vars[0].Name)
}

func TestParseVariableMetadataFailsWhenAllInvalid(t *testing.T) {
	_, err := ParseVariableMetadata(`{"BAD": "not an object"}`, "P", func(string) {})
	assert.Error(t, err)
}

func TestParseSampleMetadata(t *testing.T) {
	samples, err := ParseSampleMetadata(`{"us2019a": {"label": "2019 ACS", "year": 2019, "density": 0.01}}`)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "us2019a", samples[0].Name)
	require.NotNil(t, samples[0].Year)
	assert.Equal(t, 2019, *samples[0].Year)
	require.NotNil(t, samples[0].SamplingDensity)
	assert.InDelta(t, 0.01, *samples[0].SamplingDensity, 1e-9)
}
