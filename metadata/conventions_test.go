package metadata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConventionsKnownProduct(t *testing.T) {
	coll, ok := DefaultConventions("usa")
	require.True(t, ok)
	assert.Equal(t, "H", coll.Hierarchy.Root())

	p, ok := coll.LookupRecordType("P")
	require.True(t, ok)
	assert.True(t, p.HasWeight())
	assert.Equal(t, "PERWT", p.WeightName)
}

func TestDefaultConventionsUnknownProduct(t *testing.T) {
	_, ok := DefaultConventions("time_use")
	assert.False(t, ok)
}

const conventionsTOML = `
name = "Time Use Survey"
root = "H"

[[record]]
code = "H"
name = "Household"
unique_id = "SERIAL"
weight_name = "HWT"

[[record]]
code = "P"
name = "Person"
unique_id = "PERNUM"
parent = "H"
parent_column = "SERIAL"
weight_name = "PERWT"

[[record]]
code = "A"
name = "Activity"
unique_id = "ACTNUM"
parent = "P"
parent_column = "PERNUM"
`

func TestLoadConventionsBuildsMultiLevelHierarchy(t *testing.T) {
	coll, err := LoadConventions(strings.NewReader(conventionsTOML), "time_use.toml")
	require.NoError(t, err)
	assert.Equal(t, "H", coll.Hierarchy.Root())

	chain, ok := coll.Hierarchy.CommonAncestorChain("A", "H")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "P", "H"}, chain)

	a, ok := coll.LookupRecordType("A")
	require.True(t, ok)
	require.Len(t, a.ForeignKeys, 1)
	assert.Equal(t, "P", a.ForeignKeys[0].ParentCode)
}

func TestLoadConventionsRejectsUnreachableParent(t *testing.T) {
	bad := `
name = "Bad"
root = "H"

[[record]]
code = "H"
name = "Household"

[[record]]
code = "X"
name = "Orphan"
parent = "Z"
`
	_, err := LoadConventions(strings.NewReader(bad), "bad.toml")
	assert.Error(t, err)
}
