package metadata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microtab/core"
)

const sampleLayout = `# system record
VERSION # 1 4 string
NAME H 1 12 string
SERIAL H 13 8 integer
PERNUM P 1 4 integer
AGE P 5 3 integer
`

func TestParseLayoutGroupsByRecordType(t *testing.T) {
	layout, err := ParseLayout(strings.NewReader(sampleLayout), "test.layout.txt")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"#", "H", "P"}, layout.RecordTypes())

	h := layout.ForRecordType("H")
	require.NotNil(t, h)
	assert.Len(t, h.Vars, 2)

	p := layout.ForRecordType("P")
	require.NotNil(t, p)
	names := []string{p.Vars[0].Name, p.Vars[1].Name}
	assert.ElementsMatch(t, []string{"AGE", "PERNUM"}, names)
}

func TestParseLayoutSortedByStart(t *testing.T) {
	layout, err := ParseLayout(strings.NewReader(sampleLayout), "test.layout.txt")
	require.NoError(t, err)

	h := layout.ForRecordType("H").SortedByStart()
	require.Len(t, h, 2)
	assert.Equal(t, "NAME", h[0].Name)
	assert.Equal(t, "SERIAL", h[1].Name)
}

func TestParseLayoutRejectsShortLines(t *testing.T) {
	_, err := ParseLayout(strings.NewReader("NAME H 1 12\n"), "bad.layout.txt")
	require.Error(t, err)
	var mdErr *core.MdError
	require.ErrorAs(t, err, &mdErr)
	assert.Equal(t, core.ParseError, mdErr.Kind)
}

func TestParseLayoutRejectsEmpty(t *testing.T) {
	_, err := ParseLayout(strings.NewReader("# just a comment\n"), "empty.layout.txt")
	require.Error(t, err)
}
