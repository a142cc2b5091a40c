package tabulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microtab/request"
)

func TestTabulateRejectsRequestWithNoSamples(t *testing.T) {
	ctx, err := NewContext(t.TempDir())
	require.NoError(t, err)
	defer ctx.Close()

	req := &request.Request{Product: "usa", OutputFormat: "text"}
	_, bindErr := ctx.loadCollection(req, ctx.DataRoot)
	require.Error(t, bindErr)
	assert.Contains(t, bindErr.Error(), "zero samples")
}

func TestTabulateUnknownSampleFails(t *testing.T) {
	ctx, err := NewContext(t.TempDir())
	require.NoError(t, err)
	defer ctx.Close()

	req := request.SimpleRequest("usa", "", "us9999z", []string{"MARST"}, "text")
	_, loadErr := ctx.loadCollection(req, ctx.DataRoot)
	require.Error(t, loadErr)
}
