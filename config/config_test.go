package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsZeroDefaults(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, &Defaults{}, d)
}

func TestLoadEmptyPathReturnsZeroDefaults(t *testing.T) {
	d, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, &Defaults{}, d)
}

func TestLoadParsesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "data_root = \"/data\"\nproduct = \"usa\"\noutput_format = \"json\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data", d.DataRoot)
	assert.Equal(t, "usa", d.Product)
	assert.Equal(t, "json", d.OutputFormat)
}

func TestLoadInvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
