package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emirks/yokatlas-bridge/internal/config"
)

func TestConfigInitWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	isolate(t)

	out, err := runCLI(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, config.DefaultFileName)

	data, err := os.ReadFile(filepath.Join(dir, config.DefaultFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "data_dir")

	// Second init without --force refuses to overwrite.
	_, err = runCLI(t, "config", "init")
	require.Error(t, err)

	_, err = runCLI(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigShowMergesEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	dataDir := isolate(t)

	out, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, dataDir)
	assert.Contains(t, out, "default_max_results: 100")
}
