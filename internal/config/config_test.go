package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, 100, cfg.Search.DefaultMaxResults)
	assert.Equal(t, 200, cfg.Search.SiralamaCap)
	assert.Equal(t, "https://yokatlas.yok.gov.tr", cfg.Provider.BaseURL)
	assert.Equal(t, "debug", cfg.Logs.Level)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Search.DefaultMaxResults)
}

func TestLoad_PartialFile(t *testing.T) {
	dir := t.TempDir()
	content := `
provider:
  data_dir: /opt/yokatlas
search:
  default_max_results: 50
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/opt/yokatlas", cfg.Provider.DataDir)
	assert.Equal(t, 50, cfg.Search.DefaultMaxResults)
	// Unset fields fall back to defaults.
	assert.Equal(t, 200, cfg.Search.SiralamaCap)
	assert.Equal(t, "https://yokatlas.yok.gov.tr", cfg.Provider.BaseURL)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte("provider: ["), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("YOKATLAS_DATA_DIR", "/env/data")
	t.Setenv("YOKATLAS_BASE_URL", "http://localhost:9999")
	t.Setenv("YOKATLAS_LOG_DIR", "/env/logs")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "/env/data", cfg.Provider.DataDir)
	assert.Equal(t, "http://localhost:9999", cfg.Provider.BaseURL)
	assert.Equal(t, "/env/logs", cfg.Logs.Dir)
}

func TestValidate(t *testing.T) {
	cfg := NewConfig()
	cfg.Search.DefaultMaxResults = -1

	assert.Error(t, cfg.Validate())
}
