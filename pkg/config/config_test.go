package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/recolor/pkg/config"
	"github.com/aretw0/recolor/pkg/domain"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, domain.DefaultNodeLimit, cfg.NodeLimit)
	assert.Equal(t, 8, cfg.ImportConcurrency)
	assert.Equal(t, domain.DefaultProgressEvery, cfg.ProgressEvery)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "recolor:", cfg.Redis.Prefix)
	assert.Empty(t, cfg.Redis.Addr)

	tables, err := cfg.Tables()
	require.NoError(t, err)
	assert.NotEmpty(t, tables.Styles, "built-in tables")
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tables.yaml"), []byte(`
colors:
  - key: "#000000"
    mappedKey: 8383fb6335a6a6346b8e74636a60e3e891a19e4a
`), 0o644))

	path := filepath.Join(dir, "recolor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
node_limit: 500
log_level: debug
mappings: tables.yaml
redis:
  addr: localhost:6379
  db: 2
`), 0o644))

	cfg, used, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 500, cfg.NodeLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8, cfg.ImportConcurrency, "defaults fill the gaps")
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, filepath.Join(dir, "tables.yaml"), cfg.Mappings)

	tables, err := cfg.Tables()
	require.NoError(t, err)
	require.Len(t, tables.Colors, 1)
	assert.Empty(t, tables.Styles)
}

func TestLoadFromPath_NegativeLimitDisablesCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recolor.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"node_limit": -1}`), 0o644))

	cfg, _, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.NodeLimit)
}

func TestLoad_Env(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("progress_every: 5\n"), 0o644))
	t.Setenv(config.EnvConfigPath, path)

	cfg, used, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 5, cfg.ProgressEvery)
}

func TestLoadFromPath_Errors(t *testing.T) {
	dir := t.TempDir()
	_, _, err := config.LoadFromPath(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("node_limit: [oops"), 0o644))
	_, _, err = config.LoadFromPath(bad)
	assert.ErrorContains(t, err, "parse config")
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := config.Default()
	cfg.NodeLimit = 42
	require.NoError(t, cfg.Save(path))

	loaded, _, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 42, loaded.NodeLimit)
}
