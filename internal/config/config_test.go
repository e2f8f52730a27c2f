package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	prev := AppFs
	AppFs = fs
	t.Cleanup(func() { AppFs = prev })
	return fs
}

// localConfig returns the absolute path viper searches for the config
// file of the working directory.
func localConfig(t *testing.T) string {
	t.Helper()
	path, err := filepath.Abs(FileName + ".yaml")
	require.NoError(t, err)
	return path
}

func TestLoadDefaults(t *testing.T) {
	useMemFs(t)
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, localConfig(t), []byte(
		"schema_path: shop.rowmap\nprovider: sqlite\nformat: json\n"), 0o644))
	t.Setenv("ROWMAP_FORMAT", "yaml")
	t.Setenv("ROWMAP_DEBUG", "true")
	t.Setenv("DATABASE_URL", "shop.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "shop.rowmap", cfg.SchemaPath)
	assert.Equal(t, "sqlite", cfg.Provider)
	assert.Equal(t, "yaml", cfg.Format)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "shop.db", cfg.DatabaseURL)
}

func TestLoadEnvFiles(t *testing.T) {
	fs := useMemFs(t)
	t.Setenv("ROWMAP_PROVIDER", "")
	t.Setenv("ROWMAP_DATABASE_URL", "")
	require.NoError(t, afero.WriteFile(fs, ".env", []byte("ROWMAP_PROVIDER=postgres\nROWMAP_DATABASE_URL=postgres://a/b\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, ".env.local", []byte("ROWMAP_DATABASE_URL=postgres://local/b\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://local/b", cfg.DatabaseURL)
}

func TestLoadMalformedFile(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, localConfig(t), []byte("format: [table\n"), 0o644))

	_, err := Load()
	assert.ErrorContains(t, err, "failed to read config")
}

func TestSave(t *testing.T) {
	fs := useMemFs(t)
	cfg := &Config{SchemaPath: "shop.rowmap", Provider: "mysql", Format: "table"}
	require.NoError(t, Save(cfg, "conf/.rowmap.yaml"))

	data, err := afero.ReadFile(fs, "conf/.rowmap.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "provider: mysql")
	assert.Contains(t, string(data), "schema_path: shop.rowmap")

	path, err := UserPath()
	require.NoError(t, err)
	assert.Contains(t, path, ".rowmap.yaml")
}
