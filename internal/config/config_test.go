package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, 7, cfg.HorizonDays)

	// The default file must have been written with 0600.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoad_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
listen: ":9090"
timezone: America/New_York
refresh: "0 * * * *"
horizon_days: 3
feed:
  menu_url: https://example.edu/dining_json
  specials_url: https://example.edu/snackbar_json
basic_auth:
  username: board
  password: hunter2
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "0 * * * *", cfg.RefreshCron)
	assert.Equal(t, 3, cfg.HorizonDays)
	assert.Equal(t, "https://example.edu/dining_json", cfg.Feed.MenuURL)
	assert.Equal(t, "https://example.edu/snackbar_json", cfg.Feed.SpecialsURL)
	require.NotNil(t, cfg.BasicAuth)
	assert.Equal(t, "board", cfg.BasicAuth.Username)
}

func TestNormalize_FillsZeroValues(t *testing.T) {
	cfg := &Config{HorizonDays: -1}

	cfg.Normalize()

	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, "*/15 * * * *", cfg.RefreshCron)
	assert.Equal(t, 7, cfg.HorizonDays)
	assert.Equal(t, "/var/lib/menuboard", cfg.CacheDir)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Feed.MenuURL = "https://example.edu/dining_json"

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Feed.MenuURL, loaded.Feed.MenuURL)
	assert.Equal(t, cfg.Timezone, loaded.Timezone)
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}
