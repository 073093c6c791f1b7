package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, BackendEmbedded, cfg.Backend)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "./voicedesk.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voicedesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: remote
server:
  addr: ":9090"
remote:
  base_url: "http://db-host:8080"
  timeout: 5s
seed:
  path: ./seed.yaml
  watch: true
log:
  level: debug
`), 0644))

	cfg, loadedPath, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, path, loadedPath)
	assert.Equal(t, BackendRemote, cfg.Backend)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "http://db-host:8080", cfg.Remote.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Remote.Timeout)
	assert.True(t, cfg.Seed.Watch)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset fields still get defaults.
	assert.Equal(t, "./voicedesk.db", cfg.Database.Path)
	require.NoError(t, cfg.Validate())
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voicedesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0644))

	t.Setenv("VOICEDESK_LOG_LEVEL", "warn")
	t.Setenv("VOICEDESK_SERVER_ADDR", ":7070")

	cfg, _, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "postgres"
	require.Error(t, cfg.Validate())
}

func TestSaveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "voicedesk.yaml")

	cfg := DefaultConfig()
	cfg.Backend = BackendRemote
	cfg.Remote.BaseURL = "http://example:8080"
	require.NoError(t, cfg.Save(path))

	loaded, _, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, BackendRemote, loaded.Backend)
	assert.Equal(t, "http://example:8080", loaded.Remote.BaseURL)
}
