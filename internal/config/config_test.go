package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(dataDir, "nope.yaml"), dataDir)
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.Remote.BaseURL)
	assert.Equal(t, 10, cfg.Remote.Limit)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, BackendFile, cfg.Cache.Backend)
	assert.Equal(t, filepath.Join(dataDir, "todos.json"), cfg.Cache.Path)
	assert.Equal(t, IDPolicyClient, cfg.IDs)
	assert.Equal(t, 3*time.Second, cfg.TUI.BannerTTL)
	assert.Equal(t, dataDir, cfg.DataDir)
}

func TestLoad_OverridesFromYAML(t *testing.T) {
	p := writeConfig(t, `
remote:
  base_url: http://localhost:9999/todos
  timeout: 2s
  limit: 5
cache:
  backend: sqlite
ids: server
tui:
  theme: neon
  banner_ttl: 1s
`)
	dataDir := t.TempDir()

	cfg, err := Load(p, dataDir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/todos", cfg.Remote.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 5, cfg.Remote.Limit)
	assert.Equal(t, BackendSQLite, cfg.Cache.Backend)
	assert.Equal(t, filepath.Join(dataDir, "todos.db"), cfg.Cache.Path)
	assert.Equal(t, IDPolicyServer, cfg.IDs)
	assert.Equal(t, "neon", cfg.TUI.Theme)
	assert.Equal(t, time.Second, cfg.TUI.BannerTTL)
	assert.Equal(t, 300*time.Millisecond, cfg.TUI.FadeDelay)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "backend", body: "cache:\n  backend: redis\n"},
		{name: "ids", body: "ids: random\n"},
		{name: "theme", body: "tui:\n  theme: pink\n"},
		{name: "limit", body: "remote:\n  limit: -1\n"},
		{name: "yaml", body: "remote: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), t.TempDir())
			assert.Error(t, err)
		})
	}
}

func TestValidate_RequiresDataDir(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.Validate())
}

func TestDefaultPaths_FollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")

	assert.Equal(t, "/tmp/cfg/todo/config.yaml", DefaultConfigPath())
	assert.Equal(t, "/tmp/data/todo", DefaultDataDir())
}
