package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	for _, key := range []string{EnvAPIKey, EnvAPIURL, EnvViewerURL, EnvRecentStore, EnvRecentDB, EnvRedisURL, EnvHTTPTimeout} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultViewerURL, cfg.ViewerURL)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.Equal(t, "sqlite", cfg.RecentStore.Type)
	assert.Equal(t, filepath.Join(dir, DefaultRecentDBFile), cfg.RecentStore.Path)
	assert.Equal(t, DefaultKeyPrefix, cfg.RecentStore.KeyPrefix)
	assert.Equal(t, DefaultInitialChunk, cfg.Analysis.InitialChunkSize)
	assert.Empty(t, cfg.APIKey)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := isolate(t)
	content := `
api_key: file-key
api_url: https://staging.example.com
http_timeout: 45s
recent_store:
  type: redis
  redis_url: redis://localhost:6379/0
analysis:
  initial_chunk_size: 600
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(content), 0o600))
	t.Setenv(EnvAPIKey, "env-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "https://staging.example.com", cfg.APIURL)
	assert.Equal(t, DefaultViewerURL, cfg.ViewerURL)
	assert.Equal(t, 45*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "redis", cfg.RecentStore.Type)
	assert.Equal(t, DefaultKeyPrefix, cfg.RecentStore.KeyPrefix)
	assert.Equal(t, 600, cfg.Analysis.InitialChunkSize)
}

func TestLoad_EnvTimeoutSeconds(t *testing.T) {
	isolate(t)
	t.Setenv(EnvHTTPTimeout, "10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "bad yaml", file: "api_url: [unclosed"},
		{name: "bad timeout in file", file: "http_timeout: soon"},
		{name: "bad timeout in env", env: map[string]string{EnvHTTPTimeout: "soon"}},
		{name: "unknown store", env: map[string]string{EnvRecentStore: "etcd"}},
		{name: "redis without url", env: map[string]string{EnvRecentStore: "redis"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			if tt.file != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(tt.file), 0o600))
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundtrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "sub", DefaultConfigFile)

	cfg := Default()
	cfg.APIURL = "https://other.example.com"
	cfg.HTTPTimeout = time.Minute
	require.NoError(t, Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://other.example.com", loaded.APIURL)
	assert.Equal(t, time.Minute, loaded.HTTPTimeout)
}
