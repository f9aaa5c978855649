package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := writeConfig(t, `
jwt:
  secret: dev-secret
storage:
  local_path: `+filepath.Join(t.TempDir(), "uploads")+`
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 72*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 100, cfg.Ingestion.Limit)
	assert.Equal(t, time.Hour, cfg.Ingestion.Window())
	assert.Equal(t, "memory", cfg.Ingestion.Store)
	assert.Equal(t, "javascript", cfg.Executor.Language)
	assert.Equal(t, 3000, cfg.Executor.RunTimeoutMs)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.Path)
	assert.DirExists(t, cfg.Storage.LocalPath)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9000"
storage:
  local_path: `+filepath.Join(t.TempDir(), "uploads")+`
`)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("EXECUTOR_URL", "http://piston.local/api/v2/execute")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "http://piston.local/api/v2/execute", cfg.Executor.URL)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "minio")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, 100, cfg.Ingestion.Limit)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Mode: "debug"},
			Database:  DatabaseConfig{Driver: "mysql"},
			Ingestion: IngestionConfig{Limit: 100, WindowMinutes: 60, Store: "memory"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"postgres", func(c *Config) { c.Database.Driver = "postgres" }, ""},
		{"short secret in release", func(c *Config) { c.Server.Mode = "release"; c.JWT.Secret = "short" }, "JWT secret is too short"},
		{"zero limit", func(c *Config) { c.Ingestion.Limit = 0 }, "must be positive"},
		{"zero window", func(c *Config) { c.Ingestion.WindowMinutes = 0 }, "must be positive"},
		{"unknown store", func(c *Config) { c.Ingestion.Store = "etcd" }, "unknown ingestion store"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, "unknown database driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
