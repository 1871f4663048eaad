package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON5(t *testing.T) {
	// Comments and trailing commas are accepted
	content := `{
		// snapshot layout
		before_dir: "snapshots/previous",
		"after_dir": "snapshots/current",
		"memory_backend": "sqlite",
		"ioc_flags": true,
		"verbose": true,
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json5")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "snapshots/previous", cfg.BeforeDir)
	assert.Equal(t, "snapshots/current", cfg.AfterDir)
	assert.Equal(t, "sqlite", cfg.MemoryBackend)
	assert.True(t, cfg.IOCFlags)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{ "before_dir": }`), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"missing before dir", func(c *Config) { c.BeforeDir = "" }, "'BeforeDir' failed 'required'"},
		{"unknown backend", func(c *Config) { c.MemoryBackend = "redis" }, "'MemoryBackend' failed 'oneof'"},
		{"postgres without url", func(c *Config) { c.MemoryBackend = "postgres" }, "'DatabaseURL' failed 'required_if'"},
		{"postgres with url", func(c *Config) {
			c.MemoryBackend = "postgres"
			c.DatabaseURL = "postgres://localhost/records"
		}, ""},
		{"bad base url", func(c *Config) { c.BaseURL = "not a url" }, "'BaseURL' failed 'url'"},
		{"same directories", func(c *Config) { c.AfterDir = c.BeforeDir }, "must differ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
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

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{AfterDir: "custom/after", Verbose: true}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "data/data_before", merged.BeforeDir)
	assert.Equal(t, "custom/after", merged.AfterDir)
	assert.Equal(t, "file", merged.MemoryBackend)
	assert.Equal(t, "log/log.log", merged.LogPath)
	assert.Equal(t, "0 6 * * *", merged.Schedule)
	assert.True(t, merged.Verbose)
	assert.Empty(t, cfg.BeforeDir, "receiver must not be modified")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/records")

	cfg := Defaults()
	cfg.ApplyEnv()
	assert.Equal(t, "postgres://env/records", cfg.DatabaseURL)

	cfg.DatabaseURL = "postgres://flag/records"
	cfg.ApplyEnv()
	assert.Equal(t, "postgres://flag/records", cfg.DatabaseURL)
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "k")
	t.Setenv(EnvAPIKeySecret, "ks")
	t.Setenv(EnvAccessToken, "t")
	t.Setenv(EnvAccessTokenSecret, "")

	creds := CredentialsFromEnv()
	assert.Equal(t, "k", creds.APIKey)
	assert.Equal(t, "ks", creds.APIKeySecret)
	assert.Equal(t, "t", creds.AccessToken)
	assert.Error(t, creds.Validate())
}
