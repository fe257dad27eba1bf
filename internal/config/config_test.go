package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable ApplyEnv reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvPort, EnvDatabaseURL, EnvRedisURL, EnvDataset, EnvCacheTTL,
		EnvLogLevel, EnvLogDevelopment, EnvBreakerFailures, EnvBreakerTimeout,
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))
	return tmpFile
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"port": 9090,
		"database_url": "postgres://localhost/advisor",
		"redis_url": "redis://localhost:6379/0",
		"cache_ttl": "5m",
		"log_level": "debug",
		"log_development": true,
		"breaker_failures": 3
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/advisor", cfg.DatabaseURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTLDuration())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogDevelopment)
	assert.Equal(t, 3, cfg.BreakerFailures)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
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

func TestLoad_DefaultsAndEnv(t *testing.T) {
	clearEnv(t)
	dataset := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(dataset, []byte(`{"departments": {}}`), 0644))

	t.Setenv(EnvDataset, dataset)
	t.Setenv(EnvCacheTTL, "90s")
	t.Setenv(EnvLogDevelopment, "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, dataset, cfg.Dataset)
	assert.Equal(t, 90*time.Second, cfg.CacheTTLDuration())
	assert.Equal(t, 30*time.Second, cfg.BreakerTimeoutDuration())
	assert.Equal(t, DefaultBreakerFailures, cfg.BreakerFailures)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.True(t, cfg.LogDevelopment)
	assert.NoError(t, cfg.RequireStore())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{"port": 9090, "database_url": "postgres://file/db", "log_level": "warn"}`)
	t.Setenv(EnvPort, "7070")
	t.Setenv(EnvDatabaseURL, "postgres://env/db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_BadEnv(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{EnvPort, "eighty"},
		{EnvLogDevelopment, "sometimes"},
		{EnvBreakerFailures, "many"},
		{EnvCacheTTL, "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			require.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty is valid", Config{}, ""},
		{"both stores", Config{DatabaseURL: "postgres://x", Dataset: "d.json"}, "mutually exclusive"},
		{"port out of range", Config{Port: 70000}, "'port'"},
		{"negative breaker", Config{BreakerFailures: -1}, "'breaker_failures'"},
		{"bad ttl", Config{CacheTTL: "forever"}, "'cache_ttl'"},
		{"negative ttl", Config{CacheTTL: "-1m"}, "non-negative"},
		{"bad breaker timeout", Config{BreakerTimeout: "x"}, "'breaker_timeout'"},
		{"unknown log level", Config{LogLevel: "loud"}, "log_level"},
		{"missing dataset", Config{Dataset: "/nonexistent/dataset.json"}, "dataset file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequireStore(t *testing.T) {
	err := (&Config{}).RequireStore()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvDatabaseURL)

	assert.NoError(t, (&Config{DatabaseURL: "postgres://x"}).RequireStore())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{Port: 9000, RedisURL: "redis://cfg"}
	merged := cfg.MergeWithDefaults(Config{Port: 1, RedisURL: "redis://default", CacheTTL: "1m", BreakerFailures: 2})

	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, "redis://cfg", merged.RedisURL)
	assert.Equal(t, "1m", merged.CacheTTL)
	assert.Equal(t, 2, merged.BreakerFailures)
	assert.Equal(t, 9000, cfg.Port, "original is unchanged")
}
