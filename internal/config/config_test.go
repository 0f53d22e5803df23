package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

var envKeys = []string{
	"REALIPD_LISTEN",
	"REALIPD_READ_HEADER_TIMEOUT",
	"REALIPD_PEER_FALLBACK",
	"REALIPD_RESPONSE_HEADER",
	"REALIPD_LOG_LEVEL",
	"REALIPD_LOG_FORMAT",
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultListen, cfg.Server.Listen)
	assert.Equal(t, DefaultReadHeaderTimeout, cfg.Server.ReadHeaderTimeout)
	assert.False(t, cfg.Resolver.PeerFallback)
	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "realipd.yaml", `
server:
  listen: "127.0.0.1:9090"
  read_header_timeout: 2s
resolver:
  peer_fallback: true
  response_header: X-Client-IP
logging:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Listen)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.True(t, cfg.Resolver.PeerFallback)
	assert.Equal(t, "X-Client-IP", cfg.Resolver.ResponseHeader)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfig_PartialYAMLKeepsDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "realipd.yaml", "resolver:\n  peer_fallback: true\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Resolver.PeerFallback)
	assert.Equal(t, DefaultListen, cfg.Server.Listen)
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")

	path := writeFile(t, t.TempDir(), "bad.yaml", "server: [not, a, map]\n")
	_, err = LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing config file")
}

func TestApplyEnv(t *testing.T) {
	unsetEnv(t, envKeys...)
	t.Setenv("REALIPD_LISTEN", ":7070")
	t.Setenv("REALIPD_PEER_FALLBACK", "true")
	t.Setenv("REALIPD_LOG_LEVEL", "warn")
	t.Setenv("REALIPD_READ_HEADER_TIMEOUT", "750ms")

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg))

	assert.Equal(t, ":7070", cfg.Server.Listen)
	assert.Equal(t, 750*time.Millisecond, cfg.Server.ReadHeaderTimeout)
	assert.True(t, cfg.Resolver.PeerFallback)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format, "unset variables keep current values")
}

func TestApplyEnv_InvalidValue(t *testing.T) {
	unsetEnv(t, envKeys...)
	t.Setenv("REALIPD_PEER_FALLBACK", "sometimes")

	err := ApplyEnv(Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing environment")
}

func TestLoad_EnvOverridesFileAndDotEnv(t *testing.T) {
	unsetEnv(t, envKeys...)

	dir := t.TempDir()
	path := writeFile(t, dir, "realipd.yaml", "server:\n  listen: \":9000\"\nlogging:\n  format: json\n")
	writeFile(t, dir, ".env", "REALIPD_PEER_FALLBACK=true\nREALIPD_LOG_FORMAT=text\n")
	t.Chdir(dir)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Listen)
	assert.True(t, cfg.Resolver.PeerFallback, ".env value applied")
	assert.Equal(t, "text", cfg.Logging.Format, ".env overrides file")
}

func TestLoad_WithoutDotEnv(t *testing.T) {
	unsetEnv(t, envKeys...)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultListen, cfg.Server.Listen)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty listen", mutate: func(c *Config) { c.Server.Listen = " " }, wantErr: "server.listen"},
		{name: "negative timeout", mutate: func(c *Config) { c.Server.ReadHeaderTimeout = -time.Second }, wantErr: "read_header_timeout"},
		{name: "unknown format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "logging.format"},
		{name: "uppercase format", mutate: func(c *Config) { c.Logging.Format = "JSON" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
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
