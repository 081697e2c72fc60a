package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rtdb/logging"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "rtdb.yml", `
database:
  host: sample-app.firebaseio.com
auth:
  secret: s3cret
  token_ttl: 15m
logging:
  level: debug
  format: json
seed:
  files: [data.json, /abs/extra.yaml]
  users: users.yaml
`)

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "https", cfg.Database.Scheme)
	assert.Equal(t, "sample-app.firebaseio.com", cfg.Database.Host)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
	assert.Equal(t, "rtdb", cfg.Auth.Issuer)
	ttl, err := cfg.Auth.TTL()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, ttl)
	assert.Equal(t, logging.LogLevelDebug, cfg.LogLevel())
	assert.Equal(t, []string{filepath.Join(dir, "data.json"), "/abs/extra.yaml"}, cfg.Seed.Files)
	assert.Equal(t, filepath.Join(dir, "users.yaml"), cfg.Seed.Users)
}

func TestLoad_TOML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "rtdb.toml", `
[database]
scheme = "http"
host = "127.0.0.1:9000"

[logging]
level = "warn"
format = "text"
`)

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "http", cfg.Database.Scheme)
	assert.Equal(t, "127.0.0.1:9000", cfg.Database.Host)
	assert.Equal(t, logging.LogLevelWarn, cfg.LogLevel())
}

func TestLoad_EnvExpansionAndOverrides(t *testing.T) {
	t.Setenv("TEST_RTDB_SECRET", "from-env")
	t.Setenv("RTDB_HOST", "override.example.com")
	t.Setenv("RTDB_SEED_FILES", "a.json, b.yaml")

	cfg, err := LoadFromBytes([]byte(`
auth:
  secret: ${TEST_RTDB_SECRET}
  issuer: ${TEST_RTDB_UNSET:-fallback}
`), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.Equal(t, "fallback", cfg.Auth.Issuer)
	assert.Equal(t, "override.example.com", cfg.Database.Host)
	assert.Equal(t, []string{"a.json", "b.yaml"}, cfg.Seed.Files)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "rtdb.ini", "x=1"))
	assert.ErrorContains(t, err, "unsupported config file extension")

	for name, content := range map[string]string{
		"unknown field": "database:\n  port: 1\n",
		"bad scheme":    "database:\n  scheme: ftp\n",
		"empty host":    "database:\n  host: ' '\n",
		"bad level":     "logging:\n  level: loud\n",
		"bad format":    "logging:\n  format: xml\n",
		"bad ttl":       "auth:\n  token_ttl: soon\n",
	} {
		_, err := LoadFromBytes([]byte(content), FormatYAML)
		assert.Error(t, err, name)
	}

	_, err = LoadFromBytes([]byte("[database]\nport = 1\n"), FormatTOML)
	assert.Error(t, err)
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes(nil, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
