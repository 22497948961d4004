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
	path := filepath.Join(t.TempDir(), "punch.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	cfg.Database.DSN = "punch.db"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Main Hospital", cfg.Location.Name)
	assert.Equal(t, 2.0, cfg.Location.Perimeter)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_PUNCH_SECRET", "s3cret")
	path := writeConfig(t, `
database:
  driver: sqlite
  dsn: ${TEST_PUNCH_DB:-/tmp/punch-test.db}
  timeout: 2s
server:
  addr: ":9090"
  jwt_secret: ${TEST_PUNCH_SECRET}
location:
  perimeter: 0.5
  name: North Clinic
  latitude: 40.7
  longitude: -74.0
timezone: UTC
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/punch-test.db", cfg.Database.DSN)
	assert.Equal(t, 2*time.Second, cfg.Database.Timeout)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "s3cret", cfg.Server.JWTSecret)
	assert.Equal(t, "North Clinic", cfg.Location.Name)
	assert.Equal(t, 24*time.Hour, cfg.Server.TokenTTL, "unset fields keep defaults")

	loc, err := cfg.TimeLocation()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("PUNCH_DB_DSN", "/tmp/override.db")
	t.Setenv("PUNCH_LOG_LEVEL", "debug")
	path := writeConfig(t, "database:\n  dsn: /tmp/file.db\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.Database.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: mysql
location:
  perimeter: -1
timezone: Mars/Olympus
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")
	assert.Contains(t, err.Error(), "location.perimeter")
	assert.Contains(t, err.Error(), "invalid timezone")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
