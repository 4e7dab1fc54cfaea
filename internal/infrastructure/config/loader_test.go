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
	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("File values with defaults", func(t *testing.T) {
		path := writeConfig(t, `
database:
  driver: postgres
  host: db.internal
  port: "5432"
  database: legacy
registry:
  path: /etc/migrate/definitions
`)
		t.Setenv("MV_ENV", "Test")

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, Test, cfg.Environment)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, "legacy", cfg.Database.Database)
		assert.Equal(t, "/etc/migrate/definitions", cfg.Registry.Path)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
		assert.Equal(t, 30*time.Second, cfg.Database.QueryTimeout)
		assert.Equal(t, time.Second, cfg.Database.RetryDelay)
		assert.Equal(t, "info", cfg.Logger.Level)
		assert.True(t, cfg.Logger.Enabled)
		assert.Equal(t, "X-Role", cfg.Access.RoleHeader)
		assert.ElementsMatch(t, []string{"view migrate reports", "administer migrations"}, cfg.Access.Roles["administrator"])
	})

	t.Run("Environment overrides file", func(t *testing.T) {
		path := writeConfig(t, `
database:
  driver: mysql
  password: from-file
logger:
  level: warn
`)
		t.Setenv("MV_DB_PASSWORD", "from-env")
		t.Setenv("MV_DB_RETRY_ATTEMPTS", "0")
		t.Setenv("MV_SERVER_PORT", "9090")
		t.Setenv("MV_LOGGER_LEVEL", "debug")

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "mysql", cfg.Database.Driver)
		assert.Equal(t, "from-env", cfg.Database.Password)
		assert.Equal(t, 0, cfg.Database.RetryAttempts)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Logger.Level)
		assert.Equal(t, Development, cfg.Environment)
	})

	t.Run("Custom roles", func(t *testing.T) {
		path := writeConfig(t, `
access:
  roleHeader: X-Migrate-Role
  roles:
    auditor:
      - view migrate reports
`)

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "X-Migrate-Role", cfg.Access.RoleHeader)
		assert.Equal(t, []string{"view migrate reports"}, cfg.Access.Roles["auditor"])
	})

	t.Run("Missing explicit file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.Error(t, err)
	})
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("MV_TEST_INT", "12")
	t.Setenv("MV_TEST_BAD", "twelve")

	assert.Equal(t, 12, getEnvInt("MV_TEST_INT", 0))
	assert.Equal(t, 3, getEnvInt("MV_TEST_BAD", 3))
	assert.Equal(t, -1, getEnvInt("MV_TEST_UNSET", -1))
}
