// pkg/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tempFile := filepath.Join(t.TempDir(), "test_config.yaml")
	require.NoError(t, os.WriteFile(tempFile, []byte(content), 0644))
	return tempFile
}

// clearEnv blanks every SCHEMASYNC_ variable the tests touch, so values come
// from the intended layer only.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SCHEMASYNC_DATABASE_DIALECT",
		"SCHEMASYNC_DATABASE_DSN",
		"SCHEMASYNC_DATABASE_POOL_MAXIDLECONNS",
		"SCHEMASYNC_DATABASE_POOL_MAXOPENCONNS",
		"SCHEMASYNC_DATABASE_POOL_CONNMAXLIFETIME",
		"SCHEMASYNC_LOGGING_LEVEL",
		"SCHEMASYNC_LOGGING_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaultsApplied(t *testing.T) {
	clearEnv(t)
	// Provide the required fields via env so validation passes.
	t.Setenv("SCHEMASYNC_DATABASE_DIALECT", "mysql")
	t.Setenv("SCHEMASYNC_DATABASE_DSN", "user:pass@tcp(localhost:3306)/app")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	defaults := NewDefaultConfig()
	assert.Equal(t, defaults.Database.Pool.MaxIdleConns, cfg.Database.Pool.MaxIdleConns)
	assert.Equal(t, defaults.Database.Pool.MaxOpenConns, cfg.Database.Pool.MaxOpenConns)
	assert.Equal(t, defaults.Database.Pool.ConnMaxLifetime, cfg.Database.Pool.ConnMaxLifetime)
	assert.Equal(t, defaults.Logging.Level, cfg.Logging.Level)
	assert.Equal(t, defaults.Logging.Format, cfg.Logging.Format)

	assert.Equal(t, "mysql", cfg.Database.Dialect)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/app", cfg.Database.DSN)
}

func TestLoadConfigMissingRequiredFields(t *testing.T) {
	clearEnv(t)

	// Run from a clean directory so no stray schemasync.yaml interferes.
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(originalDir) })

	_, err = LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration:")
	assert.Contains(t, err.Error(), "Field 'Config.Database.Dialect' failed validation on 'required'")
	assert.Contains(t, err.Error(), "Field 'Config.Database.DSN' failed validation on 'required'")
}

func TestLoadConfigFromFile(t *testing.T) {
	clearEnv(t)
	configFile := createTempConfigFile(t, `
database:
  dialect: "mysql"
  dsn: "user:pass@tcp(host:3306)/db?parseTime=true"
  pool:
    maxOpenConns: 50
    connMaxLifetime: "30m"
logging:
  level: "debug"
`)

	cfg, err := LoadConfig(configFile)
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Dialect)
	assert.Equal(t, "user:pass@tcp(host:3306)/db?parseTime=true", cfg.Database.DSN)
	assert.Equal(t, 50, cfg.Database.Pool.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.Database.Pool.ConnMaxLifetime)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Defaults survive where the file stays silent.
	defaults := NewDefaultConfig()
	assert.Equal(t, defaults.Database.Pool.MaxIdleConns, cfg.Database.Pool.MaxIdleConns)
	assert.Equal(t, defaults.Logging.Format, cfg.Logging.Format)
}

func TestLoadConfigPrecedenceEnvOverFileOverDefault(t *testing.T) {
	clearEnv(t)
	configFile := createTempConfigFile(t, `
database:
  dialect: "mysql"
  dsn: "file:from_file"
  pool:
    maxOpenConns: 20
logging:
  level: "debug"
`)

	t.Setenv("SCHEMASYNC_DATABASE_DSN", "env:overrides_file")
	t.Setenv("SCHEMASYNC_LOGGING_LEVEL", "error")

	cfg, err := LoadConfig(configFile)
	require.NoError(t, err)

	assert.Equal(t, "env:overrides_file", cfg.Database.DSN, "env beats file")
	assert.Equal(t, "error", cfg.Logging.Level, "env beats file")
	assert.Equal(t, 20, cfg.Database.Pool.MaxOpenConns, "file beats default")

	defaults := NewDefaultConfig()
	assert.Equal(t, defaults.Database.Pool.MaxIdleConns, cfg.Database.Pool.MaxIdleConns, "default where nothing set")
	assert.Equal(t, defaults.Logging.Format, cfg.Logging.Format, "default where nothing set")
}

func TestLoadConfigSpecifiedFileNotFound(t *testing.T) {
	clearEnv(t)
	nonExistentPath := filepath.Join(t.TempDir(), "non_existent_config.yaml")

	_, err := LoadConfig(nonExistentPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading configuration file")
}

func TestLoadConfigMalformedFile(t *testing.T) {
	clearEnv(t)
	configFile := createTempConfigFile(t, `
database:
  dialect: mysql" # unclosed string
logging: level: debug
`)

	_, err := LoadConfig(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading configuration file")
}
