package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/planets/pkg/errors"
	"github.com/agentstation/planets/pkg/repository"
)

// TestLoadConfig_Defaults verifies defaults when nothing is configured.
func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "localhost", config.Host)
	assert.Equal(t, 3000, config.Port)
	assert.Equal(t, 5*time.Minute, config.CacheTTL)
	assert.True(t, config.Metrics)
	assert.Equal(t, repository.DriverMemory, config.Storage.Driver)
	assert.Equal(t, "auto", config.LogFormat)
	assert.Empty(t, config.ConfigFile)
}

// TestLoadConfig_Environment verifies PLANETS_ prefixed variables.
func TestLoadConfig_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PLANETS_SERVER_PORT", "8088")
	t.Setenv("PLANETS_SERVER_RATE_LIMIT", "60")
	t.Setenv("PLANETS_SERVER_CACHE_TTL", "90s")
	t.Setenv("PLANETS_STORAGE_DRIVER", "sqlite")
	t.Setenv("PLANETS_LOG_LEVEL", "debug")
	t.Setenv("PLANETS_API_KEY", "secret")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8088, config.Port)
	assert.Equal(t, 60, config.RateLimit)
	assert.Equal(t, 90*time.Second, config.CacheTTL)
	assert.Equal(t, "sqlite", config.Storage.Driver)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "secret", config.ServerConfig().APIKey)
}

// TestLoadConfig_File verifies an explicit config file and that the
// environment still wins over it.
func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
  cors: true
storage:
  driver: sqlite
  dsn: planets.db
catalog:
  file: catalog.yaml
`), 0o600))
	t.Setenv("PLANETS_SERVER_PORT", "9001")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, config.ConfigFile)
	assert.Equal(t, 9001, config.Port)
	assert.True(t, config.CORS)
	assert.Equal(t, repository.Config{Driver: "sqlite", DSN: "planets.db"}, config.Storage)
	assert.Equal(t, "catalog.yaml", config.CatalogFile)
}

// TestLoadConfig_DotEnv verifies .env loading.
func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PLANETS_SERVER_HOST=0.0.0.0\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("PLANETS_SERVER_HOST") })

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", config.Host)
}

// TestLoadConfig_MissingFile verifies an explicit missing file is an error.
func TestLoadConfig_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadConfig("does-not-exist.yaml")
	var cfgErr *pkgerrors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

// TestConfig_UpdateFromFlags verifies flag precedence.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "info"}

	config.UpdateFromFlags(true, false, true, "", "")
	assert.True(t, config.Verbose)
	assert.True(t, config.NoColor)
	assert.Equal(t, "yaml", config.Format, "empty flag keeps configured format")
	assert.Equal(t, "info", config.LogLevel)

	config.UpdateFromFlags(false, false, false, "json", "error")
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "error", config.LogLevel)
}
