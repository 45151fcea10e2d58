package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/theater-records/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "http_server:\n  address: \"localhost:9000\"\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "localhost:9000", cfg.Addr)
	assert.Equal(t, "http://localhost:8080", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.Filter.TokenTTL)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "http_server:\n  address: \"localhost:9000\"\nbackend:\n  base_url: \"http://a\"\n")
	t.Setenv("BACKEND_BASE_URL", "http://b")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://b", cfg.Backend.BaseURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

// unsetEnv removes key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadRequiresAddress(t *testing.T) {
	path := writeConfig(t, "env: prod\n")
	unsetEnv(t, "HTTP_SERVER_ADDR")

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBlankAddress(t *testing.T) {
	t.Run("blank env", func(t *testing.T) {
		path := writeConfig(t, "env: prod\n")
		t.Setenv("HTTP_SERVER_ADDR", "")

		_, err := config.Load(path)
		assert.ErrorContains(t, err, "http_server.address is empty")
	})

	t.Run("blank yaml", func(t *testing.T) {
		path := writeConfig(t, "http_server:\n  address: \"  \"\n")
		unsetEnv(t, "HTTP_SERVER_ADDR")

		_, err := config.Load(path)
		assert.ErrorContains(t, err, "http_server.address is empty")
	})
}
