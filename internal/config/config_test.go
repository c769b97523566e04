package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMissingConfigFile(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.json"))
}

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		useMissingConfigFile(t)
		t.Setenv("APP_PORT", "9090")
		t.Setenv("APP_ENV", "test")
		t.Setenv("STATIC_DIR", "/srv/www")
		t.Setenv("CORS_ORIGIN", "https://tours.example")
		t.Setenv("INTERNAL_SECRET_KEY", "internal")
		t.Setenv("BOKUN_BASE_URL", " https://api.example ")
		t.Setenv("BOKUN_ACCESS_KEY", "access")
		t.Setenv("BOKUN_SECRET_KEY", "secret")
		t.Setenv("BOKUN_OCTO_TOKEN", "octo")
		t.Setenv("BOKUN_TIMEOUT", "10s")
		t.Setenv("BOKUN_RATE_LIMIT", "2.5")
		t.Setenv("BOKUN_BREAKER_MAX_FAILURES", "3")
		t.Setenv("BOKUN_BREAKER_TIMEOUT", "1m")
		t.Setenv("OTEL_ENABLED", "true")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "/srv/www", cfg.StaticDir)
		assert.Equal(t, "https://tours.example", cfg.CORSOrigin)
		assert.Equal(t, "internal", cfg.InternalSecretKey)
		assert.Equal(t, "https://api.example", cfg.Bokun.BaseURL)
		assert.Equal(t, "access", cfg.Bokun.AccessKey)
		assert.Equal(t, "secret", cfg.Bokun.SecretKey)
		assert.Equal(t, "octo", cfg.Bokun.OctoToken)
		assert.Equal(t, 10*time.Second, cfg.Bokun.Timeout)
		assert.Equal(t, 2.5, cfg.Bokun.RateLimit)
		assert.Equal(t, uint32(3), cfg.Bokun.BreakerMaxFailures)
		assert.Equal(t, time.Minute, cfg.Bokun.BreakerTimeout)
		assert.True(t, cfg.Tracing.Enabled)
	})

	t.Run("Defaults", func(t *testing.T) {
		useMissingConfigFile(t)
		t.Setenv("BOKUN_BASE_URL", "")
		t.Setenv("BOKUN_USE_SANDBOX", "")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, SandboxBaseURL, cfg.Bokun.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.Bokun.Timeout)
		assert.Zero(t, cfg.Bokun.BreakerMaxFailures)
		assert.False(t, cfg.Tracing.Enabled)
	})

	t.Run("Production base url when sandbox is off", func(t *testing.T) {
		useMissingConfigFile(t)
		t.Setenv("BOKUN_BASE_URL", "")
		t.Setenv("BOKUN_USE_SANDBOX", "false")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, ProductionBaseURL, cfg.Bokun.BaseURL)
	})

	t.Run("Local json file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.local.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"app": {"port": "7070"},
			"bokun": {"access_key": "from-file", "secret_key": "file-secret", "use_sandbox": false}
		}`), 0o600))
		t.Setenv("CONFIG_FILE", path)
		t.Setenv("BOKUN_BASE_URL", "")
		t.Setenv("BOKUN_SECRET_KEY", "env-secret")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "7070", cfg.AppPort)
		assert.Equal(t, "from-file", cfg.Bokun.AccessKey)
		assert.Equal(t, "env-secret", cfg.Bokun.SecretKey)
		assert.Equal(t, ProductionBaseURL, cfg.Bokun.BaseURL)
	})

	t.Run("Broken json file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.local.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"app":`), 0o600))
		t.Setenv("CONFIG_FILE", path)

		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
