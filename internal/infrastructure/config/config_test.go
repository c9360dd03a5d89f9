package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Run from an empty directory so no config.toml is picked up
	t.Chdir(t.TempDir())

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "reporting", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, ":8080", cfg.App.Addr())
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.Equal(t, ExportTargetDownload, cfg.Export.Target)
		assert.Equal(t, "exports", cfg.Export.Directory)
		assert.False(t, cfg.Cache.Enabled)
		assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
		assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
		assert.Equal(t, "localhost", cfg.Redis.Host)
		assert.Equal(t, 6379, cfg.Redis.Port)
		assert.Equal(t, int64(10<<20), cfg.HTTP.MaxBodySize)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	})

	t.Run("loads values from environment variables with REPORTING prefix", func(t *testing.T) {
		t.Setenv("REPORTING_APP_NAME", "ledger-reports")
		t.Setenv("REPORTING_APP_PORT", "9000")
		t.Setenv("REPORTING_APP_TIMEZONE", "Europe/London")
		t.Setenv("REPORTING_EXPORT_TARGET", "local")
		t.Setenv("REPORTING_EXPORT_DIRECTORY", "/tmp/out")
		t.Setenv("REPORTING_CACHE_ENABLED", "true")
		t.Setenv("REPORTING_CACHE_TTL", "90s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "ledger-reports", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "Europe/London", cfg.App.Location().String())
		assert.Equal(t, ExportTargetLocal, cfg.Export.Target)
		assert.Equal(t, "/tmp/out", cfg.Export.Directory)
		assert.True(t, cfg.Cache.Enabled)
		assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	})

	t.Run("rejects unknown export target", func(t *testing.T) {
		t.Setenv("REPORTING_EXPORT_TARGET", "ftp")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "export.target")
	})

	t.Run("s3 target requires bucket", func(t *testing.T) {
		t.Setenv("REPORTING_EXPORT_TARGET", "s3")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})

	t.Run("rejects invalid timezone", func(t *testing.T) {
		t.Setenv("REPORTING_APP_TIMEZONE", "Mars/Olympus")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.timezone")
	})

	t.Run("production rejects wildcard CORS", func(t *testing.T) {
		t.Setenv("REPORTING_APP_ENV", "production")
		t.Setenv("REPORTING_HTTP_CORS_ALLOW_ORIGINS", "*")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reporting.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[app]
port = "7070"

[export]
target = "s3"

[storage]
bucket = "finance-exports"
access_key = "key"
secret_key = "secret"
use_path_style = true

[cache]
enabled = true
backend = "redis"
ttl = "5m"
`), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.App.Port)
	assert.Equal(t, ExportTargetS3, cfg.Export.Target)
	assert.Equal(t, "finance-exports", cfg.Storage.Bucket)
	assert.True(t, cfg.Storage.UsePathStyle)
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "absent.toml"))
		assert.Error(t, err)
	})
}

func TestAppConfig_Location(t *testing.T) {
	assert.Equal(t, time.Local, AppConfig{}.Location())
	assert.Equal(t, time.Local, AppConfig{Timezone: "nowhere"}.Location())
	assert.Equal(t, "UTC", AppConfig{Timezone: "UTC"}.Location().String())
}

func TestLoad_Telemetry(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.Telemetry.Enabled)
		assert.Equal(t, "localhost:4317", cfg.Telemetry.Endpoint)
		assert.InDelta(t, 1.0, cfg.Telemetry.SamplingRatio, 0)
		assert.Equal(t, time.Minute, cfg.Telemetry.MetricsInterval)
	})

	t.Run("rejects sampling ratio above one", func(t *testing.T) {
		t.Setenv("REPORTING_TELEMETRY_SAMPLING_RATIO", "1.5")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})

	t.Run("profiling requires a server", func(t *testing.T) {
		t.Setenv("REPORTING_TELEMETRY_PROFILING_ENABLED", "true")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "profiling_server")
	})
}
