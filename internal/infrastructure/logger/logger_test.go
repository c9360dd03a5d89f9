package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erp/reporting/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestFromAppConfig(t *testing.T) {
	t.Run("development honours configured format", func(t *testing.T) {
		cfg := FromAppConfig(config.AppConfig{Env: "development"}, config.LogConfig{Level: "debug", Format: "json"})
		assert.Equal(t, "debug", cfg.Level)
		assert.Equal(t, "json", cfg.Format)
		assert.Equal(t, "stdout", cfg.Output)
	})

	t.Run("production always logs json", func(t *testing.T) {
		cfg := FromAppConfig(config.AppConfig{Env: "production"}, config.LogConfig{Format: "console", Output: "stderr"})
		assert.Equal(t, "json", cfg.Format)
		assert.Equal(t, "stderr", cfg.Output)
		assert.Equal(t, "info", cfg.Level)
	})
}

func TestNew(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		l, err := New(nil)
		require.NoError(t, err)
		assert.NotNil(t, l)
	})

	t.Run("writes json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		l, err := New(&Config{Level: "warn", Format: "json", Output: path})
		require.NoError(t, err)

		l.Info("dropped")
		l.Warn("kept")
		require.NoError(t, l.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "dropped")
		assert.Contains(t, string(data), `"msg":"kept"`)
		assert.Contains(t, string(data), `"level":"warn"`)
	})

	t.Run("unwritable output fails", func(t *testing.T) {
		_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "app.log")})
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}
