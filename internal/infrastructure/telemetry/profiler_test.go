package telemetry_test

import (
	"testing"

	"github.com/erp/reporting/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfiler(t *testing.T) {
	t.Run("disabled is a no-op", func(t *testing.T) {
		p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{Enabled: false}, zaptestLogger(t))
		require.NoError(t, err)
		assert.False(t, p.IsEnabled())
		assert.NoError(t, p.Stop())
		assert.NoError(t, p.Stop())
	})

	t.Run("requires server address", func(t *testing.T) {
		_, err := telemetry.NewProfiler(telemetry.ProfilerConfig{Enabled: true, ApplicationName: "reporting"}, zaptestLogger(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server address")
	})

	t.Run("requires application name", func(t *testing.T) {
		_, err := telemetry.NewProfiler(telemetry.ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, zaptestLogger(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "application name")
	})
}
