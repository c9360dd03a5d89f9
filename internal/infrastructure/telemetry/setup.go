package telemetry

import (
	"context"
	"errors"

	"github.com/erp/reporting/internal/infrastructure/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Providers groups the telemetry pipelines started for one process.
type Providers struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
}

// Setup starts tracing, metrics, log export and profiling as configured.
// Everything is a no-op when telemetry is disabled.
func Setup(ctx context.Context, cfg config.TelemetryConfig, serviceName string, logger *zap.Logger) (*Providers, error) {
	p := &Providers{}
	var err error

	p.Tracer, err = NewTracerProvider(ctx, Config{
		Enabled:           cfg.Enabled,
		CollectorEndpoint: cfg.Endpoint,
		SamplingRatio:     cfg.SamplingRatio,
		ServiceName:       serviceName,
		Insecure:          cfg.Insecure,
	}, logger)
	if err != nil {
		return nil, err
	}

	p.Meter, err = NewMeterProvider(ctx, MetricsConfig{
		Enabled:           cfg.Enabled,
		CollectorEndpoint: cfg.Endpoint,
		ExportInterval:    cfg.MetricsInterval,
		ServiceName:       serviceName,
		Insecure:          cfg.Insecure,
	}, logger)
	if err != nil {
		return nil, errors.Join(err, p.Tracer.Shutdown(ctx))
	}

	p.Logs, err = NewLoggerProvider(ctx, LogsConfig{
		Enabled:           cfg.Enabled && cfg.LogsEnabled,
		CollectorEndpoint: cfg.Endpoint,
		ServiceName:       serviceName,
		Insecure:          cfg.Insecure,
	}, logger)
	if err != nil {
		return nil, errors.Join(err, p.Meter.Shutdown(ctx), p.Tracer.Shutdown(ctx))
	}

	p.Profiler, err = NewProfiler(ProfilerConfig{
		Enabled:         cfg.ProfilingEnabled,
		ServerAddress:   cfg.ProfilingServer,
		ApplicationName: serviceName,
	}, logger)
	if err != nil {
		return nil, errors.Join(err, p.Logs.Shutdown(ctx), p.Meter.Shutdown(ctx), p.Tracer.Shutdown(ctx))
	}
	if p.Profiler.IsEnabled() {
		p.Tracer.EnableSpanProfiles()
	}

	return p, nil
}

// Logger returns base bridged to the OTEL log pipeline when it is enabled.
func (p *Providers) Logger(base *zap.Logger) *zap.Logger {
	return p.Logs.Bridge(base, zapcore.InfoLevel)
}

// Shutdown stops every pipeline, flushing pending data.
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.Profiler.Stop(),
		p.Logs.Shutdown(ctx),
		p.Meter.Shutdown(ctx),
		p.Tracer.Shutdown(ctx),
	)
}
