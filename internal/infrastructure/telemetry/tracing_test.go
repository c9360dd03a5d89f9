package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/reporting/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func zaptestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// recordSpans installs a recording tracer provider for the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestStartServiceSpan(t *testing.T) {
	sr := recordSpans(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "report", "balance_sheet",
		telemetry.WithAttribute(telemetry.SpanAttrReportKind, "balance-sheet"),
		telemetry.WithAttribute(telemetry.SpanAttrHasPrior, true),
		telemetry.WithSpanKind(trace.SpanKindServer),
	)
	telemetry.SetAttributes(span, telemetry.SpanAttrWarnings, 2, 42, "ignored", telemetry.SpanAttrBalanced, false)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, "report.balance_sheet", s.Name())
	assert.Equal(t, trace.SpanKindServer, s.SpanKind())

	attrs := map[string]any{}
	for _, kv := range s.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, "balance-sheet", attrs[telemetry.SpanAttrReportKind])
	assert.Equal(t, true, attrs[telemetry.SpanAttrHasPrior])
	assert.Equal(t, int64(2), attrs[telemetry.SpanAttrWarnings])
	assert.Equal(t, false, attrs[telemetry.SpanAttrBalanced])
	assert.Len(t, attrs, 4)
}

func TestRecordError(t *testing.T) {
	sr := recordSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "report.export")
	telemetry.RecordError(span, nil)
	telemetry.RecordError(span, errors.New("emit failed"))
	span.End()

	s := sr.Ended()[0]
	assert.Equal(t, codes.Error, s.Status().Code)
	assert.Equal(t, "emit failed", s.Status().Description)
	require.Len(t, s.Events(), 1)
	assert.Equal(t, "exception", s.Events()[0].Name)

	assert.NotPanics(t, func() { telemetry.RecordError(nil, errors.New("x")) })
	assert.NotPanics(t, func() { telemetry.SetAttributes(nil, "k", "v") })
}
