package report

import (
	"context"
	"testing"

	"github.com/erp/reporting/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestReportService_Telemetry(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := telemetry.NewReportMetrics(mp.Meter("test"))
	require.NoError(t, err)

	svc, _ := newTestService(t, WithMetrics(metrics))
	ctx := context.Background()

	pl := samplePL("45000", "2000", "15000")
	pl.GrossProfit = decp("31000")
	_, err = svc.ProfitAndLoss(ctx, ProfitAndLossRequest{Current: pl, Prior: samplePL("1", "1", "1")})
	require.NoError(t, err)
	_, err = svc.ProfitAndLoss(ctx, ProfitAndLossRequest{})
	require.Error(t, err)
	_, err = svc.Export(ctx, ExportRequest{Kind: ExportProfitAndLoss, Payload: mustJSON(t, ProfitAndLossRequest{Current: samplePL("1", "1", "1")})}, &recordingEmitter{})
	require.NoError(t, err)

	names := map[string]int{}
	for _, s := range sr.Ended() {
		names[s.Name()]++
	}
	// The export renders through ProfitAndLoss, so its build span nests inside.
	assert.Equal(t, 3, names["report.profit_and_loss"])
	assert.Equal(t, 1, names["report.export"])

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if s, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range s.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(3), sums["report_builds_total"])
	assert.Equal(t, int64(1), sums["report_integrity_warnings_total"])
	assert.Equal(t, int64(1), sums["report_exports_total"])
}
