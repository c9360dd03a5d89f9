package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Outcome values recorded on report metrics.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// ReportMetrics holds the instruments recorded by the report service.
// A nil *ReportMetrics records nothing.
type ReportMetrics struct {
	builds        *Counter
	buildDuration *Histogram
	warnings      *Counter
	unbalanced    *Counter
	exports       *Counter
	exportSize    *Histogram
}

// NewReportMetrics creates the report instruments on meter.
func NewReportMetrics(meter metric.Meter) (*ReportMetrics, error) {
	builds, err := NewCounter(meter, "report_builds_total", "Reports built, by kind and outcome", "{report}")
	if err != nil {
		return nil, err
	}
	buildDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        "report_build_duration_seconds",
		Description: "Time spent validating and building a report",
		Unit:        "s",
		Boundaries:  SmallDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	warnings, err := NewCounter(meter, "report_integrity_warnings_total", "Reported totals that disagree with recomputed ones", "{warning}")
	if err != nil {
		return nil, err
	}
	unbalanced, err := NewCounter(meter, "report_unbalanced_total", "Balance checks that failed", "{check}")
	if err != nil {
		return nil, err
	}
	exports, err := NewCounter(meter, "report_exports_total", "CSV exports handed to an emitter", "{export}")
	if err != nil {
		return nil, err
	}
	exportSize, err := NewHistogram(meter, HistogramOpts{
		Name:        "report_export_size_bytes",
		Description: "Size of emitted CSV documents",
		Unit:        "By",
		Boundaries:  SizeBuckets,
	})
	if err != nil {
		return nil, err
	}
	return &ReportMetrics{
		builds:        builds,
		buildDuration: buildDuration,
		warnings:      warnings,
		unbalanced:    unbalanced,
		exports:       exports,
		exportSize:    exportSize,
	}, nil
}

// RecordBuild records one report build.
func (m *ReportMetrics) RecordBuild(ctx context.Context, kind string, d time.Duration, err error) {
	if m == nil {
		return
	}
	kindAttr := AttrReportKind.String(kind)
	m.builds.Inc(ctx, kindAttr, AttrOutcome.String(outcome(err)))
	m.buildDuration.RecordDuration(ctx, d, kindAttr)
}

// RecordWarning records an integrity warning.
func (m *ReportMetrics) RecordWarning(ctx context.Context, kind, code string) {
	if m == nil {
		return
	}
	m.warnings.Inc(ctx, AttrReportKind.String(kind), AttrWarning.String(code))
}

// RecordUnbalanced records a failed balance check.
func (m *ReportMetrics) RecordUnbalanced(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.unbalanced.Inc(ctx, AttrReportKind.String(kind))
}

// RecordExport records one export attempt and, on success, its size.
func (m *ReportMetrics) RecordExport(ctx context.Context, kind string, cached bool, size int, err error) {
	if m == nil {
		return
	}
	kindAttr := AttrReportKind.String(kind)
	m.exports.Inc(ctx, kindAttr, AttrCached.Bool(cached), AttrOutcome.String(outcome(err)))
	if err == nil {
		m.exportSize.Record(ctx, float64(size), kindAttr)
	}
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
