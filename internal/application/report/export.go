package report

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/erp/reporting/internal/domain/report"
	"github.com/erp/reporting/internal/domain/shared"
	"github.com/erp/reporting/internal/infrastructure/export"
	"github.com/erp/reporting/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ExportKind names a report that can be exported as CSV.
type ExportKind string

const (
	ExportProfitAndLoss    ExportKind = "profit-and-loss"
	ExportBalanceSheet     ExportKind = "balance-sheet"
	ExportTrialBalance     ExportKind = "trial-balance"
	ExportAged             ExportKind = "aged"
	ExportCashFlowForecast ExportKind = "cash-flow-forecast"
)

var exportAliases = map[string]ExportKind{
	"pl":    ExportProfitAndLoss,
	"bs":    ExportBalanceSheet,
	"tb":    ExportTrialBalance,
	"aging": ExportAged,
	"cf":    ExportCashFlowForecast,
}

// ExportKinds lists the exportable reports.
func ExportKinds() []ExportKind {
	return []ExportKind{ExportProfitAndLoss, ExportBalanceSheet, ExportTrialBalance, ExportAged, ExportCashFlowForecast}
}

// ParseExportKind accepts a kind or its short alias (pl, bs, tb, aging, cf).
func ParseExportKind(s string) (ExportKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if k, ok := exportAliases[s]; ok {
		return k, nil
	}
	for _, k := range ExportKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown report kind %q", shared.ErrUnsupported, s)
}

// ExportRequest is a raw JSON payload to render as CSV. The payload has the
// same shape as the corresponding statement endpoint's body.
type ExportRequest struct {
	Kind     ExportKind
	Payload  []byte
	Filename string
}

// ExportResult describes an emitted document.
type ExportResult struct {
	Kind        ExportKind `json:"kind"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"contentType"`
	Size        int        `json:"size"`
	Cached      bool       `json:"cached"`
}

// Export renders req to CSV and hands it to emitter. Rendered documents are
// cached by payload digest when a cache is configured; a cache failure is
// logged and the document is rendered anyway.
func (s *ReportService) Export(ctx context.Context, req ExportRequest, emitter Emitter) (_ *ExportResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "export",
		telemetry.WithAttribute(telemetry.SpanAttrReportKind, string(req.Kind)),
	)
	var size int
	var cached bool
	defer func() {
		telemetry.RecordError(span, err)
		s.metrics.RecordExport(ctx, string(req.Kind), cached, size, err)
		span.End()
	}()

	if emitter == nil {
		return nil, fmt.Errorf("%w: no emitter configured", shared.ErrExportFailed)
	}

	key := exportCacheKey(req.Kind, req.Payload)
	var data []byte
	data, cached = s.cachedExport(ctx, key)
	if !cached {
		rendered, err := s.RenderCSV(ctx, req.Kind, req.Payload)
		if err != nil {
			return nil, err
		}
		data = rendered
		s.storeExport(ctx, key, data)
	}

	filename := req.Filename
	if filename == "" {
		filename = fmt.Sprintf("%s-%s.csv", req.Kind, s.now().In(s.location).Format("20060102-150405"))
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrFilename, filename,
		telemetry.SpanAttrCached, cached,
	)
	if err := emitter.Emit(ctx, data, filename); err != nil {
		s.log(ctx).Error("Failed to emit report export",
			zap.String("kind", string(req.Kind)),
			zap.String("filename", filename),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", shared.ErrExportFailed, err)
	}

	size = len(data)
	s.log(ctx).Info("Report exported",
		zap.String("kind", string(req.Kind)),
		zap.String("filename", filename),
		zap.Int("size", len(data)),
		zap.Bool("cached", cached),
	)
	return &ExportResult{
		Kind:        req.Kind,
		Filename:    filename,
		ContentType: export.ContentType,
		Size:        len(data),
		Cached:      cached,
	}, nil
}

// RenderCSV decodes payload for kind, builds the report and serializes it.
// A statement with a prior payload is written as a comparison.
func (s *ReportService) RenderCSV(ctx context.Context, kind ExportKind, payload []byte) ([]byte, error) {
	var text string
	switch kind {
	case ExportProfitAndLoss:
		var req ProfitAndLossRequest
		if err := decodeStatementRequest(payload, &req); err != nil {
			return nil, err
		}
		res, err := s.ProfitAndLoss(ctx, req)
		if err != nil {
			return nil, err
		}
		text = statementCSV(res)
	case ExportBalanceSheet:
		var req BalanceSheetRequest
		if err := decodeStatementRequest(payload, &req); err != nil {
			return nil, err
		}
		res, err := s.BalanceSheet(ctx, req)
		if err != nil {
			return nil, err
		}
		text = statementCSV(res)
	case ExportTrialBalance:
		var tb report.TrialBalance
		if err := decodePayload(payload, &tb); err != nil {
			return nil, err
		}
		res, err := s.TrialBalance(ctx, &tb)
		if err != nil {
			return nil, err
		}
		text = export.SectionsToCSV(res.Sections)
	case ExportAged:
		var r report.AgedReport
		if err := decodePayload(payload, &r); err != nil {
			return nil, err
		}
		res, err := s.Aged(ctx, &r)
		if err != nil {
			return nil, err
		}
		text = export.AgedBucketsToCSV(res.Buckets, res.Total)
	case ExportCashFlowForecast:
		var f report.CashFlowForecast
		if err := decodePayload(payload, &f); err != nil {
			return nil, err
		}
		st, err := s.CashFlowForecast(ctx, &f)
		if err != nil {
			return nil, err
		}
		text = export.SectionsToCSV(st.Sections)
	default:
		return nil, fmt.Errorf("%w: unknown report kind %q", shared.ErrUnsupported, kind)
	}
	return []byte(text), nil
}

func statementCSV(res *StatementResult) string {
	if res.Prior != nil {
		return export.ComparisonToCSV(res.Comparison)
	}
	return export.SectionsToCSV(res.Current.Sections)
}

// decodeStatementRequest reads a statement request. A bare report without
// the "current" envelope is taken as the current payload.
func decodeStatementRequest[T any](payload []byte, req *StatementRequest[T]) error {
	var probe map[string]json.RawMessage
	if err := decodePayload(payload, &probe); err != nil {
		return err
	}
	if _, ok := probe["current"]; ok {
		return decodePayload(payload, req)
	}
	var current T
	if err := decodePayload(payload, &current); err != nil {
		return err
	}
	*req = StatementRequest[T]{Current: &current}
	return nil
}

func decodePayload(payload []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(payload))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed report payload: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

func exportCacheKey(kind ExportKind, payload []byte) string {
	sum := sha256.Sum256(append([]byte(string(kind)+"\x00"), payload...))
	return "report:csv:" + hex.EncodeToString(sum[:])
}

func (s *ReportService) cachedExport(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log(ctx).Warn("Export cache lookup failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return data, ok
}

func (s *ReportService) storeExport(ctx context.Context, key string, data []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.log(ctx).Warn("Export cache store failed", zap.String("key", key), zap.Error(err))
	}
}
