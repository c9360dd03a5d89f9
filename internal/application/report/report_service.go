package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/reporting/internal/domain/period"
	"github.com/erp/reporting/internal/domain/report"
	"github.com/erp/reporting/internal/domain/shared"
	"github.com/erp/reporting/internal/infrastructure/logger"
	"github.com/erp/reporting/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultCacheTTL is used when a cache is configured without a TTL.
const DefaultCacheTTL = 10 * time.Minute

// ReportService is the boundary between the transport adapters and the
// report engine. It validates payloads, runs the current and prior passes
// and hands rendered exports to an Emitter.
type ReportService struct {
	logger   *zap.Logger
	cache    ExportCache
	cacheTTL time.Duration
	location *time.Location
	now      func() time.Time
	metrics  *telemetry.ReportMetrics
}

// Option configures a ReportService.
type Option func(*ReportService)

// WithExportCache enables caching of rendered CSV documents.
func WithExportCache(cache ExportCache, ttl time.Duration) Option {
	return func(s *ReportService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithLocation sets the time zone used to determine today's date.
func WithLocation(loc *time.Location) Option {
	return func(s *ReportService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithMetrics records build and export metrics.
func WithMetrics(m *telemetry.ReportMetrics) Option {
	return func(s *ReportService) {
		s.metrics = m
	}
}

// WithClock overrides the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *ReportService) {
		s.now = now
	}
}

// NewReportService creates a new ReportService
func NewReportService(logger *zap.Logger, opts ...Option) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReportService{
		logger:   logger,
		location: time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache != nil && s.cacheTTL <= 0 {
		s.cacheTTL = DefaultCacheTTL
	}
	return s
}

// Today returns the current calendar date in the service's time zone.
func (s *ReportService) Today() period.Date {
	return period.DateOf(s.now().In(s.location))
}

// ===================== Periods =====================

// PresetRange is a preset resolved against a reference date.
type PresetRange struct {
	Preset period.Preset    `json:"preset"`
	Range  period.DateRange `json:"range"`
}

// ResolvePresets resolves every named preset against ref, or today when ref is zero.
func (s *ReportService) ResolvePresets(ref period.Date) []PresetRange {
	if ref.IsZero() {
		ref = s.Today()
	}
	out := make([]PresetRange, 0, len(period.Presets()))
	for _, p := range period.Presets() {
		r, err := period.ResolvePreset(p, ref)
		if err != nil {
			continue
		}
		out = append(out, PresetRange{Preset: p, Range: r})
	}
	return out
}

// PriorRangeRequest asks for the comparison range of a period.
type PriorRangeRequest struct {
	Range       period.DateRange   `json:"range"`
	CompareMode period.CompareMode `json:"compareMode"`
}

// PriorRangeResponse is the resolved comparison range.
type PriorRangeResponse struct {
	Range       period.DateRange   `json:"range"`
	Preset      period.Preset      `json:"preset"`
	CompareMode period.CompareMode `json:"compareMode"`
	PriorRange  period.DateRange   `json:"priorRange"`
	Days        int                `json:"days"`
	PriorDays   int                `json:"priorDays"`
}

// PriorRange computes the comparison range for a period.
func (s *ReportService) PriorRange(ctx context.Context, req PriorRangeRequest) (_ *PriorRangeResponse, err error) {
	_, done := s.track(ctx, "prior-range")
	defer func() { done(err) }()

	if err := checkRange("range", req.Range); err != nil {
		return nil, err
	}
	if !req.CompareMode.IsValid() {
		return nil, invalidCompareMode("prior range request", req.CompareMode)
	}
	prior, err := period.ComputePriorRange(req.Range, req.CompareMode)
	if err != nil {
		return nil, fmt.Errorf("compute prior range: %w", err)
	}
	return &PriorRangeResponse{
		Range:       req.Range,
		Preset:      period.DetectPresetAt(req.Range, s.Today()),
		CompareMode: req.CompareMode,
		PriorRange:  prior,
		Days:        req.Range.Days(),
		PriorDays:   prior.Days(),
	}, nil
}

// ===================== Statements =====================

// StatementRequest carries the current payload of a report and, optionally,
// the payload of the period it is compared against.
type StatementRequest[T any] struct {
	Range       *period.DateRange  `json:"range,omitempty"`
	CompareMode period.CompareMode `json:"compareMode,omitempty"`
	Current     *T                 `json:"current"`
	Prior       *T                 `json:"prior,omitempty"`
}

// ProfitAndLossRequest is a P&L statement request.
type ProfitAndLossRequest = StatementRequest[report.ProfitAndLossReport]

// BalanceSheetRequest is a balance sheet statement request.
type BalanceSheetRequest = StatementRequest[report.BalanceSheetReport]

// BalanceResult is a balance check with its directional message.
type BalanceResult struct {
	report.BalanceCheck
	Message string `json:"message"`
}

// StatementResult is a rendered statement with its optional comparison.
type StatementResult struct {
	Range       *period.DateRange      `json:"range,omitempty"`
	Preset      period.Preset          `json:"preset,omitempty"`
	CompareMode period.CompareMode     `json:"compareMode,omitempty"`
	PriorRange  *period.DateRange      `json:"priorRange,omitempty"`
	Current     report.Statement       `json:"current"`
	Prior       *report.Statement      `json:"prior,omitempty"`
	Comparison  []report.ComparisonRow `json:"comparison,omitempty"`
	Balance     *BalanceResult         `json:"balance,omitempty"`
}

// ProfitAndLoss renders a P&L and compares it with the prior payload when one is given.
func (s *ReportService) ProfitAndLoss(ctx context.Context, req ProfitAndLossRequest) (_ *StatementResult, err error) {
	ctx, done := s.track(ctx, string(ExportProfitAndLoss))
	defer func() { done(err) }()

	return buildStatement(ctx, s, ExportProfitAndLoss, "profit and loss request", req, report.BuildProfitAndLossSections)
}

// BalanceSheet renders a balance sheet and checks Assets = Liabilities + Equity.
func (s *ReportService) BalanceSheet(ctx context.Context, req BalanceSheetRequest) (_ *StatementResult, err error) {
	ctx, done := s.track(ctx, string(ExportBalanceSheet))
	defer func() { done(err) }()

	res, err := buildStatement(ctx, s, ExportBalanceSheet, "balance sheet request", req, report.BuildBalanceSheetSections)
	if err != nil {
		return nil, err
	}
	check, err := report.VerifyBalanceSheet(req.Current)
	if err != nil {
		return nil, err
	}
	res.Balance = s.balanceResult(ctx, ExportBalanceSheet, check, "Assets", "Liabilities and Equity")
	return res, nil
}

func buildStatement[T any](
	ctx context.Context,
	s *ReportService,
	kind ExportKind,
	subject string,
	req StatementRequest[T],
	build func(*T) (report.Statement, error),
) (*StatementResult, error) {
	if req.Current == nil {
		return nil, shared.NewValidationError(subject, shared.FieldError{Field: "current", Rule: "required", Message: "is required"})
	}

	res := &StatementResult{}
	if req.Range != nil {
		if err := checkRange("range", *req.Range); err != nil {
			return nil, err
		}
		current := *req.Range
		res.Range = &current
		res.Preset = period.DetectPresetAt(current, s.Today())
	}
	if req.CompareMode != "" {
		if !req.CompareMode.IsValid() {
			return nil, invalidCompareMode(subject, req.CompareMode)
		}
		if res.Range == nil {
			return nil, shared.NewValidationError(subject, shared.FieldError{Field: "range", Rule: "required_with", Message: "is required with compareMode"})
		}
		prior, err := period.ComputePriorRange(*res.Range, req.CompareMode)
		if err != nil {
			return nil, fmt.Errorf("compute prior range: %w", err)
		}
		res.CompareMode = req.CompareMode
		res.PriorRange = &prior
	}

	// Both passes go through the same builder and share no state.
	var (
		g     errgroup.Group
		prior report.Statement
	)
	g.Go(func() error {
		st, err := build(req.Current)
		if err != nil {
			return nestValidation("current", err)
		}
		res.Current = st
		return nil
	})
	telemetry.SetAttributes(trace.SpanFromContext(ctx),
		telemetry.SpanAttrHasPrior, req.Prior != nil,
		telemetry.SpanAttrCompareMode, string(req.CompareMode),
	)
	if req.Prior != nil {
		g.Go(func() error {
			st, err := build(req.Prior)
			if err != nil {
				return nestValidation("prior", err)
			}
			prior = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logWarnings(ctx, kind, "current", res.Current.Warnings)
	if req.Prior != nil {
		s.logWarnings(ctx, kind, "prior", prior.Warnings)
		res.Prior = &prior
		res.Comparison = report.CompareSections(res.Current.Sections, prior.Sections)
	}
	return res, nil
}

// ===================== Ledger checks =====================

// TrialBalanceResult is a rendered trial balance with its debit/credit check.
type TrialBalanceResult struct {
	report.Statement
	Balance BalanceResult `json:"balance"`
}

// TrialBalance renders a trial balance and checks total debits against total credits.
func (s *ReportService) TrialBalance(ctx context.Context, tb *report.TrialBalance) (_ *TrialBalanceResult, err error) {
	ctx, done := s.track(ctx, string(ExportTrialBalance))
	defer func() { done(err) }()

	st, err := report.BuildTrialBalanceSections(tb)
	if err != nil {
		return nil, err
	}
	check := report.VerifyTrialBalance(tb.Accounts)
	return &TrialBalanceResult{
		Statement: st,
		Balance:   *s.balanceResult(ctx, ExportTrialBalance, check, "Debits", "Credits"),
	}, nil
}

// journalEntriesKind labels journal entry checks in logs and metrics.
const journalEntriesKind ExportKind = "journal-entries"

// JournalEntriesRequest is a batch of journal entries to verify.
type JournalEntriesRequest struct {
	Entries []report.JournalEntry `json:"entries"`
}

// JournalEntryCheck is the balance check of one journal entry.
type JournalEntryCheck struct {
	Reference string `json:"reference"`
	BalanceResult
}

// JournalEntriesResult lists every entry check and how many failed.
type JournalEntriesResult struct {
	Entries    []JournalEntryCheck `json:"entries"`
	Unbalanced int                 `json:"unbalanced"`
}

// VerifyJournalEntries checks each entry's debit legs against its credit legs.
// An invalid entry rejects the whole batch.
func (s *ReportService) VerifyJournalEntries(ctx context.Context, req JournalEntriesRequest) (_ *JournalEntriesResult, err error) {
	ctx, done := s.track(ctx, string(journalEntriesKind))
	defer func() { done(err) }()

	if len(req.Entries) == 0 {
		return nil, shared.NewValidationError("journal entries request", shared.FieldError{Field: "entries", Rule: "min", Message: "must have at least 1 entries"})
	}
	res := &JournalEntriesResult{Entries: make([]JournalEntryCheck, 0, len(req.Entries))}
	for i := range req.Entries {
		e := &req.Entries[i]
		check, err := report.VerifyJournalEntry(e)
		if err != nil {
			return nil, nestValidation(fmt.Sprintf("entries[%d]", i), err)
		}
		result := s.balanceResult(ctx, journalEntriesKind, check, "Debits", "Credits", zap.String("reference", e.Reference))
		if !check.Balanced {
			res.Unbalanced++
		}
		res.Entries = append(res.Entries, JournalEntryCheck{Reference: e.Reference, BalanceResult: *result})
	}
	return res, nil
}

// ===================== Aging and forecasts =====================

// AgedResult is an aged receivables or payables report.
type AgedResult struct {
	Kind      report.AgedKind       `json:"kind"`
	AsOf      period.Date           `json:"asOf"`
	Buckets   []report.AgedBucket   `json:"buckets"`
	Total     decimal.Decimal       `json:"total"`
	ByContact []report.ContactAging `json:"byContact"`
	Statement report.Statement      `json:"statement"`
}

// Aged classifies outstanding items into aging buckets as of the report date.
func (s *ReportService) Aged(ctx context.Context, r *report.AgedReport) (_ *AgedResult, err error) {
	_, done := s.track(ctx, string(ExportAged))
	defer func() { done(err) }()

	summary, err := report.ClassifyReport(r)
	if err != nil {
		return nil, err
	}
	return &AgedResult{
		Kind:      r.Kind,
		AsOf:      r.AsOf,
		Buckets:   summary.Buckets,
		Total:     summary.Total,
		ByContact: report.ClassifyByContact(r.Items, r.AsOf),
		Statement: report.BuildAgedSections(r.Kind, summary),
	}, nil
}

// CashFlowForecast renders a forecast with running closing balances.
func (s *ReportService) CashFlowForecast(ctx context.Context, f *report.CashFlowForecast) (_ *report.Statement, err error) {
	_, done := s.track(ctx, string(ExportCashFlowForecast))
	defer func() { done(err) }()

	st, err := report.BuildCashFlowForecastSections(f)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// ===================== helpers =====================

// log returns the request-scoped logger when the caller attached one.
func (s *ReportService) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, s.logger)
}

// track starts a span for a report operation. The returned func ends it and
// records the outcome.
func (s *ReportService) track(ctx context.Context, kind string) (context.Context, func(error)) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", strings.ReplaceAll(kind, "-", "_"),
		telemetry.WithAttribute(telemetry.SpanAttrReportKind, kind),
	)
	start := time.Now()
	return ctx, func(err error) {
		telemetry.RecordError(span, err)
		s.metrics.RecordBuild(ctx, kind, time.Since(start), err)
		span.End()
	}
}

func (s *ReportService) balanceResult(ctx context.Context, kind ExportKind, check report.BalanceCheck, left, right string, fields ...zap.Field) *BalanceResult {
	msg := check.Message(left, right)
	if !check.Balanced {
		s.log(ctx).Warn("Unbalanced report", append([]zap.Field{
			zap.String("report", string(kind)),
			zap.String("difference", check.Difference.StringFixed(2)),
			zap.String("message", msg),
		}, fields...)...)
		s.metrics.RecordUnbalanced(ctx, string(kind))
	}
	telemetry.SetAttributes(trace.SpanFromContext(ctx), telemetry.SpanAttrBalanced, check.Balanced)
	return &BalanceResult{BalanceCheck: check, Message: msg}
}

func (s *ReportService) logWarnings(ctx context.Context, kind ExportKind, pass string, warnings []report.IntegrityWarning) {
	for _, w := range warnings {
		s.metrics.RecordWarning(ctx, string(kind), w.Code)
		s.log(ctx).Warn("Report integrity warning",
			zap.String("report", string(kind)),
			zap.String("pass", pass),
			zap.String("code", w.Code),
			zap.String("reported", w.Reported.StringFixed(2)),
			zap.String("computed", w.Computed.StringFixed(2)),
		)
	}
}

func checkRange(field string, r period.DateRange) error {
	if err := r.Validate(); err != nil {
		return shared.NewValidationError("date range", shared.FieldError{Field: field, Rule: "range", Message: err.Error()})
	}
	return nil
}

func invalidCompareMode(subject string, m period.CompareMode) error {
	return shared.NewValidationError(subject, shared.FieldError{
		Field:   "compareMode",
		Rule:    "oneof",
		Message: fmt.Sprintf("must be one of: %s %s, got %q", period.PriorPeriod, period.SamePeriodLastYear, m),
	})
}

// nestValidation prefixes the field paths of a validation error so they
// point into the enclosing request.
func nestValidation(prefix string, err error) error {
	var verr *shared.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	nested := shared.NewValidationError(verr.Subject)
	for _, f := range verr.Fields {
		field := prefix
		if f.Field != "" {
			field = prefix + "." + f.Field
		}
		nested.Add(field, f.Rule, f.Message)
	}
	return nested
}
