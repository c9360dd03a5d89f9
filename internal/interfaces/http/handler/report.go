package handler

import (
	"context"
	"fmt"
	"mime"
	"net/http"

	reportapp "github.com/erp/reporting/internal/application/report"
	"github.com/erp/reporting/internal/domain/period"
	"github.com/erp/reporting/internal/domain/report"
	"github.com/erp/reporting/internal/domain/shared"
	"github.com/erp/reporting/internal/infrastructure/export"
	"github.com/erp/reporting/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// Export targets
const (
	TargetDownload = "download"
	TargetStorage  = "storage"
)

// ReportHandler serves the report and export endpoints
type ReportHandler struct {
	BaseHandler
	service *reportapp.ReportService
	storage reportapp.Emitter
}

// NewReportHandler creates a ReportHandler. storage receives exports requested
// with ?target=storage and may be nil when only downloads are offered.
func NewReportHandler(service *reportapp.ReportService, storage reportapp.Emitter) *ReportHandler {
	return &ReportHandler{service: service, storage: storage}
}

// RegisterRoutes mounts the report endpoints under /reports
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	router.NewDomainGroup("reports", "/reports").
		GET("/presets", h.Presets).
		POST("/periods/prior", h.PriorRange).
		POST("/profit-and-loss", h.ProfitAndLoss).
		POST("/balance-sheet", h.BalanceSheet).
		POST("/trial-balance", h.TrialBalance).
		POST("/journal-entries/verify", h.VerifyJournalEntries).
		POST("/aged", h.Aged).
		POST("/cash-flow-forecast", h.CashFlowForecast).
		POST("/:kind/export", h.Export).
		RegisterRoutes(rg)
}

// PresetsQuery selects the reference date presets are resolved against
type PresetsQuery struct {
	Reference string `form:"reference" binding:"omitempty,datetime=2006-01-02"`
}

// Presets resolves every named period preset
// GET /reports/presets?reference=YYYY-MM-DD
func (h *ReportHandler) Presets(c *gin.Context) {
	var q PresetsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.HandleBindError(c, err)
		return
	}
	var ref period.Date
	if q.Reference != "" {
		d, err := period.ParseDate(q.Reference)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		ref = d
	}
	h.Success(c, h.service.ResolvePresets(ref))
}

// PriorRange computes the comparison range of a period
// POST /reports/periods/prior
func (h *ReportHandler) PriorRange(c *gin.Context) {
	var req reportapp.PriorRangeRequest
	if !h.bind(c, &req) {
		return
	}
	respond(c, h, func(ctx context.Context) (*reportapp.PriorRangeResponse, error) {
		return h.service.PriorRange(ctx, req)
	})
}

// ProfitAndLoss renders a P&L with an optional prior-period comparison
// POST /reports/profit-and-loss
func (h *ReportHandler) ProfitAndLoss(c *gin.Context) {
	var req reportapp.ProfitAndLossRequest
	if !h.bind(c, &req) {
		return
	}
	respond(c, h, func(ctx context.Context) (*reportapp.StatementResult, error) {
		return h.service.ProfitAndLoss(ctx, req)
	})
}

// BalanceSheet renders a balance sheet and its balance check
// POST /reports/balance-sheet
func (h *ReportHandler) BalanceSheet(c *gin.Context) {
	var req reportapp.BalanceSheetRequest
	if !h.bind(c, &req) {
		return
	}
	respond(c, h, func(ctx context.Context) (*reportapp.StatementResult, error) {
		return h.service.BalanceSheet(ctx, req)
	})
}

// TrialBalance renders a trial balance
// POST /reports/trial-balance
func (h *ReportHandler) TrialBalance(c *gin.Context) {
	var tb report.TrialBalance
	if !h.bind(c, &tb) {
		return
	}
	respond(c, h, func(ctx context.Context) (*reportapp.TrialBalanceResult, error) {
		return h.service.TrialBalance(ctx, &tb)
	})
}

// VerifyJournalEntries checks a batch of journal entries
// POST /reports/journal-entries/verify
func (h *ReportHandler) VerifyJournalEntries(c *gin.Context) {
	var req reportapp.JournalEntriesRequest
	if !h.bind(c, &req) {
		return
	}
	respond(c, h, func(ctx context.Context) (*reportapp.JournalEntriesResult, error) {
		return h.service.VerifyJournalEntries(ctx, req)
	})
}

// Aged renders aged receivables or payables
// POST /reports/aged
func (h *ReportHandler) Aged(c *gin.Context) {
	var r report.AgedReport
	if !h.bind(c, &r) {
		return
	}
	respond(c, h, func(ctx context.Context) (*reportapp.AgedResult, error) {
		return h.service.Aged(ctx, &r)
	})
}

// CashFlowForecast renders a cash flow forecast
// POST /reports/cash-flow-forecast
func (h *ReportHandler) CashFlowForecast(c *gin.Context) {
	var f report.CashFlowForecast
	if !h.bind(c, &f) {
		return
	}
	respond(c, h, func(ctx context.Context) (*report.Statement, error) {
		return h.service.CashFlowForecast(ctx, &f)
	})
}

// ExportQuery chooses where an export goes and what it is called
type ExportQuery struct {
	Target   string `form:"target" binding:"omitempty,oneof=download storage"`
	Filename string `form:"filename" binding:"omitempty,max=128,excludesall=/\\"`
}

// Export renders a report as CSV. The body has the shape of the matching
// report endpoint. Downloads answer with the document itself; storage
// exports answer with a description of the stored file.
// POST /reports/:kind/export?target=download|storage&filename=
func (h *ReportHandler) Export(c *gin.Context) {
	kind, err := reportapp.ParseExportKind(c.Param("kind"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var q ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.HandleBindError(c, err)
		return
	}
	payload, err := c.GetRawData()
	if err != nil {
		h.HandleBindError(c, err)
		return
	}

	req := reportapp.ExportRequest{Kind: kind, Payload: payload, Filename: q.Filename}
	if q.Target == TargetStorage {
		if h.storage == nil {
			h.HandleError(c, fmt.Errorf("%w: export target %q is not configured", shared.ErrUnsupported, q.Target))
			return
		}
		res, err := h.service.Export(c.Request.Context(), req, h.storage)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, res)
		return
	}

	if _, err := h.service.Export(c.Request.Context(), req, downloadEmitter{c: c}); err != nil {
		h.HandleError(c, err)
	}
}

// downloadEmitter writes an export as the HTTP response body.
type downloadEmitter struct {
	c *gin.Context
}

func (e downloadEmitter) Emit(_ context.Context, data []byte, filename string) error {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		return fmt.Errorf("invalid download filename %q", filename)
	}
	e.c.Header("Content-Disposition", disposition)
	e.c.Data(http.StatusOK, export.ContentType, data)
	return nil
}

func (h *ReportHandler) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		h.HandleBindError(c, err)
		return false
	}
	return true
}

func respond[T any](c *gin.Context, h *ReportHandler, fn func(context.Context) (T, error)) {
	res, err := fn(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}
