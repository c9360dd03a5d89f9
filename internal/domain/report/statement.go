package report

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IntegrityWarning flags a payload total that disagrees with the figure
// derived from its own lines. The derived figure is what gets rendered.
type IntegrityWarning struct {
	Code       string          `json:"code"`
	Message    string          `json:"message"`
	Reported   decimal.Decimal `json:"reported"`
	Computed   decimal.Decimal `json:"computed"`
	Difference decimal.Decimal `json:"difference"`
}

// Statement is the rendered form of one report.
type Statement struct {
	Sections []ReportSection    `json:"sections"`
	Warnings []IntegrityWarning `json:"warnings,omitempty"`
}

// Rows returns every row in traversal order.
func (s Statement) Rows() []ReportRow { return FlattenRows(s.Sections) }

// HasWarnings reports whether any integrity check failed.
func (s Statement) HasWarnings() bool { return len(s.Warnings) > 0 }

// integrity collects warnings while a builder runs.
type integrity struct {
	warnings []IntegrityWarning
}

func (in *integrity) check(code, label string, reported, computed decimal.Decimal) {
	c := VerifyBalance(reported, computed)
	if c.Balanced {
		return
	}
	in.warnings = append(in.warnings, IntegrityWarning{
		Code:       code,
		Message:    fmt.Sprintf("%s: reported %s, computed %s", label, reported.StringFixed(2), computed.StringFixed(2)),
		Reported:   reported,
		Computed:   computed,
		Difference: c.Difference,
	})
}
