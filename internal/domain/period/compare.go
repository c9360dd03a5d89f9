package period

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CompareMode selects how the comparison range is derived from the current range.
type CompareMode string

const (
	PriorPeriod        CompareMode = "prior-period"
	SamePeriodLastYear CompareMode = "same-period-last-year"
)

// IsValid reports whether m is a known compare mode.
func (m CompareMode) IsValid() bool {
	return m == PriorPeriod || m == SamePeriodLastYear
}

// ParseCompareMode parses a compare mode identifier.
func ParseCompareMode(s string) (CompareMode, error) {
	m := CompareMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("unknown compare mode %q", s)
	}
	return m, nil
}

var hundred = decimal.NewFromInt(100)

// ComputePriorRange returns the range current figures are compared against.
//
// SamePeriodLastYear shifts both ends back one calendar year; Feb 29 becomes
// Feb 28 when the prior year is not a leap year. PriorPeriod returns the range
// of the same inclusive length that ends the day before r.From.
func ComputePriorRange(r DateRange, mode CompareMode) (DateRange, error) {
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	switch mode {
	case SamePeriodLastYear:
		return DateRange{From: r.From.AddYears(-1), To: r.To.AddYears(-1)}, nil
	case PriorPeriod:
		to := r.From.AddDays(-1)
		return DateRange{From: to.AddDays(-(r.Days() - 1)), To: to}, nil
	default:
		return DateRange{}, fmt.Errorf("unknown compare mode %q", mode)
	}
}

// ComparisonResult is the delta between a current and a prior amount.
// ChangePercent is nil exactly when the prior amount is zero.
type ComparisonResult struct {
	Change        decimal.Decimal  `json:"change"`
	ChangePercent *decimal.Decimal `json:"changePercent"`
}

// ComputeChange returns current - prior and the change relative to |prior|,
// so a negative prior does not flip the sign of the percentage.
func ComputeChange(current, prior decimal.Decimal) ComparisonResult {
	change := current.Sub(prior)
	if prior.IsZero() {
		return ComparisonResult{Change: change}
	}
	pct := change.Div(prior.Abs()).Mul(hundred)
	return ComparisonResult{Change: change, ChangePercent: &pct}
}

// HasPercent reports whether a percentage is defined.
func (c ComparisonResult) HasPercent() bool { return c.ChangePercent != nil }

// PercentString renders the percentage with FormatPercent.
func (c ComparisonResult) PercentString() string {
	return FormatPercent(c.ChangePercent)
}

// FormatPercent renders a percentage with one decimal place and a '%' sign,
// or "n/a" when it is undefined.
func FormatPercent(pct *decimal.Decimal) string {
	if pct == nil {
		return "n/a"
	}
	return pct.StringFixed(1) + "%"
}
