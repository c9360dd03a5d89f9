package report

import (
	"github.com/erp/reporting/internal/domain/period"
	"github.com/shopspring/decimal"
)

// ComparisonRow pairs a current row with its prior-period counterpart.
// Comparison is nil for rows without amounts on either side.
type ComparisonRow struct {
	Section    string                   `json:"section,omitempty"`
	Label      string                   `json:"label"`
	Type       RowType                  `json:"type"`
	Indent     int                      `json:"indent"`
	Current    *decimal.Decimal         `json:"current,omitempty"`
	Prior      *decimal.Decimal         `json:"prior,omitempty"`
	Comparison *period.ComparisonResult `json:"comparison,omitempty"`
}

type rowKey struct {
	section string
	label   string
	typ     RowType
}

// CompareSections aligns two renderings of the same report, both produced by
// the same builder. Rows follow the current order; rows that exist only in
// the prior rendering are appended in prior order. A side without a matching
// amount counts as zero.
func CompareSections(current, prior []ReportSection) []ComparisonRow {
	priorRows := make(map[rowKey][]ReportRow)
	var priorOrder []rowKey
	for _, s := range prior {
		for _, r := range s.AllRows() {
			k := rowKey{s.Title, r.Label, r.Type}
			if _, seen := priorRows[k]; !seen {
				priorOrder = append(priorOrder, k)
			}
			priorRows[k] = append(priorRows[k], r)
		}
	}

	var out []ComparisonRow
	for _, s := range current {
		for _, r := range s.AllRows() {
			k := rowKey{s.Title, r.Label, r.Type}
			row := ComparisonRow{Section: s.Title, Label: r.Label, Type: r.Type, Indent: r.Indent, Current: r.Amount}
			if queue := priorRows[k]; len(queue) > 0 {
				row.Prior = queue[0].Amount
				priorRows[k] = queue[1:]
			}
			out = append(out, withComparison(row))
		}
	}

	for _, k := range priorOrder {
		for _, r := range priorRows[k] {
			out = append(out, withComparison(ComparisonRow{
				Section: k.section, Label: r.Label, Type: r.Type, Indent: r.Indent, Prior: r.Amount,
			}))
		}
	}
	return out
}

func withComparison(row ComparisonRow) ComparisonRow {
	if row.Current == nil && row.Prior == nil {
		return row
	}
	cur, prev := decimal.Zero, decimal.Zero
	if row.Current != nil {
		cur = *row.Current
	}
	if row.Prior != nil {
		prev = *row.Prior
	}
	res := period.ComputeChange(cur, prev)
	row.Comparison = &res
	return row
}
