package report

import (
	"net/url"

	"github.com/shopspring/decimal"
)

// RowType classifies a statement row for rendering.
type RowType string

const (
	RowHeader     RowType = "header"
	RowItem       RowType = "item"
	RowTotal      RowType = "total"
	RowGrandTotal RowType = "grand-total"
)

// IsValid checks if the row type is known
func (t RowType) IsValid() bool {
	switch t {
	case RowHeader, RowItem, RowTotal, RowGrandTotal:
		return true
	}
	return false
}

// ReportRow is one line of a rendered statement. A row without an amount is a
// pure grouping header.
type ReportRow struct {
	Label     string           `json:"label"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Type      RowType          `json:"type"`
	Indent    int              `json:"indent"`
	DrillDown bool             `json:"drillDown,omitempty"`
}

// HasAmount reports whether the row carries an amount.
func (r ReportRow) HasAmount() bool { return r.Amount != nil }

// AmountOrZero returns the amount, or zero for headers.
func (r ReportRow) AmountOrZero() decimal.Decimal {
	if r.Amount == nil {
		return decimal.Zero
	}
	return *r.Amount
}

// ReportSection is an ordered group of rows. A non-empty Title is rendered as
// a top-level header row ahead of Rows.
type ReportSection struct {
	Title string      `json:"title,omitempty"`
	Rows  []ReportRow `json:"rows"`
}

// AllRows returns the rows in traversal order, the title header first.
func (s ReportSection) AllRows() []ReportRow {
	out := make([]ReportRow, 0, len(s.Rows)+1)
	if s.Title != "" {
		out = append(out, headerRow(s.Title, 0))
	}
	return append(out, s.Rows...)
}

// FlattenRows returns every row of every section in traversal order.
func FlattenRows(sections []ReportSection) []ReportRow {
	var out []ReportRow
	for _, s := range sections {
		out = append(out, s.AllRows()...)
	}
	return out
}

// DrillDownLink returns base with one account query parameter naming the row,
// or "" for rows that do not drill down.
func DrillDownLink(base string, row ReportRow) (string, error) {
	if !row.DrillDown {
		return "", nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("account", row.Label)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// amount copies d so rows never share storage with the payload they came from.
func amount(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func headerRow(label string, indent int) ReportRow {
	return ReportRow{Label: label, Type: RowHeader, Indent: indent}
}

func itemRow(label string, v decimal.Decimal, indent int) ReportRow {
	return ReportRow{Label: label, Amount: amount(v), Type: RowItem, Indent: indent, DrillDown: true}
}

func totalRow(label string, v decimal.Decimal, indent int) ReportRow {
	return ReportRow{Label: label, Amount: amount(v), Type: RowTotal, Indent: indent}
}

func grandTotalRow(label string, v decimal.Decimal) ReportRow {
	return ReportRow{Label: label, Amount: amount(v), Type: RowGrandTotal}
}

func itemRows(items []LineItem, indent int) []ReportRow {
	rows := make([]ReportRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, itemRow(it.AccountName, it.Amount, indent))
	}
	return rows
}

func sumItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}
