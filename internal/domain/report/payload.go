package report

import (
	"github.com/erp/reporting/internal/domain/period"
	"github.com/shopspring/decimal"
)

// LineItem is one account line of a source report. Amounts are non-negative;
// the sign convention is fixed by the report that carries them.
type LineItem struct {
	AccountName string          `json:"accountName" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

// ProfitAndLossReport is the P&L payload supplied by the bookkeeping backend.
type ProfitAndLossReport struct {
	Revenue                []LineItem       `json:"revenue" validate:"dive"`
	CostOfSales            []LineItem       `json:"costOfSales" validate:"dive"`
	OperatingExpenses      []LineItem       `json:"operatingExpenses" validate:"dive"`
	TotalRevenue           *decimal.Decimal `json:"totalRevenue" validate:"required"`
	TotalCostOfSales       *decimal.Decimal `json:"totalCostOfSales" validate:"required"`
	GrossProfit            *decimal.Decimal `json:"grossProfit" validate:"required"`
	TotalOperatingExpenses *decimal.Decimal `json:"totalOperatingExpenses" validate:"required"`
	NetProfit              *decimal.Decimal `json:"netProfit" validate:"required"`
}

// Validate rejects payloads with missing totals or unnamed lines.
func (r *ProfitAndLossReport) Validate() error {
	return validatePayload("profit and loss report", r)
}

// BalanceSheetReport is the balance sheet payload as at a single date.
type BalanceSheetReport struct {
	AsOf                      period.Date      `json:"asOf"`
	CurrentAssets             []LineItem       `json:"currentAssets" validate:"dive"`
	FixedAssets               []LineItem       `json:"fixedAssets" validate:"dive"`
	CurrentLiabilities        []LineItem       `json:"currentLiabilities" validate:"dive"`
	Equity                    []LineItem       `json:"equity" validate:"dive"`
	TotalCurrentAssets        *decimal.Decimal `json:"totalCurrentAssets" validate:"required"`
	TotalFixedAssets          *decimal.Decimal `json:"totalFixedAssets" validate:"required"`
	TotalAssets               *decimal.Decimal `json:"totalAssets" validate:"required"`
	TotalCurrentLiabilities   *decimal.Decimal `json:"totalCurrentLiabilities" validate:"required"`
	TotalLiabilities          *decimal.Decimal `json:"totalLiabilities" validate:"required"`
	TotalEquity               *decimal.Decimal `json:"totalEquity" validate:"required"`
	TotalLiabilitiesAndEquity *decimal.Decimal `json:"totalLiabilitiesAndEquity" validate:"required"`
}

// Validate rejects payloads with missing totals or unnamed lines.
func (r *BalanceSheetReport) Validate() error {
	return validatePayload("balance sheet report", r)
}

// TrialBalanceAccount is one account of a trial balance, debit-positive.
type TrialBalanceAccount struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName" validate:"required"`
	AccountType string          `json:"accountType,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// Label is the code-prefixed account name shown on statement rows.
func (a TrialBalanceAccount) Label() string {
	if a.AccountCode == "" {
		return a.AccountName
	}
	return a.AccountCode + " " + a.AccountName
}

// TrialBalance wraps the account list so it validates like the other payloads.
type TrialBalance struct {
	Accounts []TrialBalanceAccount `json:"accounts" validate:"required,min=1,dive"`
}

// Validate rejects an empty account list or unnamed accounts.
func (tb *TrialBalance) Validate() error {
	return validatePayload("trial balance", tb)
}

// JournalLine is one leg of a journal entry.
type JournalLine struct {
	AccountName string          `json:"accountName" validate:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// JournalEntry is a posted entry whose legs must balance.
type JournalEntry struct {
	Reference string        `json:"reference" validate:"required"`
	Date      period.Date   `json:"date"`
	Lines     []JournalLine `json:"lines" validate:"required,min=2,dive"`
}

// Validate rejects entries with fewer than two legs.
func (e *JournalEntry) Validate() error {
	return validatePayload("journal entry", e)
}

// AgedKind distinguishes receivables (invoices) from payables (bills).
type AgedKind string

const (
	AgedReceivables AgedKind = "receivables"
	AgedPayables    AgedKind = "payables"
)

// Title returns the statement title for the kind.
func (k AgedKind) Title() string {
	if k == AgedPayables {
		return "Aged Payables"
	}
	return "Aged Receivables"
}

// OutstandingItem is an unpaid invoice or bill.
type OutstandingItem struct {
	Reference   string          `json:"reference"`
	ContactName string          `json:"contactName"`
	DueDate     period.Date     `json:"dueDate" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

// AgedReport is the aged receivables/payables payload.
type AgedReport struct {
	Kind  AgedKind          `json:"kind" validate:"required,oneof=receivables payables"`
	AsOf  period.Date       `json:"asOf" validate:"required"`
	Items []OutstandingItem `json:"items" validate:"dive"`
}

// Validate rejects an unknown kind, a missing as-of date or undated items.
func (r *AgedReport) Validate() error {
	return validatePayload("aged report", r)
}

// ForecastPeriod is one bucket of a cash flow forecast.
type ForecastPeriod struct {
	Label    string          `json:"label" validate:"required"`
	Inflows  decimal.Decimal `json:"inflows"`
	Outflows decimal.Decimal `json:"outflows"`
}

// CashFlowForecast projects cash forward from an opening balance.
type CashFlowForecast struct {
	OpeningBalance *decimal.Decimal `json:"openingBalance" validate:"required"`
	Periods        []ForecastPeriod `json:"periods" validate:"required,min=1,dive"`
}

// Validate rejects forecasts without an opening balance or periods.
func (f *CashFlowForecast) Validate() error {
	return validatePayload("cash flow forecast", f)
}
