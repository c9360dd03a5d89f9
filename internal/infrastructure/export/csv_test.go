package export

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/erp/reporting/internal/domain/period"
	"github.com/erp/reporting/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func TestEscapeField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sales", "Sales"},
		{"Sales, domestic", `"Sales, domestic"`},
		{`Account "Primary"`, `"Account ""Primary"""`},
		{"multi\nline", "\"multi\nline\""},
		{"", ""},
		{" leading space", " leading space"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeField(tt.in), tt.in)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1234567.50", FormatAmount(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "0.00", FormatAmount(decimal.Zero))
	assert.Equal(t, "-3.14", FormatAmount(decimal.RequireFromString("-3.14159")))
	assert.Equal(t, "0.30", FormatAmount(decimal.NewFromFloat(0.1).Add(decimal.NewFromFloat(0.2))))
}

func TestSectionsToCSV(t *testing.T) {
	sections := []report.ReportSection{
		{
			Title: "Trading Income",
			Rows: []report.ReportRow{
				{Label: "Sales, domestic", Amount: d("45000"), Type: report.RowItem, Indent: 1},
				{Label: `Account "Primary"`, Amount: d("2000.5"), Type: report.RowItem, Indent: 1},
				{Label: "Total Trading Income", Amount: d("47000.5"), Type: report.RowTotal},
			},
		},
		{Rows: []report.ReportRow{{Label: "Gross Profit", Amount: d("32000"), Type: report.RowGrandTotal}}},
	}

	got := SectionsToCSV(sections)
	want := strings.Join([]string{
		"Label,Amount",
		"Trading Income,",
		`"Sales, domestic",45000.00`,
		`"Account ""Primary""",2000.50`,
		"Total Trading Income,47000.50",
		"Gross Profit,32000.00",
	}, "\n")
	assert.Equal(t, want, got)
	assert.False(t, strings.HasSuffix(got, "\n"))

	t.Run("parses as rectangular csv", func(t *testing.T) {
		records, err := csv.NewReader(strings.NewReader(got)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 6)
		assert.Equal(t, []string{"Sales, domestic", "45000.00"}, records[2])
		assert.Equal(t, []string{`Account "Primary"`, "2000.50"}, records[3])
	})

	t.Run("no sections yields header only", func(t *testing.T) {
		assert.Equal(t, "Label,Amount", SectionsToCSV(nil))
	})
}

func TestSectionsToCSVFromBuilder(t *testing.T) {
	st, err := report.BuildProfitAndLossSections(&report.ProfitAndLossReport{
		Revenue:                []report.LineItem{{AccountName: "Sales", Amount: *d("45000")}, {AccountName: "Other Revenue", Amount: *d("2000")}},
		CostOfSales:            []report.LineItem{{AccountName: "COGS", Amount: *d("15000")}},
		TotalRevenue:           d("47000"),
		TotalCostOfSales:       d("15000"),
		GrossProfit:            d("32000"),
		TotalOperatingExpenses: d("0"),
		NetProfit:              d("32000"),
	})
	require.NoError(t, err)

	lines := strings.Split(SectionsToCSV(st.Sections), "\n")
	assert.Equal(t, []string{
		"Label,Amount",
		"Trading Income,",
		"Sales,45000.00",
		"Other Revenue,2000.00",
		"Total Trading Income,47000.00",
		"Cost of Sales,",
		"COGS,15000.00",
		"Total Cost of Sales,15000.00",
		"Gross Profit,32000.00",
		"Operating Expenses,",
		"Total Operating Expenses,0.00",
		"Net Profit,32000.00",
	}, lines)
}

func TestAgedBucketsToCSV(t *testing.T) {
	ref := period.MustParseDate("2026-03-31")
	summary := report.Classify([]report.OutstandingItem{
		{DueDate: ref.AddDays(10), Amount: *d("100")},
		{DueDate: ref.AddDays(-45), Amount: *d("250.5")},
	}, ref)

	got := AgedBucketsToCSV(summary.Buckets, summary.Total)
	assert.Equal(t, strings.Join([]string{
		"Bucket,Amount,Count",
		"Current,100.00,1",
		"1-30,0.00,0",
		"31-60,250.50,1",
		"61-90,0.00,0",
		"90+,0.00,0",
		"Total,350.50,",
	}, "\n"), got)

	records, err := csv.NewReader(strings.NewReader(got)).ReadAll()
	require.NoError(t, err)
	for _, rec := range records {
		assert.Len(t, rec, 3)
	}
}

func TestComparisonToCSV(t *testing.T) {
	change := decimal.RequireFromString("5000")
	pct := decimal.RequireFromString("12.5")
	rows := []report.ComparisonRow{
		{Label: "Trading Income", Type: report.RowHeader},
		{Label: "Sales", Current: d("45000"), Prior: d("40000"), Comparison: &period.ComparisonResult{Change: change, ChangePercent: &pct}},
		{Label: "Other Revenue", Current: d("2000"), Comparison: &period.ComparisonResult{Change: *d("2000")}},
	}

	assert.Equal(t, strings.Join([]string{
		"Label,Current,Prior,Change,Change %",
		"Trading Income,,,,",
		"Sales,45000.00,40000.00,5000.00,12.5%",
		"Other Revenue,2000.00,,2000.00,n/a",
	}, "\n"), ComparisonToCSV(rows))
}

func TestComparisonToCSV_PercentMatchesComparison(t *testing.T) {
	res := period.ComputeChange(decimal.RequireFromString("110"), decimal.RequireFromString("-80"))
	rows := []report.ComparisonRow{{Label: "Net Profit", Current: d("110"), Prior: d("-80"), Comparison: &res}}

	lines := strings.Split(ComparisonToCSV(rows), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Net Profit,110.00,-80.00,190.00,237.5%", lines[1])
	assert.True(t, strings.HasSuffix(lines[1], ","+res.PercentString()))
}
