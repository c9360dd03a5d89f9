package report

import (
	"errors"
	"testing"

	"github.com/erp/reporting/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBalanceSheet() *BalanceSheetReport {
	return &BalanceSheetReport{
		CurrentAssets:             items("Cash", "12000", "Accounts Receivable", "8000"),
		FixedAssets:               items("Equipment", "30000"),
		CurrentLiabilities:        items("Accounts Payable", "5000", "GST Payable", "1000"),
		Equity:                    items("Owner Capital", "40000", "Retained Earnings", "4000"),
		TotalCurrentAssets:        decp("20000"),
		TotalFixedAssets:          decp("30000"),
		TotalAssets:               decp("50000"),
		TotalCurrentLiabilities:   decp("6000"),
		TotalLiabilities:          decp("6000"),
		TotalEquity:               decp("44000"),
		TotalLiabilitiesAndEquity: decp("50000"),
	}
}

type rowShape struct {
	Label  string
	Type   RowType
	Indent int
}

func shapes(rows []ReportRow) []rowShape {
	out := make([]rowShape, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowShape{r.Label, r.Type, r.Indent})
	}
	return out
}

func TestBuildBalanceSheetSections(t *testing.T) {
	t.Run("layout and indentation", func(t *testing.T) {
		st, err := BuildBalanceSheetSections(sampleBalanceSheet())
		require.NoError(t, err)
		require.Len(t, st.Sections, 4)
		assert.Empty(t, st.Warnings)

		want := []rowShape{
			{"Assets", RowHeader, 0},
			{"Current Assets", RowHeader, 1},
			{"Cash", RowItem, 2},
			{"Accounts Receivable", RowItem, 2},
			{"Total Current Assets", RowTotal, 1},
			{"Fixed Assets", RowHeader, 1},
			{"Equipment", RowItem, 2},
			{"Total Fixed Assets", RowTotal, 1},
			{"Total Assets", RowGrandTotal, 0},
			{"Liabilities", RowHeader, 0},
			{"Current Liabilities", RowHeader, 1},
			{"Accounts Payable", RowItem, 2},
			{"GST Payable", RowItem, 2},
			{"Total Current Liabilities", RowTotal, 1},
			{"Total Liabilities", RowGrandTotal, 0},
			{"Equity", RowHeader, 0},
			{"Owner Capital", RowItem, 1},
			{"Retained Earnings", RowItem, 1},
			{"Total Equity", RowGrandTotal, 0},
			{"Total Liabilities and Equity", RowGrandTotal, 0},
		}
		assert.Equal(t, want, shapes(st.Rows()))
	})

	t.Run("headers carry no amount", func(t *testing.T) {
		st, err := BuildBalanceSheetSections(sampleBalanceSheet())
		require.NoError(t, err)
		for _, row := range st.Rows() {
			assert.Equal(t, row.Type != RowHeader, row.HasAmount(), row.Label)
		}
	})

	t.Run("totals come from the payload", func(t *testing.T) {
		st, err := BuildBalanceSheetSections(sampleBalanceSheet())
		require.NoError(t, err)
		assets := st.Sections[0].Rows
		assertAmount(t, "50000", assets[len(assets)-1].Amount)
		assertAmount(t, "50000", st.Sections[3].Rows[0].Amount)
	})

	t.Run("subtotal mismatch warns", func(t *testing.T) {
		r := sampleBalanceSheet()
		r.TotalEquity = decp("45000")
		st, err := BuildBalanceSheetSections(r)
		require.NoError(t, err)

		codes := make([]string, 0, len(st.Warnings))
		for _, w := range st.Warnings {
			codes = append(codes, w.Code)
		}
		assert.Equal(t, []string{WarnEquityTotal, WarnLiabilitiesAndEquity}, codes)
	})

	t.Run("missing totalAssets fails fast", func(t *testing.T) {
		r := sampleBalanceSheet()
		r.TotalAssets = nil
		_, err := BuildBalanceSheetSections(r)

		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		require.Len(t, verr.Fields, 1)
		assert.Equal(t, "totalAssets", verr.Fields[0].Field)
		assert.Equal(t, "required", verr.Fields[0].Rule)
	})

	t.Run("empty subgroups still render header and subtotal", func(t *testing.T) {
		r := sampleBalanceSheet()
		r.FixedAssets = nil
		r.TotalFixedAssets = decp("0")
		r.TotalAssets = decp("20000")
		r.TotalLiabilitiesAndEquity = decp("20000")
		r.Equity = items("Owner Capital", "14000")
		r.TotalEquity = decp("14000")

		st, err := BuildBalanceSheetSections(r)
		require.NoError(t, err)
		assert.Empty(t, st.Warnings)
		assert.Contains(t, shapes(st.Sections[0].Rows), rowShape{"Fixed Assets", RowHeader, 1})
		assert.Contains(t, shapes(st.Sections[0].Rows), rowShape{"Total Fixed Assets", RowTotal, 1})
	})
}
