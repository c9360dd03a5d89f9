package report

import "github.com/shopspring/decimal"

// Warning codes raised by the balance sheet builder.
const (
	WarnCurrentAssetsTotal      = "CURRENT_ASSETS_TOTAL_MISMATCH"
	WarnFixedAssetsTotal        = "FIXED_ASSETS_TOTAL_MISMATCH"
	WarnAssetsTotal             = "ASSETS_TOTAL_MISMATCH"
	WarnCurrentLiabilitiesTotal = "CURRENT_LIABILITIES_TOTAL_MISMATCH"
	WarnEquityTotal             = "EQUITY_TOTAL_MISMATCH"
	WarnLiabilitiesAndEquity    = "LIABILITIES_AND_EQUITY_TOTAL_MISMATCH"
)

// BuildBalanceSheetSections renders the Assets, Liabilities and Equity
// sections followed by a standalone Total Liabilities and Equity row.
//
// Subgroup headers sit at indent 1 with their lines at indent 2; equity lines
// hang directly off the top-level header at indent 1. All totals come from the
// payload and disagreements with the lines are reported as warnings. Whether
// the sheet balances is a separate question answered by VerifyBalanceSheet.
func BuildBalanceSheetSections(r *BalanceSheetReport) (Statement, error) {
	if err := r.Validate(); err != nil {
		return Statement{}, err
	}

	var in integrity
	in.check(WarnCurrentAssetsTotal, "Total Current Assets", *r.TotalCurrentAssets, sumItems(r.CurrentAssets))
	in.check(WarnFixedAssetsTotal, "Total Fixed Assets", *r.TotalFixedAssets, sumItems(r.FixedAssets))
	in.check(WarnAssetsTotal, "Total Assets", *r.TotalAssets, r.TotalCurrentAssets.Add(*r.TotalFixedAssets))
	in.check(WarnCurrentLiabilitiesTotal, "Total Current Liabilities", *r.TotalCurrentLiabilities, sumItems(r.CurrentLiabilities))
	in.check(WarnEquityTotal, "Total Equity", *r.TotalEquity, sumItems(r.Equity))
	in.check(WarnLiabilitiesAndEquity, "Total Liabilities and Equity", *r.TotalLiabilitiesAndEquity, r.TotalLiabilities.Add(*r.TotalEquity))

	assets := ReportSection{Title: "Assets"}
	assets.Rows = append(assets.Rows, subgroup("Current Assets", r.CurrentAssets, "Total Current Assets", *r.TotalCurrentAssets)...)
	assets.Rows = append(assets.Rows, subgroup("Fixed Assets", r.FixedAssets, "Total Fixed Assets", *r.TotalFixedAssets)...)
	assets.Rows = append(assets.Rows, grandTotalRow("Total Assets", *r.TotalAssets))

	liabilities := ReportSection{Title: "Liabilities"}
	liabilities.Rows = append(liabilities.Rows, subgroup("Current Liabilities", r.CurrentLiabilities, "Total Current Liabilities", *r.TotalCurrentLiabilities)...)
	liabilities.Rows = append(liabilities.Rows, grandTotalRow("Total Liabilities", *r.TotalLiabilities))

	equity := ReportSection{
		Title: "Equity",
		Rows:  append(itemRows(r.Equity, 1), grandTotalRow("Total Equity", *r.TotalEquity)),
	}

	closing := ReportSection{
		Rows: []ReportRow{grandTotalRow("Total Liabilities and Equity", *r.TotalLiabilitiesAndEquity)},
	}

	return Statement{
		Sections: []ReportSection{assets, liabilities, equity, closing},
		Warnings: in.warnings,
	}, nil
}

// subgroup renders an indented header, its lines and a subtotal.
func subgroup(title string, items []LineItem, totalLabel string, total decimal.Decimal) []ReportRow {
	rows := make([]ReportRow, 0, len(items)+2)
	rows = append(rows, headerRow(title, 1))
	rows = append(rows, itemRows(items, 2)...)
	return append(rows, totalRow(totalLabel, total, 1))
}
