package report

// Warning codes raised by the profit and loss builder.
const (
	WarnRevenueTotal      = "REVENUE_TOTAL_MISMATCH"
	WarnCostOfSalesTotal  = "COST_OF_SALES_TOTAL_MISMATCH"
	WarnOperatingExpenses = "OPERATING_EXPENSES_TOTAL_MISMATCH"
	WarnGrossProfit       = "GROSS_PROFIT_MISMATCH"
	WarnNetProfit         = "NET_PROFIT_MISMATCH"
)

// BuildProfitAndLossSections renders a P&L into five sections: Trading Income,
// Cost of Sales, Gross Profit, Operating Expenses and Net Profit.
//
// Section totals come from the payload. Gross profit is totalRevenue minus
// totalCostOfSales and net profit is gross profit minus operating expenses;
// when either disagrees with the payload a warning is attached.
func BuildProfitAndLossSections(r *ProfitAndLossReport) (Statement, error) {
	if err := r.Validate(); err != nil {
		return Statement{}, err
	}

	var in integrity
	in.check(WarnRevenueTotal, "Total Trading Income", *r.TotalRevenue, sumItems(r.Revenue))
	in.check(WarnCostOfSalesTotal, "Total Cost of Sales", *r.TotalCostOfSales, sumItems(r.CostOfSales))
	in.check(WarnOperatingExpenses, "Total Operating Expenses", *r.TotalOperatingExpenses, sumItems(r.OperatingExpenses))

	grossProfit := r.TotalRevenue.Sub(*r.TotalCostOfSales)
	in.check(WarnGrossProfit, "Gross Profit", *r.GrossProfit, grossProfit)

	netProfit := grossProfit.Sub(*r.TotalOperatingExpenses)
	in.check(WarnNetProfit, "Net Profit", *r.NetProfit, netProfit)

	sections := []ReportSection{
		{
			Title: "Trading Income",
			Rows:  append(itemRows(r.Revenue, 1), totalRow("Total Trading Income", *r.TotalRevenue, 0)),
		},
		{
			Title: "Cost of Sales",
			Rows:  append(itemRows(r.CostOfSales, 1), totalRow("Total Cost of Sales", *r.TotalCostOfSales, 0)),
		},
		{
			Rows: []ReportRow{grandTotalRow("Gross Profit", grossProfit)},
		},
		{
			Title: "Operating Expenses",
			Rows:  append(itemRows(r.OperatingExpenses, 1), totalRow("Total Operating Expenses", *r.TotalOperatingExpenses, 0)),
		},
		{
			Rows: []ReportRow{grandTotalRow("Net Profit", netProfit)},
		},
	}

	return Statement{Sections: sections, Warnings: in.warnings}, nil
}
