package report

// BuildCashFlowForecastSections renders one section per forecast period.
// Each period opens on the previous period's closing balance.
func BuildCashFlowForecastSections(f *CashFlowForecast) (Statement, error) {
	if err := f.Validate(); err != nil {
		return Statement{}, err
	}

	opening := *f.OpeningBalance
	sections := make([]ReportSection, 0, len(f.Periods))
	for _, p := range f.Periods {
		net := p.Inflows.Sub(p.Outflows)
		closing := opening.Add(net)
		sections = append(sections, ReportSection{
			Title: p.Label,
			Rows: []ReportRow{
				{Label: "Opening Balance", Amount: amount(opening), Type: RowItem, Indent: 1},
				itemRow("Cash Inflows", p.Inflows, 1),
				itemRow("Cash Outflows", p.Outflows, 1),
				totalRow("Net Cash Flow", net, 0),
				grandTotalRow("Closing Balance", closing),
			},
		})
		opening = closing
	}
	return Statement{Sections: sections}, nil
}
