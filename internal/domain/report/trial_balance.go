package report

// BuildTrialBalanceSections lists every account with its net debit-positive
// balance, followed by the debit and credit totals and their difference.
func BuildTrialBalanceSections(tb *TrialBalance) (Statement, error) {
	if err := tb.Validate(); err != nil {
		return Statement{}, err
	}

	accounts := ReportSection{Title: "Trial Balance"}
	for _, a := range tb.Accounts {
		accounts.Rows = append(accounts.Rows, itemRow(a.Label(), a.Debit.Sub(a.Credit), 1))
	}

	debits, credits := trialBalanceTotals(tb.Accounts)
	accounts.Rows = append(accounts.Rows,
		totalRow("Total Debits", debits, 0),
		totalRow("Total Credits", credits, 0),
	)

	return Statement{
		Sections: []ReportSection{
			accounts,
			{Rows: []ReportRow{grandTotalRow("Difference", debits.Sub(credits))}},
		},
	}, nil
}
