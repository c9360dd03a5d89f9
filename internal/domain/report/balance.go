package report

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BalanceEpsilon absorbs rounding from currency arithmetic. It is not a
// business tolerance: any difference of one cent or more is unbalanced.
var BalanceEpsilon = decimal.New(1, -2)

// BalanceCheck is the outcome of comparing two sides of an accounting identity.
// Difference is signed (left - right).
type BalanceCheck struct {
	Balanced   bool            `json:"balanced"`
	Difference decimal.Decimal `json:"difference"`
}

// VerifyBalance compares a and b within BalanceEpsilon.
func VerifyBalance(a, b decimal.Decimal) BalanceCheck {
	return VerifyBalanceWithEpsilon(a, b, BalanceEpsilon)
}

// VerifyBalanceWithEpsilon compares a and b within epsilon: balanced when |a-b| < epsilon.
func VerifyBalanceWithEpsilon(a, b, epsilon decimal.Decimal) BalanceCheck {
	diff := a.Sub(b)
	return BalanceCheck{
		Balanced:   diff.Abs().LessThan(epsilon),
		Difference: diff,
	}
}

// Message renders a directional description such as
// "Assets exceed Liabilities and Equity by 12.50".
func (c BalanceCheck) Message(left, right string) string {
	if c.Balanced {
		return fmt.Sprintf("%s equal %s", left, right)
	}
	if c.Difference.IsPositive() {
		return fmt.Sprintf("%s exceed %s by %s", left, right, c.Difference.StringFixed(2))
	}
	return fmt.Sprintf("%s exceed %s by %s", right, left, c.Difference.Neg().StringFixed(2))
}

// VerifyBalanceSheet checks Assets = Liabilities + Equity.
func VerifyBalanceSheet(r *BalanceSheetReport) (BalanceCheck, error) {
	if err := r.Validate(); err != nil {
		return BalanceCheck{}, err
	}
	return VerifyBalance(*r.TotalAssets, *r.TotalLiabilitiesAndEquity), nil
}

// VerifyTrialBalance checks that total debits equal total credits.
func VerifyTrialBalance(accounts []TrialBalanceAccount) BalanceCheck {
	debits, credits := trialBalanceTotals(accounts)
	return VerifyBalance(debits, credits)
}

// VerifyJournalEntry checks that the debit legs equal the credit legs.
func VerifyJournalEntry(e *JournalEntry) (BalanceCheck, error) {
	if err := e.Validate(); err != nil {
		return BalanceCheck{}, err
	}
	debits, credits := decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return VerifyBalance(debits, credits), nil
}

func trialBalanceTotals(accounts []TrialBalanceAccount) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, a := range accounts {
		debits = debits.Add(a.Debit)
		credits = credits.Add(a.Credit)
	}
	return debits, credits
}
