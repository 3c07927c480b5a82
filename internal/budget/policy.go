// Package budget implements the monthly spending-limit policy.
package budget

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jeswinjohn/ledgerd/internal/ledger"
)

// Policy is the monthly spending limit. When Auto is on the limit is
// derived from income on every totals pass rather than user-set.
type Policy struct {
	MonthlyLimit decimal.Decimal
	Auto         bool
}

// Apply recomputes the auto limit from the current calendar month's
// income and reports whether the stored limit changed. This runs on every
// totals pass: a continuous policy, not a one-time calculation. Manual
// policies pass through untouched.
func (p Policy) Apply(transactions []ledger.Transaction, now time.Time, ratio decimal.Decimal, loc *time.Location) (Policy, bool) {
	if !p.Auto {
		return p, false
	}

	monthIncome := CurrentMonthIncome(transactions, now, loc)
	autoLimit := monthIncome.Mul(ratio).Round(0)
	if autoLimit.Equal(p.MonthlyLimit) {
		return p, false
	}

	p.MonthlyLimit = autoLimit
	return p, true
}

// CurrentMonthIncome sums income transactions dated within the current
// calendar month, inclusive of the month start, in the given location.
func CurrentMonthIncome(transactions []ledger.Transaction, now time.Time, loc *time.Location) decimal.Decimal {
	local := now.In(loc)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	nextMonth := monthStart.AddDate(0, 1, 0)

	income := decimal.Zero
	for _, tx := range transactions {
		if tx.Kind != ledger.TransactionIncome {
			continue
		}
		date := tx.Date.In(loc)
		if date.Before(monthStart) || !date.Before(nextMonth) {
			continue
		}
		income = income.Add(tx.Amount)
	}
	return income
}
