// Package savings implements the recurring-deposit schedule and the
// savings lifecycle rules.
package savings

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jeswinjohn/ledgerd/internal/ledger"
)

// ErrSavingClosed rejects any mutation of a record that has reached its
// terminal closed state.
var ErrSavingClosed = errors.New("saving is closed")

// ErrNotRecurring rejects schedule operations on one-time savings.
var ErrNotRecurring = errors.New("saving is not a recurring deposit")

var (
	two    = decimal.NewFromInt(2)
	twelve = decimal.NewFromInt(12)
)

// Projection is the derived schedule state of a recurring-deposit plan.
type Projection struct {
	PaidMonths       int
	Remaining        int
	NextDue          time.Time
	MaturityEstimate decimal.Decimal
}

// EstimateMaturity computes the maturity value of a plan using
// average-balance simple interest, rounded to a whole amount:
// principal = monthly × tenure, interest = (principal/2) × rate × years.
// annualRate is configured, not a property of the plan.
func EstimateMaturity(monthly decimal.Decimal, tenureMonths int, annualRate decimal.Decimal) decimal.Decimal {
	months := decimal.NewFromInt(int64(tenureMonths))
	principal := monthly.Mul(months)
	avgBalance := principal.Div(two)
	years := months.Div(twelve)
	interest := avgBalance.Mul(annualRate).Mul(years)
	return principal.Add(interest).Round(0)
}

// ProjectRD derives the schedule view of a recurring-deposit plan.
// The paid-entry count is taken at face value: deposits are not validated
// against tenure, so Remaining floors at zero when a plan is overpaid.
func ProjectRD(rec ledger.SavingsRecord, annualRate decimal.Decimal) (Projection, error) {
	if !rec.IsRecurring() {
		return Projection{}, fmt.Errorf("%w: %s", ErrNotRecurring, rec.ID)
	}

	paidMonths := len(rec.PaidEntries)
	remaining := rec.TenureMonths - paidMonths
	if remaining < 0 {
		remaining = 0
	}

	return Projection{
		PaidMonths:       paidMonths,
		Remaining:        remaining,
		NextDue:          rec.StartDate.AddDate(0, paidMonths, 0),
		MaturityEstimate: EstimateMaturity(rec.MonthlyAmount, rec.TenureMonths, annualRate),
	}, nil
}

// AddDeposit appends a payment entry to a plan and bumps its running
// amount. Deposits beyond the tenure or off the due date are accepted;
// only the closed state is a hard gate.
func AddDeposit(rec *ledger.SavingsRecord, amount decimal.Decimal, date time.Time) error {
	if rec.IsClosed() {
		return fmt.Errorf("%w: %s", ErrSavingClosed, rec.ID)
	}
	if !rec.IsRecurring() {
		return fmt.Errorf("%w: %s", ErrNotRecurring, rec.ID)
	}

	rec.PaidEntries = append(rec.PaidEntries, ledger.DepositEntry{Amount: amount, Date: date})
	rec.Amount = rec.Amount.Add(amount)
	return nil
}

// Close transitions a record from active to closed. Closed is terminal:
// closing an already-closed record is rejected, and no operation reopens
// one.
func Close(rec *ledger.SavingsRecord, at time.Time) error {
	if rec.IsClosed() {
		return fmt.Errorf("%w: %s", ErrSavingClosed, rec.ID)
	}
	rec.Status = ledger.SavingsClosed
	rec.ClosedAt = &at
	return nil
}
