package budget

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jeswinjohn/ledgerd/internal/ledger"
)

var quarterRatio = decimal.RequireFromString("0.25")

func incomeOn(amount string, date time.Time) ledger.Transaction {
	return ledger.Transaction{
		Kind:   ledger.TransactionIncome,
		Title:  "salary",
		Amount: decimal.RequireFromString(amount),
		Date:   date,
	}
}

// -- CurrentMonthIncome tests --

func TestCurrentMonthIncome_BoundsAreCalendarMonth(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	transactions := []ledger.Transaction{
		incomeOn("100", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),  // month start, inclusive
		incomeOn("200", time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC)),
		incomeOn("999", time.Date(2025, 5, 31, 23, 59, 0, 0, time.UTC)), // previous month
		incomeOn("999", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)),    // next month start
	}

	income := CurrentMonthIncome(transactions, now, time.UTC)
	assert.True(t, income.Equal(decimal.NewFromInt(300)), income.String())
}

func TestCurrentMonthIncome_IgnoresExpenses(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	transactions := []ledger.Transaction{
		incomeOn("100", now),
		{Kind: ledger.TransactionExpense, Amount: decimal.NewFromInt(500), Date: now},
	}

	income := CurrentMonthIncome(transactions, now, time.UTC)
	assert.True(t, income.Equal(decimal.NewFromInt(100)))
}

// -- Apply tests --

func TestApply_ManualPassesThrough(t *testing.T) {
	policy := Policy{MonthlyLimit: decimal.NewFromInt(7500), Auto: false}
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	applied, changed := policy.Apply([]ledger.Transaction{incomeOn("100000", now)}, now, quarterRatio, time.UTC)
	assert.False(t, changed)
	assert.True(t, applied.MonthlyLimit.Equal(decimal.NewFromInt(7500)))
}

func TestApply_AutoDerivesQuarterOfIncome(t *testing.T) {
	policy := Policy{Auto: true}
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	applied, changed := policy.Apply([]ledger.Transaction{incomeOn("40000", now)}, now, quarterRatio, time.UTC)
	assert.True(t, changed)
	assert.True(t, applied.MonthlyLimit.Equal(decimal.NewFromInt(10000)))
	assert.True(t, applied.Auto)
}

func TestApply_AutoRoundsToWholeAmount(t *testing.T) {
	policy := Policy{Auto: true}
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	// 0.25 × 1234.50 = 308.625 → rounds to 309.
	applied, changed := policy.Apply([]ledger.Transaction{incomeOn("1234.50", now)}, now, quarterRatio, time.UTC)
	assert.True(t, changed)
	assert.True(t, applied.MonthlyLimit.Equal(decimal.NewFromInt(309)), applied.MonthlyLimit.String())
}

func TestApply_AutoUnchangedReportsNoChange(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	transactions := []ledger.Transaction{incomeOn("40000", now)}

	policy := Policy{Auto: true}
	policy, changed := policy.Apply(transactions, now, quarterRatio, time.UTC)
	assert.True(t, changed)

	_, changed = policy.Apply(transactions, now, quarterRatio, time.UTC)
	assert.False(t, changed)
}

func TestApply_AutoWithNoIncomeIsZero(t *testing.T) {
	policy := Policy{MonthlyLimit: decimal.NewFromInt(5000), Auto: true}
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	applied, changed := policy.Apply(nil, now, quarterRatio, time.UTC)
	assert.True(t, changed)
	assert.True(t, applied.MonthlyLimit.IsZero())
}
