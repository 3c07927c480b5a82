package savings

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jeswinjohn/ledgerd/internal/ledger"
)

var testRate = decimal.RequireFromString("0.05")

func newTestPlan(t *testing.T) ledger.SavingsRecord {
	t.Helper()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := ledger.NewRecurringSaving("Car fund", decimal.NewFromInt(1000), 12, start, start)
	rec.ID = "rd-1"
	return rec
}

// -- EstimateMaturity tests --

func TestEstimateMaturity(t *testing.T) {
	// principal 12000, interest 6000 × 0.05 × 1 = 300.
	maturity := EstimateMaturity(decimal.NewFromInt(1000), 12, testRate)
	assert.True(t, maturity.Equal(decimal.NewFromInt(12300)), maturity.String())
}

func TestEstimateMaturity_RoundsToWholeAmount(t *testing.T) {
	// principal 3000, interest 1500 × 0.05 × 0.5 = 37.5 → rounds to 38.
	maturity := EstimateMaturity(decimal.NewFromInt(500), 6, testRate)
	assert.True(t, maturity.Equal(decimal.NewFromInt(3038)), maturity.String())
}

// -- ProjectRD tests --

func TestProjectRD_FreshPlan(t *testing.T) {
	rec := newTestPlan(t)

	proj, err := ProjectRD(rec, testRate)
	assert.NoError(t, err)
	assert.Equal(t, 0, proj.PaidMonths)
	assert.Equal(t, 12, proj.Remaining)
	assert.True(t, proj.NextDue.Equal(rec.StartDate))
	assert.True(t, proj.MaturityEstimate.Equal(decimal.NewFromInt(12300)))
}

func TestProjectRD_AdvancesAfterDeposit(t *testing.T) {
	rec := newTestPlan(t)
	err := AddDeposit(&rec, decimal.NewFromInt(1000), rec.StartDate)
	assert.NoError(t, err)

	proj, err := ProjectRD(rec, testRate)
	assert.NoError(t, err)
	assert.Equal(t, 1, proj.PaidMonths)
	assert.Equal(t, 11, proj.Remaining)
	assert.True(t, proj.NextDue.Equal(rec.StartDate.AddDate(0, 1, 0)))
}

func TestProjectRD_OverpaidFloorsRemaining(t *testing.T) {
	rec := newTestPlan(t)
	rec.TenureMonths = 2
	for i := 0; i < 3; i++ {
		assert.NoError(t, AddDeposit(&rec, decimal.NewFromInt(1000), rec.StartDate.AddDate(0, i, 0)))
	}

	proj, err := ProjectRD(rec, testRate)
	assert.NoError(t, err)
	assert.Equal(t, 3, proj.PaidMonths)
	assert.Equal(t, 0, proj.Remaining)
}

func TestProjectRD_OneTimeRejected(t *testing.T) {
	rec := ledger.NewOneTimeSaving("Vacation", decimal.NewFromInt(5000), nil, time.Now())

	_, err := ProjectRD(rec, testRate)
	assert.ErrorIs(t, err, ErrNotRecurring)
}

// -- AddDeposit tests --

func TestAddDeposit_BumpsRunningAmount(t *testing.T) {
	rec := newTestPlan(t)

	assert.NoError(t, AddDeposit(&rec, decimal.NewFromInt(1000), rec.StartDate))
	assert.NoError(t, AddDeposit(&rec, decimal.NewFromInt(750), rec.StartDate.AddDate(0, 1, 0)))

	assert.Len(t, rec.PaidEntries, 2)
	assert.True(t, rec.Amount.Equal(decimal.NewFromInt(1750)))
}

func TestAddDeposit_ClosedRejected(t *testing.T) {
	rec := newTestPlan(t)
	assert.NoError(t, Close(&rec, time.Now()))

	err := AddDeposit(&rec, decimal.NewFromInt(1000), time.Now())
	assert.ErrorIs(t, err, ErrSavingClosed)
	assert.Empty(t, rec.PaidEntries)
}

func TestAddDeposit_OneTimeRejected(t *testing.T) {
	rec := ledger.NewOneTimeSaving("Vacation", decimal.NewFromInt(5000), nil, time.Now())

	err := AddDeposit(&rec, decimal.NewFromInt(1000), time.Now())
	assert.ErrorIs(t, err, ErrNotRecurring)
}

// -- Close tests --

func TestClose(t *testing.T) {
	rec := newTestPlan(t)
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	assert.NoError(t, Close(&rec, at))
	assert.True(t, rec.IsClosed())
	assert.NotNil(t, rec.ClosedAt)
	assert.True(t, rec.ClosedAt.Equal(at))
}

func TestClose_AlreadyClosedRejected(t *testing.T) {
	rec := newTestPlan(t)
	assert.NoError(t, Close(&rec, time.Now()))

	err := Close(&rec, time.Now())
	assert.ErrorIs(t, err, ErrSavingClosed)
}
