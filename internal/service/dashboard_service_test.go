package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jeswinjohn/ledgerd/internal/cache"
	"github.com/jeswinjohn/ledgerd/internal/ledger"
	"github.com/jeswinjohn/ledgerd/internal/logging"
	"github.com/jeswinjohn/ledgerd/internal/syncstore"
)

// -- Refresh tests --

func TestDashboardRefresh_JointSnapshot(t *testing.T) {
	remote := &stubRemote{
		transactions: []ledger.Transaction{
			{ID: "t-1", Kind: ledger.TransactionIncome, Title: "Salary", Amount: decimal.NewFromInt(1000), Date: testNow},
			{ID: "t-2", Kind: ledger.TransactionExpense, Title: "Rent", Amount: decimal.NewFromInt(400), Date: testNow},
		},
		savings: []ledger.SavingsRecord{
			ledger.NewRecurringSaving("Car fund", decimal.NewFromInt(500), 12, testNow, testNow),
		},
	}
	remote.savings[0].ID = "s-1"
	svc, _ := newTestFixture(t, remote)

	view := svc.Dashboard.Refresh(context.Background())

	assert.Len(t, view.Transactions, 2)
	assert.True(t, view.Totals.Balance.Equal(decimal.NewFromInt(600)))
	assert.Len(t, view.Savings, 1)
	assert.NotNil(t, view.Savings[0].Projection)
	assert.Equal(t, 12, view.Savings[0].Projection.Remaining)
}

func TestDashboardRefresh_OfflineServesCache(t *testing.T) {
	remote := &stubRemote{
		transactions: []ledger.Transaction{
			{ID: "t-1", Kind: ledger.TransactionIncome, Title: "Salary", Amount: decimal.NewFromInt(1000), Date: testNow},
		},
	}
	svc, _ := newTestFixture(t, remote)

	// Warm the cache, then lose the remote.
	svc.Dashboard.Refresh(context.Background())
	remote.offline = true

	view := svc.Dashboard.Refresh(context.Background())
	assert.Len(t, view.Transactions, 1)
	assert.Equal(t, "t-1", view.Transactions[0].ID)
}

// -- SubmitTransaction tests --

func TestSubmitTransaction_CoercesAndDispatches(t *testing.T) {
	remote := &stubRemote{}
	svc, _ := newTestFixture(t, remote)

	queued := svc.Dashboard.SubmitTransaction(context.Background(), ledger.TransactionCreate{
		Kind:   ledger.TransactionIncome,
		Title:  "Salary",
		Amount: decimal.NewFromInt(1000),
	})

	assert.True(t, queued.Date.Equal(testNow))
	assert.Len(t, remote.transactions, 1)
	assert.Equal(t, "Salary", remote.transactions[0].Title)
}

func TestSubmitTransaction_UnknownKindBecomesExpense(t *testing.T) {
	svc, _ := newTestFixture(t, &stubRemote{})

	queued := svc.Dashboard.SubmitTransaction(context.Background(), ledger.TransactionCreate{
		Kind:   "transfer",
		Title:  "Odd",
		Amount: decimal.NewFromInt(10),
	})

	assert.Equal(t, ledger.TransactionExpense, queued.Kind)
}

func TestSubmitTransaction_NegativeAmountClamped(t *testing.T) {
	svc, _ := newTestFixture(t, &stubRemote{})

	queued := svc.Dashboard.SubmitTransaction(context.Background(), ledger.TransactionCreate{
		Kind:   ledger.TransactionExpense,
		Title:  "Refund",
		Amount: decimal.NewFromInt(-50),
	})

	assert.True(t, queued.Amount.IsZero())
}

func TestSubmitTransaction_OfflineStillLandsInCache(t *testing.T) {
	remote := &stubRemote{offline: true}
	svc, _ := newTestFixture(t, remote)

	svc.Dashboard.SubmitTransaction(context.Background(), ledger.TransactionCreate{
		Kind:   ledger.TransactionExpense,
		Title:  "Coffee",
		Amount: decimal.NewFromInt(5),
	})

	list := svc.Dashboard.Transactions(context.Background())
	assert.Len(t, list, 1)
	assert.True(t, ledger.IsLocalID(list[0].ID))
	assert.Equal(t, "Coffee", list[0].Title)
}

// -- Budget tests --

func TestBudget_AutoRecomputedOnRefresh(t *testing.T) {
	remote := &stubRemote{
		transactions: []ledger.Transaction{
			{ID: "t-1", Kind: ledger.TransactionIncome, Title: "Salary", Amount: decimal.NewFromInt(40000), Date: testNow},
		},
	}
	svc, _ := newTestFixture(t, remote)

	svc.Dashboard.SetBudgetAuto(true)
	view := svc.Dashboard.Refresh(context.Background())

	assert.True(t, view.Budget.Auto)
	assert.True(t, view.Budget.MonthlyLimit.Equal(decimal.NewFromInt(10000)), view.Budget.MonthlyLimit.String())
}

func TestBudget_ManualLimitSticks(t *testing.T) {
	remote := &stubRemote{
		transactions: []ledger.Transaction{
			{ID: "t-1", Kind: ledger.TransactionIncome, Title: "Salary", Amount: decimal.NewFromInt(40000), Date: testNow},
		},
	}
	svc, _ := newTestFixture(t, remote)

	svc.Dashboard.SetBudget(decimal.NewFromInt(7500))
	view := svc.Dashboard.Refresh(context.Background())

	assert.False(t, view.Budget.Auto)
	assert.True(t, view.Budget.MonthlyLimit.Equal(decimal.NewFromInt(7500)))
}

func TestBudget_AutoIgnoresOtherMonths(t *testing.T) {
	lastMonth := testNow.AddDate(0, -1, 0)
	remote := &stubRemote{
		transactions: []ledger.Transaction{
			{ID: "t-1", Kind: ledger.TransactionIncome, Title: "Old salary", Amount: decimal.NewFromInt(40000), Date: lastMonth},
			{ID: "t-2", Kind: ledger.TransactionIncome, Title: "Salary", Amount: decimal.NewFromInt(8000), Date: testNow},
		},
	}
	svc, _ := newTestFixture(t, remote)

	svc.Dashboard.SetBudgetAuto(true)
	view := svc.Dashboard.Refresh(context.Background())

	assert.True(t, view.Budget.MonthlyLimit.Equal(decimal.NewFromInt(2000)), view.Budget.MonthlyLimit.String())
}

func TestBudget_CorruptPersistedLimitKeepsAutoMode(t *testing.T) {
	snapshots, err := cache.NewSnapshots(t.TempDir())
	assert.NoError(t, err)
	assert.NoError(t, snapshots.StoreBudget(cache.BudgetBlob{Monthly: "garbage", Auto: true}))

	logger := logging.SetupLogging()
	store := syncstore.NewStore(&stubRemote{}, snapshots, logger)
	svc := NewDashboardService(store, &syncDispatcher{store: store}, snapshots, logger, Settings{
		Location:   time.UTC,
		AnnualRate: decimal.RequireFromString("0.05"),
		AutoRatio:  decimal.RequireFromString("0.25"),
		Now:        func() time.Time { return testNow },
	})

	policy := svc.Budget()
	assert.True(t, policy.Auto)
	assert.True(t, policy.MonthlyLimit.IsZero())
}
