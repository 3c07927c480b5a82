package service

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/jeswinjohn/ledgerd/internal/aggregate"
	"github.com/jeswinjohn/ledgerd/internal/budget"
	"github.com/jeswinjohn/ledgerd/internal/cache"
	"github.com/jeswinjohn/ledgerd/internal/ledger"
	"github.com/jeswinjohn/ledgerd/internal/operator/actions"
	"github.com/jeswinjohn/ledgerd/internal/savings"
	"github.com/jeswinjohn/ledgerd/internal/syncstore"
)

// DashboardService backs the main dashboard: the joint refresh, the
// totals pass, transaction submission, and the budget policy.
type DashboardService struct {
	store      *syncstore.Store
	dispatcher Dispatcher
	snapshots  *cache.Snapshots
	logger     *logrus.Logger
	settings   Settings

	budgetMutex sync.Mutex
	budget      budget.Policy
}

// NewDashboardService creates a new DashboardService, restoring the
// budget policy from its persisted blob.
func NewDashboardService(store *syncstore.Store, dispatcher Dispatcher, snapshots *cache.Snapshots, logger *logrus.Logger, settings Settings) *DashboardService {
	svc := &DashboardService{
		store:      store,
		dispatcher: dispatcher,
		snapshots:  snapshots,
		logger:     logger,
		settings:   settings,
	}

	if blob, ok := snapshots.Budget(); ok {
		// Auto mode survives a corrupt limit; only the number defaults.
		svc.budget = budget.Policy{Auto: blob.Auto}
		if limit, err := decimal.NewFromString(blob.Monthly); err == nil {
			svc.budget.MonthlyLimit = limit
		} else {
			logger.WithError(err).Warn("DashboardService.budget.persisted limit unreadable, defaulting")
		}
	}
	return svc
}

// Refresh performs the joint dashboard fetch and the totals pass. The
// budget auto limit is recomputed on every call while auto mode is on.
func (s *DashboardService) Refresh(ctx context.Context) DashboardView {
	transactions, savingsList := s.store.FetchDashboard(ctx)

	views := make([]SavingsView, len(savingsList))
	for i, rec := range savingsList {
		views[i] = SavingsView{Record: rec}
		if rec.IsRecurring() {
			if proj, err := savings.ProjectRD(rec, s.settings.AnnualRate); err == nil {
				p := proj
				views[i].Projection = &p
			}
		}
	}

	return DashboardView{
		Transactions: transactions,
		Savings:      views,
		Totals:       aggregate.Sum(transactions),
		Budget:       s.applyBudget(transactions),
	}
}

func (s *DashboardService) applyBudget(transactions []ledger.Transaction) budget.Policy {
	s.budgetMutex.Lock()
	defer s.budgetMutex.Unlock()

	updated, changed := s.budget.Apply(transactions, s.settings.Now(), s.settings.AutoRatio, s.settings.Location)
	if changed {
		s.budget = updated
		s.persistBudgetLocked()
	}
	return s.budget
}

// SubmitTransaction coerces the input and dispatches the create
// fire-and-forget. The returned record is the coerced payload, not the
// persisted one; the next refresh observes the full collection.
func (s *DashboardService) SubmitTransaction(ctx context.Context, create ledger.TransactionCreate) ledger.Transaction {
	tx := ledger.Transaction{
		Kind:     create.Kind,
		Title:    create.Title,
		Amount:   ledger.ClampAmount(create.Amount),
		Date:     ledger.CoerceDate(create.Date, s.settings.Now()),
		Category: create.Category,
		Notes:    create.Notes,
	}
	if tx.Kind != ledger.TransactionIncome {
		tx.Kind = ledger.TransactionExpense
	}

	s.dispatcher.Dispatch(ctx, &actions.CreateTransaction{Transaction: tx})
	return tx
}

// Transactions returns the current transaction collection.
func (s *DashboardService) Transactions(ctx context.Context) []ledger.Transaction {
	return s.store.FetchTransactions(ctx)
}

// SetBudget stores an explicit monthly limit.
func (s *DashboardService) SetBudget(limit decimal.Decimal) budget.Policy {
	s.budgetMutex.Lock()
	defer s.budgetMutex.Unlock()

	s.budget.MonthlyLimit = ledger.ClampAmount(limit)
	s.persistBudgetLocked()
	return s.budget
}

// SetBudgetAuto switches auto mode. The next totals pass recomputes the
// limit when turning auto on.
func (s *DashboardService) SetBudgetAuto(auto bool) budget.Policy {
	s.budgetMutex.Lock()
	defer s.budgetMutex.Unlock()

	s.budget.Auto = auto
	s.persistBudgetLocked()
	return s.budget
}

// Budget returns the current policy.
func (s *DashboardService) Budget() budget.Policy {
	s.budgetMutex.Lock()
	defer s.budgetMutex.Unlock()
	return s.budget
}

func (s *DashboardService) persistBudgetLocked() {
	err := s.snapshots.StoreBudget(cache.BudgetBlob{
		Monthly: s.budget.MonthlyLimit.String(),
		Auto:    s.budget.Auto,
	})
	if err != nil {
		s.logger.WithError(err).Error("DashboardService.budget.cache write failed")
	}
}
