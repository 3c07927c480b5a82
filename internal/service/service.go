package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/jeswinjohn/ledgerd/internal/analytics"
	"github.com/jeswinjohn/ledgerd/internal/cache"
	"github.com/jeswinjohn/ledgerd/internal/notify"
	"github.com/jeswinjohn/ledgerd/internal/operator/actions"
	"github.com/jeswinjohn/ledgerd/internal/syncstore"
)

// Dispatcher enqueues mutation actions. Implemented by the operator
// delegator; tests substitute a synchronous fake.
type Dispatcher interface {
	Dispatch(ctx context.Context, action actions.IAction)
	Process(ctx context.Context, action actions.IAction) error
}

// Settings carries the configured constants the services derive with.
type Settings struct {
	Location   *time.Location
	AnnualRate decimal.Decimal
	AutoRatio  decimal.Decimal
	Thresholds analytics.Thresholds
	// Now is swapped in tests; defaults to time.Now.
	Now func() time.Time
}

// Service holds all business logic services.
type Service struct {
	Dashboard    *DashboardService
	Savings      *SavingsService
	Reports      *ReportService
	Gamification *GamificationService
}

// NewService creates a new Service wired to the sync store.
func NewService(
	store *syncstore.Store,
	dispatcher Dispatcher,
	snapshots *cache.Snapshots,
	notifier *notify.Notifier,
	logger *logrus.Logger,
	settings Settings,
) *Service {
	if settings.Now == nil {
		settings.Now = time.Now
	}
	return &Service{
		Dashboard:    NewDashboardService(store, dispatcher, snapshots, logger, settings),
		Savings:      NewSavingsService(store, dispatcher, settings),
		Reports:      NewReportService(store, dispatcher, notifier, settings),
		Gamification: NewGamificationService(store, settings),
	}
}
