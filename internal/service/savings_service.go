package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jeswinjohn/ledgerd/internal/ledger"
	"github.com/jeswinjohn/ledgerd/internal/operator/actions"
	"github.com/jeswinjohn/ledgerd/internal/savings"
	"github.com/jeswinjohn/ledgerd/internal/syncstore"
)

// ErrSavingNotFound reports an id absent from the current collection.
var ErrSavingNotFound = errors.New("saving not found")

// SavingsCreate is the input for creating or editing a savings record.
type SavingsCreate struct {
	Kind      ledger.SavingsKind
	Name      string
	Amount    decimal.Decimal
	ExpiresAt *time.Time

	MonthlyAmount decimal.Decimal
	TenureMonths  int
	StartDate     time.Time
}

// SavingsService handles the savings lifecycle: create, edit while
// active, record deposits, close, delete.
type SavingsService struct {
	store      *syncstore.Store
	dispatcher Dispatcher
	settings   Settings
}

func NewSavingsService(store *syncstore.Store, dispatcher Dispatcher, settings Settings) *SavingsService {
	return &SavingsService{store: store, dispatcher: dispatcher, settings: settings}
}

// List returns the savings collection with derived RD projections.
func (s *SavingsService) List(ctx context.Context) []SavingsView {
	records := s.store.FetchSavings(ctx)
	views := make([]SavingsView, len(records))
	for i, rec := range records {
		views[i] = SavingsView{Record: rec}
		if rec.IsRecurring() {
			if proj, err := savings.ProjectRD(rec, s.settings.AnnualRate); err == nil {
				p := proj
				views[i].Projection = &p
			}
		}
	}
	return views
}

func (s *SavingsService) find(ctx context.Context, id string) (ledger.SavingsRecord, error) {
	for _, rec := range s.store.FetchSavings(ctx) {
		if rec.ID == id {
			return rec, nil
		}
	}
	return ledger.SavingsRecord{}, fmt.Errorf("%w: %s", ErrSavingNotFound, id)
}

func (s *SavingsService) build(create SavingsCreate) ledger.SavingsRecord {
	now := s.settings.Now()
	if create.Kind == ledger.SavingsRecurring {
		start := ledger.CoerceDate(create.StartDate, now)
		return ledger.NewRecurringSaving(create.Name, ledger.ClampAmount(create.MonthlyAmount), create.TenureMonths, start, now)
	}
	return ledger.NewOneTimeSaving(create.Name, ledger.ClampAmount(create.Amount), create.ExpiresAt, now)
}

// Create dispatches a new savings record.
func (s *SavingsService) Create(ctx context.Context, create SavingsCreate) ledger.SavingsRecord {
	rec := s.build(create)
	s.dispatcher.Dispatch(ctx, &actions.SaveSaving{Record: rec})
	return rec
}

// Update edits a record while it is active. The lifecycle fields
// (status, createdAt, payment history) carry over from the stored record;
// only the editable fields change.
func (s *SavingsService) Update(ctx context.Context, id string, create SavingsCreate) error {
	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if current.IsClosed() {
		return fmt.Errorf("%w: %s", savings.ErrSavingClosed, id)
	}

	updated := s.build(create)
	updated.ID = current.ID
	updated.Status = current.Status
	updated.CreatedAt = current.CreatedAt
	updated.PaidEntries = current.PaidEntries
	if create.Kind == ledger.SavingsRecurring {
		updated.Amount = current.Amount
	}

	s.dispatcher.Dispatch(ctx, &actions.SaveSaving{ID: id, Record: updated})
	return nil
}

// Delete removes a record. Confirmation happens upstream; a declined
// confirmation never reaches this call.
func (s *SavingsService) Delete(ctx context.Context, id string) {
	s.dispatcher.Dispatch(ctx, &actions.DeleteSaving{ID: id})
}

// Close marks a record closed. Further deposits are rejected; there is no
// reopening.
func (s *SavingsService) Close(ctx context.Context, id string) error {
	rec, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := savings.Close(&rec, s.settings.Now()); err != nil {
		return err
	}

	s.dispatcher.Dispatch(ctx, &actions.SaveSaving{ID: id, Record: rec})
	return nil
}

// AddMonth records one monthly deposit. A zero amount defaults to the
// plan's monthly amount; a zero date defaults to now. The deposit is not
// validated against tenure length or the expected due date.
func (s *SavingsService) AddMonth(ctx context.Context, id string, amount decimal.Decimal, date time.Time) (ledger.DepositEntry, error) {
	rec, err := s.find(ctx, id)
	if err != nil {
		return ledger.DepositEntry{}, err
	}

	amount = ledger.ClampAmount(amount)
	if amount.IsZero() {
		amount = rec.MonthlyAmount
	}
	entry := ledger.DepositEntry{
		Amount: amount,
		Date:   ledger.CoerceDate(date, s.settings.Now()),
	}

	// Dry-run against a copy so a closed or one-time record is rejected
	// before anything is dispatched.
	if err := savings.AddDeposit(&rec, entry.Amount, entry.Date); err != nil {
		return ledger.DepositEntry{}, err
	}

	s.dispatcher.Dispatch(ctx, &actions.AddDeposit{ID: id, Entry: entry})
	return entry, nil
}
