package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jeswinjohn/ledgerd/internal/analytics"
	"github.com/jeswinjohn/ledgerd/internal/cache"
	"github.com/jeswinjohn/ledgerd/internal/ledger"
	"github.com/jeswinjohn/ledgerd/internal/logging"
	"github.com/jeswinjohn/ledgerd/internal/notify"
	"github.com/jeswinjohn/ledgerd/internal/operator/actions"
	"github.com/jeswinjohn/ledgerd/internal/syncstore"
)

var errRemoteDown = errors.New("connection refused")

// stubRemote is an in-memory remote store. Setting offline fails every
// leg, which exercises the cache fallback paths end to end.
type stubRemote struct {
	transactions []ledger.Transaction
	savings      []ledger.SavingsRecord
	notes        []ledger.Note
	leaderboard  []ledger.LeaderboardEntry
	offline      bool
	idSeq        int
}

func (r *stubRemote) nextID(prefix string) string {
	r.idSeq++
	return fmt.Sprintf("%s-%d", prefix, r.idSeq)
}

func (r *stubRemote) ListTransactions(context.Context) ([]ledger.Transaction, error) {
	if r.offline {
		return nil, errRemoteDown
	}
	return r.transactions, nil
}

func (r *stubRemote) CreateTransaction(_ context.Context, tx ledger.Transaction) error {
	if r.offline {
		return errRemoteDown
	}
	if tx.ID == "" {
		tx.ID = r.nextID("t")
	}
	r.transactions = append([]ledger.Transaction{tx}, r.transactions...)
	return nil
}

func (r *stubRemote) ListSavings(context.Context) ([]ledger.SavingsRecord, error) {
	if r.offline {
		return nil, errRemoteDown
	}
	return r.savings, nil
}

func (r *stubRemote) CreateSaving(_ context.Context, rec ledger.SavingsRecord) error {
	if r.offline {
		return errRemoteDown
	}
	if rec.ID == "" {
		rec.ID = r.nextID("s")
	}
	r.savings = append([]ledger.SavingsRecord{rec}, r.savings...)
	return nil
}

func (r *stubRemote) UpdateSaving(_ context.Context, id string, rec ledger.SavingsRecord) error {
	if r.offline {
		return errRemoteDown
	}
	for i := range r.savings {
		if r.savings[i].ID == id {
			rec.ID = id
			r.savings[i] = rec
		}
	}
	return nil
}

func (r *stubRemote) DeleteSaving(_ context.Context, id string) error {
	if r.offline {
		return errRemoteDown
	}
	remain := r.savings[:0]
	for _, rec := range r.savings {
		if rec.ID != id {
			remain = append(remain, rec)
		}
	}
	r.savings = remain
	return nil
}

func (r *stubRemote) AddDeposit(_ context.Context, id string, entry ledger.DepositEntry) error {
	if r.offline {
		return errRemoteDown
	}
	for i := range r.savings {
		if r.savings[i].ID == id {
			r.savings[i].PaidEntries = append(r.savings[i].PaidEntries, entry)
			r.savings[i].Amount = r.savings[i].Amount.Add(entry.Amount)
		}
	}
	return nil
}

func (r *stubRemote) ListNotes(context.Context) ([]ledger.Note, error) {
	if r.offline {
		return nil, errRemoteDown
	}
	return r.notes, nil
}

func (r *stubRemote) CreateNote(_ context.Context, note ledger.Note) (ledger.Note, error) {
	if r.offline {
		return ledger.Note{}, errRemoteDown
	}
	note.ID = r.nextID("n")
	r.notes = append(r.notes, note)
	return note, nil
}

func (r *stubRemote) UpdateNote(_ context.Context, id string, note ledger.Note) (ledger.Note, error) {
	if r.offline {
		return ledger.Note{}, errRemoteDown
	}
	note.ID = id
	for i := range r.notes {
		if r.notes[i].ID == id {
			r.notes[i] = note
		}
	}
	return note, nil
}

func (r *stubRemote) DeleteNote(_ context.Context, id string) error {
	if r.offline {
		return errRemoteDown
	}
	remain := r.notes[:0]
	for _, n := range r.notes {
		if n.ID != id {
			remain = append(remain, n)
		}
	}
	r.notes = remain
	return nil
}

func (r *stubRemote) Leaderboard(context.Context) ([]ledger.LeaderboardEntry, error) {
	if r.offline {
		return nil, errRemoteDown
	}
	return r.leaderboard, nil
}

// syncDispatcher performs actions inline so tests observe their effects
// without worker scheduling.
type syncDispatcher struct {
	store *syncstore.Store
}

func (d *syncDispatcher) Dispatch(ctx context.Context, action actions.IAction) {
	_ = action.Perform(ctx, d.store)
}

func (d *syncDispatcher) Process(ctx context.Context, action actions.IAction) error {
	return action.Perform(ctx, d.store)
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestFixture(t *testing.T, remote *stubRemote) (*Service, *notify.Notifier) {
	t.Helper()

	snapshots, err := cache.NewSnapshots(t.TempDir())
	assert.NoError(t, err)

	logger := logging.SetupLogging()
	store := syncstore.NewStore(remote, snapshots, logger)
	notifier := notify.NewNotifier(logger)

	svc := NewService(store, &syncDispatcher{store: store}, snapshots, notifier, logger, Settings{
		Location:   time.UTC,
		AnnualRate: decimal.RequireFromString("0.05"),
		AutoRatio:  decimal.RequireFromString("0.25"),
		Thresholds: analytics.DefaultThresholds(),
		Now:        func() time.Time { return testNow },
	})
	return svc, notifier
}
