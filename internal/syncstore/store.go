// Package syncstore is the dual-write persistence layer: every read
// prefers the authoritative remote store and degrades to the local
// snapshot cache, every write tries the remote first and patches the
// cache when that fails. Transport failures never escape this package;
// callers always observe a full, possibly stale, collection.
package syncstore

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jeswinjohn/ledgerd/internal/cache"
	"github.com/jeswinjohn/ledgerd/internal/ledger"
	"github.com/jeswinjohn/ledgerd/internal/logging"
)

// Kind names one synchronized collection.
type Kind string

const (
	KindTransactions Kind = "transactions"
	KindSavings      Kind = "savings"
	KindNotes        Kind = "notes"
)

// Remote is the slice of the remote client the store depends on. Tests
// substitute an implementation that fails selected legs.
type Remote interface {
	ListTransactions(ctx context.Context) ([]ledger.Transaction, error)
	CreateTransaction(ctx context.Context, tx ledger.Transaction) error
	ListSavings(ctx context.Context) ([]ledger.SavingsRecord, error)
	CreateSaving(ctx context.Context, rec ledger.SavingsRecord) error
	UpdateSaving(ctx context.Context, id string, rec ledger.SavingsRecord) error
	DeleteSaving(ctx context.Context, id string) error
	AddDeposit(ctx context.Context, id string, entry ledger.DepositEntry) error
	ListNotes(ctx context.Context) ([]ledger.Note, error)
	CreateNote(ctx context.Context, note ledger.Note) (ledger.Note, error)
	UpdateNote(ctx context.Context, id string, note ledger.Note) (ledger.Note, error)
	DeleteNote(ctx context.Context, id string) error
	Leaderboard(ctx context.Context) ([]ledger.LeaderboardEntry, error)
}

// Store coordinates the remote client and the fallback cache.
//
// Fencing: each fetch is stamped from a monotonically increasing
// sequence. A response that lands after a newer fetch has already been
// applied for the same kind is discarded instead of overwriting fresher
// state, so the stale-overwrite race between overlapping refetches is
// closed.
//
// Fetch-wins: a successful remote fetch replaces the cached snapshot
// wholesale, including records that were synthesized locally and never
// accepted remotely. No merge pass exists; the overwrite is logged when
// locally-tagged records are dropped.
type Store struct {
	remote Remote
	cache  *cache.Snapshots
	logger *logrus.Logger

	mutex   sync.Mutex
	seq     uint64
	applied map[Kind]uint64
}

func NewStore(remote Remote, snapshots *cache.Snapshots, logger *logrus.Logger) *Store {
	return &Store{
		remote:  remote,
		cache:   snapshots,
		logger:  logger,
		applied: make(map[Kind]uint64),
	}
}

func (s *Store) nextSeq() uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.seq++
	return s.seq
}

// applyFence reports whether a fetch stamped with seq may overwrite the
// cache for kind. Stale responses lose.
func (s *Store) applyFence(kind Kind, seq uint64) bool {
	if seq < s.applied[kind] {
		s.logger.WithFields(logrus.Fields{
			"kind": string(kind),
			"seq":  seq,
		}).Debug("SyncStore.fetch.stale response discarded")
		return false
	}
	s.applied[kind] = seq
	return true
}

func countLocalTransactions(list []ledger.Transaction) int {
	n := 0
	for _, tx := range list {
		if ledger.IsLocalID(tx.ID) {
			n++
		}
	}
	return n
}

func countLocalSavings(list []ledger.SavingsRecord) int {
	n := 0
	for _, rec := range list {
		if ledger.IsLocalID(rec.ID) {
			n++
		}
	}
	return n
}

func (s *Store) applyTransactions(seq uint64, list []ledger.Transaction) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.applyFence(KindTransactions, seq) {
		return false
	}

	if dropped := countLocalTransactions(s.cache.Transactions()); dropped > 0 {
		s.logger.WithField("droppedLocalRecords", dropped).
			Warn("SyncStore.transactions.fetch-wins overwrite discarding unsynced local records")
	}
	if err := s.cache.StoreTransactions(list); err != nil {
		s.logger.WithError(err).Error("SyncStore.transactions.cache write failed")
	}
	return true
}

func (s *Store) applySavings(seq uint64, list []ledger.SavingsRecord) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.applyFence(KindSavings, seq) {
		return false
	}

	if dropped := countLocalSavings(s.cache.Savings()); dropped > 0 {
		s.logger.WithField("droppedLocalRecords", dropped).
			Warn("SyncStore.savings.fetch-wins overwrite discarding unsynced local records")
	}
	if err := s.cache.StoreSavings(list); err != nil {
		s.logger.WithError(err).Error("SyncStore.savings.cache write failed")
	}
	return true
}

func (s *Store) applyNotes(seq uint64, list []ledger.Note) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.applyFence(KindNotes, seq) {
		return false
	}
	if err := s.cache.StoreNotes(list); err != nil {
		s.logger.WithError(err).Error("SyncStore.notes.cache write failed")
	}
	return true
}

// FetchTransactions returns the remote transaction collection, or the
// cached snapshot when the remote is unreachable.
func (s *Store) FetchTransactions(ctx context.Context) []ledger.Transaction {
	seq := s.nextSeq()
	list, err := s.remote.ListTransactions(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("SyncStore.transactions.fetch failed, serving cache")
		return s.cache.Transactions()
	}
	if !s.applyTransactions(seq, list) {
		return s.cache.Transactions()
	}
	return list
}

func (s *Store) FetchSavings(ctx context.Context) []ledger.SavingsRecord {
	seq := s.nextSeq()
	list, err := s.remote.ListSavings(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("SyncStore.savings.fetch failed, serving cache")
		return s.cache.Savings()
	}
	if !s.applySavings(seq, list) {
		return s.cache.Savings()
	}
	return list
}

func (s *Store) FetchNotes(ctx context.Context) []ledger.Note {
	seq := s.nextSeq()
	list, err := s.remote.ListNotes(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("SyncStore.notes.fetch failed, serving cache")
		return s.cache.Notes()
	}
	if !s.applyNotes(seq, list) {
		return s.cache.Notes()
	}
	return list
}

// FetchDashboard issues the transaction and savings fetches concurrently
// as one joint operation: if either leg fails, both collections are
// served from cache. A fresh remote list is never mixed with a stale
// cached one.
func (s *Store) FetchDashboard(ctx context.Context) ([]ledger.Transaction, []ledger.SavingsRecord) {
	seq := s.nextSeq()
	logData := logging.GetLogData(ctx)

	var (
		wg     sync.WaitGroup
		txList []ledger.Transaction
		svList []ledger.SavingsRecord
		txErr  error
		svErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		if logData != nil {
			defer logData.AddTiming("fetchTransactionsMs")()
		}
		txList, txErr = s.remote.ListTransactions(ctx)
	}()
	go func() {
		defer wg.Done()
		if logData != nil {
			defer logData.AddTiming("fetchSavingsMs")()
		}
		svList, svErr = s.remote.ListSavings(ctx)
	}()
	wg.Wait()

	if txErr != nil || svErr != nil {
		s.logger.WithFields(logrus.Fields{
			"transactionsError": errString(txErr),
			"savingsError":      errString(svErr),
		}).Warn("SyncStore.dashboard.joint fetch failed, serving cache")
		return s.cache.Transactions(), s.cache.Savings()
	}

	txApplied := s.applyTransactions(seq, txList)
	svApplied := s.applySavings(seq, svList)
	if !txApplied || !svApplied {
		return s.cache.Transactions(), s.cache.Savings()
	}
	return txList, svList
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// RefetchAll is the invalidation-signal entry point: an unconditional
// full refetch of every kind. Signals carry no payload and are not
// coalesced, so bursts produce redundant refetches; that is accepted.
func (s *Store) RefetchAll(ctx context.Context) {
	s.FetchDashboard(ctx)
	s.FetchNotes(ctx)
}

// CreateTransaction attempts a remote create; on failure it synthesizes a
// locally-tagged record and prepends it to the cached snapshot. Either
// way the call concludes with a full refetch so the caller observes a
// complete collection.
func (s *Store) CreateTransaction(ctx context.Context, tx ledger.Transaction) []ledger.Transaction {
	if err := s.remote.CreateTransaction(ctx, tx); err != nil {
		s.logger.WithError(err).Warn("SyncStore.transactions.create failed, caching locally")
		tx.ID = ledger.NewLocalID()
		s.mutex.Lock()
		patched := append([]ledger.Transaction{tx}, s.cache.Transactions()...)
		if storeErr := s.cache.StoreTransactions(patched); storeErr != nil {
			s.logger.WithError(storeErr).Error("SyncStore.transactions.cache write failed")
		}
		s.mutex.Unlock()
	}
	return s.FetchTransactions(ctx)
}

func (s *Store) CreateSaving(ctx context.Context, rec ledger.SavingsRecord) []ledger.SavingsRecord {
	if err := s.remote.CreateSaving(ctx, rec); err != nil {
		s.logger.WithError(err).Warn("SyncStore.savings.create failed, caching locally")
		rec.ID = ledger.NewLocalID()
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now()
		}
		s.mutex.Lock()
		patched := append([]ledger.SavingsRecord{rec}, s.cache.Savings()...)
		if storeErr := s.cache.StoreSavings(patched); storeErr != nil {
			s.logger.WithError(storeErr).Error("SyncStore.savings.cache write failed")
		}
		s.mutex.Unlock()
	}
	return s.FetchSavings(ctx)
}

func (s *Store) UpdateSaving(ctx context.Context, id string, rec ledger.SavingsRecord) []ledger.SavingsRecord {
	if err := s.remote.UpdateSaving(ctx, id, rec); err != nil {
		s.logger.WithError(err).Warn("SyncStore.savings.update failed, patching cache")
		s.mutex.Lock()
		cached := s.cache.Savings()
		for i := range cached {
			if cached[i].ID == id {
				rec.ID = id
				cached[i] = rec
			}
		}
		if storeErr := s.cache.StoreSavings(cached); storeErr != nil {
			s.logger.WithError(storeErr).Error("SyncStore.savings.cache write failed")
		}
		s.mutex.Unlock()
	}
	return s.FetchSavings(ctx)
}

func (s *Store) DeleteSaving(ctx context.Context, id string) []ledger.SavingsRecord {
	if err := s.remote.DeleteSaving(ctx, id); err != nil {
		s.logger.WithError(err).Warn("SyncStore.savings.delete failed, patching cache")
		s.mutex.Lock()
		cached := s.cache.Savings()
		remain := cached[:0]
		for _, sv := range cached {
			if sv.ID != id {
				remain = append(remain, sv)
			}
		}
		if storeErr := s.cache.StoreSavings(remain); storeErr != nil {
			s.logger.WithError(storeErr).Error("SyncStore.savings.cache write failed")
		}
		s.mutex.Unlock()
	}
	return s.FetchSavings(ctx)
}

// AppendDeposit records an RD payment. The cache-side fallback mirrors
// the remote behavior: the entry is appended and the record's running
// amount is bumped by the deposit.
func (s *Store) AppendDeposit(ctx context.Context, id string, entry ledger.DepositEntry) []ledger.SavingsRecord {
	if err := s.remote.AddDeposit(ctx, id, entry); err != nil {
		s.logger.WithError(err).Warn("SyncStore.savings.add-month failed, patching cache")
		s.mutex.Lock()
		cached := s.cache.Savings()
		for i := range cached {
			if cached[i].ID == id {
				cached[i].PaidEntries = append(cached[i].PaidEntries, entry)
				cached[i].Amount = cached[i].Amount.Add(entry.Amount)
			}
		}
		if storeErr := s.cache.StoreSavings(cached); storeErr != nil {
			s.logger.WithError(storeErr).Error("SyncStore.savings.cache write failed")
		}
		s.mutex.Unlock()
	}
	return s.FetchSavings(ctx)
}

func (s *Store) CreateNote(ctx context.Context, note ledger.Note) []ledger.Note {
	if _, err := s.remote.CreateNote(ctx, note); err != nil {
		s.logger.WithError(err).Warn("SyncStore.notes.create failed, caching locally")
		note.ID = ledger.NewLocalID()
		s.mutex.Lock()
		patched := append(s.cache.Notes(), note)
		if storeErr := s.cache.StoreNotes(patched); storeErr != nil {
			s.logger.WithError(storeErr).Error("SyncStore.notes.cache write failed")
		}
		s.mutex.Unlock()
	}
	return s.FetchNotes(ctx)
}

func (s *Store) UpdateNote(ctx context.Context, id string, note ledger.Note) []ledger.Note {
	if _, err := s.remote.UpdateNote(ctx, id, note); err != nil {
		s.logger.WithError(err).Warn("SyncStore.notes.update failed, patching cache")
		s.mutex.Lock()
		cached := s.cache.Notes()
		for i := range cached {
			if cached[i].ID == id {
				note.ID = id
				cached[i] = note
			}
		}
		if storeErr := s.cache.StoreNotes(cached); storeErr != nil {
			s.logger.WithError(storeErr).Error("SyncStore.notes.cache write failed")
		}
		s.mutex.Unlock()
	}
	return s.FetchNotes(ctx)
}

func (s *Store) DeleteNote(ctx context.Context, id string) []ledger.Note {
	if err := s.remote.DeleteNote(ctx, id); err != nil {
		s.logger.WithError(err).Warn("SyncStore.notes.delete failed, patching cache")
		s.mutex.Lock()
		cached := s.cache.Notes()
		remain := cached[:0]
		for _, n := range cached {
			if n.ID != id {
				remain = append(remain, n)
			}
		}
		if storeErr := s.cache.StoreNotes(remain); storeErr != nil {
			s.logger.WithError(storeErr).Error("SyncStore.notes.cache write failed")
		}
		s.mutex.Unlock()
	}
	return s.FetchNotes(ctx)
}

// Leaderboard is a pass-through: the remote leaderboard is optional and
// has no cache, so the error is surfaced for the caller to derive a
// fallback.
func (s *Store) Leaderboard(ctx context.Context) ([]ledger.LeaderboardEntry, error) {
	return s.remote.Leaderboard(ctx)
}
