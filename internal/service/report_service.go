package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jeswinjohn/ledgerd/internal/aggregate"
	"github.com/jeswinjohn/ledgerd/internal/ledger"
	"github.com/jeswinjohn/ledgerd/internal/notify"
	"github.com/jeswinjohn/ledgerd/internal/operator/actions"
	"github.com/jeswinjohn/ledgerd/internal/syncstore"
)

// ErrInvalidNote rejects a note without a date or text.
var ErrInvalidNote = errors.New("note requires a date and text")

// TransactionFilter narrows the report view. Zero values mean "no
// constraint"; Kind empty or "all" matches both kinds.
type TransactionFilter struct {
	Query string
	From  time.Time
	To    time.Time
	Kind  string
}

func (f TransactionFilter) matches(tx ledger.Transaction) bool {
	if f.Kind != "" && f.Kind != "all" && string(tx.Kind) != f.Kind {
		return false
	}
	if !f.From.IsZero() && tx.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && tx.Date.After(f.To) {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(tx.Title), q) ||
		strings.Contains(strings.ToLower(tx.Notes), q)
}

// ReportService backs the reports view: filtered transaction lists with
// totals, periodic summaries, and reminder notes.
type ReportService struct {
	store      *syncstore.Store
	dispatcher Dispatcher
	notifier   *notify.Notifier
	settings   Settings
}

func NewReportService(store *syncstore.Store, dispatcher Dispatcher, notifier *notify.Notifier, settings Settings) *ReportService {
	return &ReportService{store: store, dispatcher: dispatcher, notifier: notifier, settings: settings}
}

// Filter returns the transactions matching the filter plus their totals.
// balance == income − expense over exactly the filtered list.
func (s *ReportService) Filter(ctx context.Context, filter TransactionFilter) ([]ledger.Transaction, aggregate.Totals) {
	var matched []ledger.Transaction
	for _, tx := range s.store.FetchTransactions(ctx) {
		if filter.matches(tx) {
			matched = append(matched, tx)
		}
	}
	return matched, aggregate.Sum(matched)
}

// MonthlySummary buckets all transactions by calendar month.
func (s *ReportService) MonthlySummary(ctx context.Context) []aggregate.Bucket {
	return aggregate.BucketBy(s.store.FetchTransactions(ctx), aggregate.Month, s.settings.Location)
}

// YearlySummary buckets all transactions by calendar year.
func (s *ReportService) YearlySummary(ctx context.Context) []aggregate.Bucket {
	return aggregate.BucketBy(s.store.FetchTransactions(ctx), aggregate.Year, s.settings.Location)
}

// Notes fetches the reminder notes and emits one reminder event per note
// dated today. Reminders repeat on every fetch; nothing is deduplicated
// across calls.
func (s *ReportService) Notes(ctx context.Context) []ledger.Note {
	notes := s.store.FetchNotes(ctx)

	today := ledger.DayKey(s.settings.Now(), s.settings.Location)
	for _, note := range notes {
		if note.Date == today {
			s.notifier.Publish("Reminder: "+note.Text, notify.SeverityInfo)
		}
	}
	return notes
}

// SaveNote creates a note when id is empty, otherwise updates it.
func (s *ReportService) SaveNote(ctx context.Context, id string, note ledger.Note) error {
	if note.Date == "" || strings.TrimSpace(note.Text) == "" {
		return ErrInvalidNote
	}

	s.dispatcher.Dispatch(ctx, &actions.SaveNote{ID: id, Note: note})
	return nil
}

// DeleteNote removes a note.
func (s *ReportService) DeleteNote(ctx context.Context, id string) {
	s.dispatcher.Dispatch(ctx, &actions.DeleteNote{ID: id})
}
