package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jeswinjohn/ledgerd/internal/ledger"
)

func newTestSnapshots(t *testing.T) *Snapshots {
	t.Helper()
	snapshots, err := NewSnapshots(t.TempDir())
	assert.NoError(t, err)
	return snapshots
}

func TestSnapshots_MissingBlobsAreEmpty(t *testing.T) {
	snapshots := newTestSnapshots(t)

	assert.Empty(t, snapshots.Transactions())
	assert.Empty(t, snapshots.Savings())
	assert.Empty(t, snapshots.Notes())

	_, ok := snapshots.Budget()
	assert.False(t, ok)
}

func TestSnapshots_TransactionsRoundTrip(t *testing.T) {
	snapshots := newTestSnapshots(t)

	stored := []ledger.Transaction{{
		ID:     "t-1",
		Kind:   ledger.TransactionExpense,
		Title:  "Coffee",
		Amount: decimal.RequireFromString("4.50"),
		Date:   time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC),
	}}
	assert.NoError(t, snapshots.StoreTransactions(stored))

	loaded := snapshots.Transactions()
	assert.Len(t, loaded, 1)
	assert.Equal(t, "t-1", loaded[0].ID)
	assert.True(t, loaded[0].Amount.Equal(stored[0].Amount))
}

func TestSnapshots_StoreOverwritesWholesale(t *testing.T) {
	snapshots := newTestSnapshots(t)

	assert.NoError(t, snapshots.StoreNotes([]ledger.Note{
		{ID: "n-1", Date: "2025-06-15", Text: "old"},
		{ID: "n-2", Date: "2025-06-16", Text: "older"},
	}))
	assert.NoError(t, snapshots.StoreNotes([]ledger.Note{
		{ID: "n-3", Date: "2025-06-17", Text: "new"},
	}))

	loaded := snapshots.Notes()
	assert.Len(t, loaded, 1)
	assert.Equal(t, "n-3", loaded[0].ID)
}

func TestSnapshots_CorruptBlobDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	snapshots, err := NewSnapshots(dir)
	assert.NoError(t, err)

	assert.NoError(t, os.WriteFile(filepath.Join(dir, "savings.json"), []byte("{not json"), 0o644))
	assert.Empty(t, snapshots.Savings())
}

func TestSnapshots_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	snapshots, err := NewSnapshots(dir)
	assert.NoError(t, err)

	assert.NoError(t, snapshots.StoreTransactions(nil))

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".tmp")
	}
}

func TestSnapshots_BudgetRoundTrip(t *testing.T) {
	snapshots := newTestSnapshots(t)

	assert.NoError(t, snapshots.StoreBudget(BudgetBlob{Monthly: "10000", Auto: true}))

	blob, ok := snapshots.Budget()
	assert.True(t, ok)
	assert.Equal(t, "10000", blob.Monthly)
	assert.True(t, blob.Auto)
}
