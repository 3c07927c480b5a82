// Package cache persists the last-known-good remote snapshots as JSON
// blobs on disk. The cache is fallback-only: it is never canonical while
// the remote store is reachable, and each successful fetch overwrites the
// corresponding blob wholesale.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeswinjohn/ledgerd/internal/ledger"
)

// Snapshots reads and writes the per-kind snapshot blobs plus the budget
// policy blob. All writes are atomic (temp file + rename) so a crash never
// leaves a half-written snapshot.
type Snapshots struct {
	dir string
}

func NewSnapshots(dir string) (*Snapshots, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache dir %s: %w", dir, err)
	}
	return &Snapshots{dir: dir}, nil
}

func (s *Snapshots) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *Snapshots) write(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	tmp := s.path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(name))
}

func (s *Snapshots) read(name string, v interface{}) error {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

// Transactions returns the cached transaction snapshot. A missing or
// unreadable blob degrades to an empty list, never an error: the cache is
// the last line of defense and must always yield a usable collection.
func (s *Snapshots) Transactions() []ledger.Transaction {
	var list []ledger.Transaction
	if err := s.read("transactions", &list); err != nil {
		return nil
	}
	return list
}

func (s *Snapshots) StoreTransactions(list []ledger.Transaction) error {
	return s.write("transactions", list)
}

func (s *Snapshots) Savings() []ledger.SavingsRecord {
	var list []ledger.SavingsRecord
	if err := s.read("savings", &list); err != nil {
		return nil
	}
	return list
}

func (s *Snapshots) StoreSavings(list []ledger.SavingsRecord) error {
	return s.write("savings", list)
}

func (s *Snapshots) Notes() []ledger.Note {
	var list []ledger.Note
	if err := s.read("notes", &list); err != nil {
		return nil
	}
	return list
}

func (s *Snapshots) StoreNotes(list []ledger.Note) error {
	return s.write("notes", list)
}

// BudgetBlob is the persisted budget policy state.
type BudgetBlob struct {
	Monthly string `json:"monthly"`
	Auto    bool   `json:"auto"`
}

func (s *Snapshots) Budget() (BudgetBlob, bool) {
	var blob BudgetBlob
	if _, err := os.Stat(s.path("budget")); err != nil {
		return blob, false
	}
	if err := s.read("budget", &blob); err != nil {
		return blob, false
	}
	return blob, true
}

func (s *Snapshots) StoreBudget(blob BudgetBlob) error {
	return s.write("budget", blob)
}
