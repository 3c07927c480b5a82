package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes money coming in from money going out.
type TransactionKind string

const (
	TransactionIncome  TransactionKind = "income"
	TransactionExpense TransactionKind = "expense"
)

// Transaction is a single income or expense entry. Transactions are
// immutable once persisted; there is no update or delete operation.
type Transaction struct {
	ID       string          `json:"_id"`
	Kind     TransactionKind `json:"type"`
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
	Category string          `json:"category,omitempty"`
	Notes    string          `json:"notes,omitempty"`
	UserID   string          `json:"userId,omitempty"`
}

// TransactionCreate is the input for submitting a new transaction.
// Amount and Date are raw values; the service coerces them before the
// record reaches the store.
type TransactionCreate struct {
	Kind     TransactionKind
	Title    string
	Amount   decimal.Decimal
	Date     time.Time
	Category string
	Notes    string
}
