package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsKind tags the two savings variants. The wire values match what
// the remote API stores.
type SavingsKind string

const (
	SavingsOneTime   SavingsKind = "saving"
	SavingsRecurring SavingsKind = "rd"
)

// SavingsStatus is the lifecycle state of a savings record.
// Closed is terminal; there is no transition back to active.
type SavingsStatus string

const (
	SavingsActive SavingsStatus = "active"
	SavingsClosed SavingsStatus = "closed"
)

// DepositEntry is one recorded payment into a recurring deposit.
// Insertion order is payment order.
type DepositEntry struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

// SavingsRecord is a tagged variant: Kind selects which of the variant
// field groups is meaningful. One-time savings carry Amount and an
// optional expiry; recurring deposits carry the plan fields and the
// ordered payment history.
type SavingsRecord struct {
	ID        string        `json:"_id"`
	Kind      SavingsKind   `json:"type"`
	Name      string        `json:"name"`
	Status    SavingsStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	ClosedAt  *time.Time    `json:"closedAt,omitempty"`

	// One-time fields. Amount is also maintained for recurring records
	// as the running total of deposits.
	Amount    decimal.Decimal `json:"amount"`
	ExpiresAt *time.Time      `json:"expiresAt,omitempty"`

	// Recurring fields.
	MonthlyAmount decimal.Decimal `json:"rdMonthly,omitempty"`
	TenureMonths  int             `json:"rdMonths,omitempty"`
	StartDate     time.Time       `json:"rdStart,omitempty"`
	PaidEntries   []DepositEntry  `json:"entries,omitempty"`
}

// IsRecurring reports whether the record is a recurring deposit plan.
func (s *SavingsRecord) IsRecurring() bool {
	return s.Kind == SavingsRecurring
}

// IsClosed reports whether the record has reached its terminal state.
func (s *SavingsRecord) IsClosed() bool {
	return s.Status == SavingsClosed
}

// NewOneTimeSaving builds an active one-time saving.
func NewOneTimeSaving(name string, amount decimal.Decimal, expiresAt *time.Time, createdAt time.Time) SavingsRecord {
	return SavingsRecord{
		Kind:      SavingsOneTime,
		Name:      name,
		Status:    SavingsActive,
		CreatedAt: createdAt,
		Amount:    amount,
		ExpiresAt: expiresAt,
	}
}

// NewRecurringSaving builds an active recurring-deposit plan with an
// empty payment history.
func NewRecurringSaving(name string, monthly decimal.Decimal, tenureMonths int, startDate, createdAt time.Time) SavingsRecord {
	return SavingsRecord{
		Kind:          SavingsRecurring,
		Name:          name,
		Status:        SavingsActive,
		CreatedAt:     createdAt,
		MonthlyAmount: monthly,
		TenureMonths:  tenureMonths,
		StartDate:     startDate,
	}
}
