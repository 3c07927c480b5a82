// Package ledger holds the domain model shared by the sync store and the
// derivation engines: transactions, savings records, notes, and the
// coercion rules applied to raw input.
package ledger

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

func init() {
	// The remote API stores amounts as bare JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// localIDPrefix tags records synthesized while the remote store was
// unreachable. Remote ids never carry this prefix.
const localIDPrefix = "local-"

// NewLocalID returns a cache-only identifier for a locally-originated record.
func NewLocalID() string {
	return localIDPrefix + uuid.Must(uuid.NewV4()).String()
}

// IsLocalID reports whether id was synthesized locally rather than
// assigned by the remote store.
func IsLocalID(id string) bool {
	return len(id) > len(localIDPrefix) && id[:len(localIDPrefix)] == localIDPrefix
}

// CoerceAmount resolves a raw amount string to a stored value. Malformed
// input and negative values both coerce to zero rather than being rejected.
func CoerceAmount(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ClampAmount floors a parsed amount at zero.
func ClampAmount(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// CoerceDate substitutes now for a missing date.
func CoerceDate(t, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t
}

// DayKey formats a time as the calendar-day key used by notes and daily
// buckets, in the given location.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
