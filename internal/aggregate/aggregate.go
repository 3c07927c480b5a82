// Package aggregate turns raw transactions into time-bucketed summaries.
// All calendar keys derive from wall-clock components in a single caller-
// supplied location so every view agrees on what "today" means.
package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jeswinjohn/ledgerd/internal/ledger"
)

// Granularity selects the calendar key width of a bucket.
type Granularity string

const (
	Day   Granularity = "day"
	Month Granularity = "month"
	Year  Granularity = "year"
)

func (g Granularity) layout() string {
	switch g {
	case Day:
		return "2006-01-02"
	case Year:
		return "2006"
	default:
		return "2006-01"
	}
}

// Key formats t as a bucket key at this granularity.
func (g Granularity) Key(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(g.layout())
}

// Bucket accumulates income and expense for one calendar key. Savings is
// always derived from the two sums, never stored independently.
type Bucket struct {
	Key     string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Savings is income minus expense, computed on read.
func (b Bucket) Savings() decimal.Decimal {
	return b.Income.Sub(b.Expense)
}

// Totals is the overall income/expense/balance summary of a list.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// Sum computes overall totals. Balance is always income − expense.
func Sum(transactions []ledger.Transaction) Totals {
	income := decimal.Zero
	expense := decimal.Zero
	for _, tx := range transactions {
		switch tx.Kind {
		case ledger.TransactionIncome:
			income = income.Add(tx.Amount)
		case ledger.TransactionExpense:
			expense = expense.Add(tx.Amount)
		}
	}
	return Totals{Income: income, Expense: expense, Balance: income.Sub(expense)}
}

// BucketBy groups transactions into buckets keyed at the given
// granularity. The result is sorted ascending by key so map iteration
// order never leaks into consumers.
func BucketBy(transactions []ledger.Transaction, g Granularity, loc *time.Location) []Bucket {
	byKey := make(map[string]*Bucket)
	for _, tx := range transactions {
		key := g.Key(tx.Date, loc)
		bucket, ok := byKey[key]
		if !ok {
			bucket = &Bucket{Key: key, Income: decimal.Zero, Expense: decimal.Zero}
			byKey[key] = bucket
		}
		switch tx.Kind {
		case ledger.TransactionIncome:
			bucket.Income = bucket.Income.Add(tx.Amount)
		case ledger.TransactionExpense:
			bucket.Expense = bucket.Expense.Add(tx.Amount)
		}
	}

	buckets := make([]Bucket, 0, len(byKey))
	for _, bucket := range byKey {
		buckets = append(buckets, *bucket)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

// Find returns the bucket with the given key.
func Find(buckets []Bucket, key string) (Bucket, bool) {
	for _, b := range buckets {
		if b.Key == key {
			return b, true
		}
	}
	return Bucket{}, false
}

// Field selects which bucket value an extremum compares.
type Field string

const (
	FieldSavings Field = "savings"
	FieldExpense Field = "expense"
)

// Direction selects the extremum direction.
type Direction string

const (
	MaxDirection Direction = "max"
	MinDirection Direction = "min"
)

func fieldValue(b Bucket, f Field) decimal.Decimal {
	if f == FieldExpense {
		return b.Expense
	}
	return b.Savings()
}

// Extremum returns the bucket with the extremal field value. Ties resolve
// to the lexicographically smallest key, deterministically across calls.
func Extremum(buckets []Bucket, f Field, d Direction) (Bucket, bool) {
	if len(buckets) == 0 {
		return Bucket{}, false
	}

	sorted := make([]Bucket, len(buckets))
	copy(sorted, buckets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})

	best := sorted[0]
	for _, b := range sorted[1:] {
		v := fieldValue(b, f)
		bestV := fieldValue(best, f)
		// Strict comparison keeps the earlier (smaller) key on ties.
		if d == MaxDirection && v.GreaterThan(bestV) {
			best = b
		}
		if d == MinDirection && v.LessThan(bestV) {
			best = b
		}
	}
	return best, true
}

// LowestPositiveExpense returns the bucket with the smallest strictly
// positive expense. A zero-expense bucket never wins a lowest-spending
// comparison.
func LowestPositiveExpense(buckets []Bucket) (Bucket, bool) {
	positive := make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		if b.Expense.IsPositive() {
			positive = append(positive, b)
		}
	}
	return Extremum(positive, FieldExpense, MinDirection)
}
