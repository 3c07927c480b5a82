// Package analytics derives the gamification view from aggregates:
// XP and level, the badge set, and the fallback leaderboard. Everything
// here is a pure function of its inputs, re-evaluated from scratch on
// every call; nothing is persisted or memoized.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jeswinjohn/ledgerd/internal/aggregate"
	"github.com/jeswinjohn/ledgerd/internal/ledger"
)

const (
	// xpFloor is the minimum XP regardless of savings.
	xpFloor = 1200
	// xpPerUnit is the savings amount worth one XP.
	xpPerUnit = 10
	// xpPerLevel is the XP span of one level.
	xpPerLevel = 1000
)

// Score is the derived XP and level.
type Score struct {
	XP           int64
	Level        int64
	TotalSavings decimal.Decimal
}

// ComputeScore derives XP from total savings across all monthly buckets:
// one XP per ten saved, floored at the minimum.
func ComputeScore(monthly []aggregate.Bucket) Score {
	total := decimal.Zero
	for _, b := range monthly {
		total = total.Add(b.Savings())
	}

	xp := total.Div(decimal.NewFromInt(xpPerUnit)).Floor().IntPart()
	if xp < xpFloor {
		xp = xpFloor
	}

	return Score{
		XP:           xp,
		Level:        xp/xpPerLevel + 1,
		TotalSavings: total,
	}
}

// Badge is an earned achievement. Badges are recomputed on every call;
// multiple badges may be active at once.
type Badge struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Thresholds parameterizes the badge rules. The rule set is fixed; the
// numbers are not.
type Thresholds struct {
	MonthSavings     decimal.Decimal
	DaySavings       decimal.Decimal
	ExpenseRatio     decimal.Decimal
	ActiveMonths     int
	TransactionCount int
	BestMonthSavings decimal.Decimal
	BestDaySavings   decimal.Decimal
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MonthSavings:     decimal.NewFromInt(5000),
		DaySavings:       decimal.Zero,
		ExpenseRatio:     decimal.NewFromFloat(0.6),
		ActiveMonths:     3,
		TransactionCount: 10,
		BestMonthSavings: decimal.NewFromInt(10000),
		BestDaySavings:   decimal.NewFromInt(5000),
	}
}

// EvaluateBadges runs every badge predicate against the current
// aggregates. Rules are independent and stateless.
func EvaluateBadges(
	now time.Time,
	loc *time.Location,
	monthly, daily []aggregate.Bucket,
	transactionCount int,
	th Thresholds,
) []Badge {
	var badges []Badge

	currentMonthKey := aggregate.Month.Key(now, loc)
	todayKey := aggregate.Day.Key(now, loc)

	if b, ok := aggregate.Find(monthly, currentMonthKey); ok && b.Savings().GreaterThan(th.MonthSavings) {
		badges = append(badges, Badge{
			ID:          "saver-pro",
			Title:       "Saver Pro",
			Description: fmt.Sprintf("Saved %s this month", b.Savings()),
		})
	}

	if b, ok := aggregate.Find(daily, todayKey); ok && b.Savings().GreaterThan(th.DaySavings) {
		badges = append(badges, Badge{
			ID:          "daily-saver",
			Title:       "Daily Saver",
			Description: fmt.Sprintf("Saved %s today", b.Savings()),
		})
	}

	if b, ok := aggregate.Find(monthly, currentMonthKey); ok && b.Income.IsPositive() {
		ratio := b.Expense.Div(b.Income)
		if ratio.LessThan(th.ExpenseRatio) {
			badges = append(badges, Badge{
				ID:          "budget-master",
				Title:       "Budget Master",
				Description: fmt.Sprintf("Spent only %s%% of income", ratio.Mul(decimal.NewFromInt(100)).Round(0)),
			})
		}
	}

	if len(monthly) >= th.ActiveMonths {
		badges = append(badges, Badge{
			ID:          "consistency-king",
			Title:       "Consistency King",
			Description: fmt.Sprintf("Tracking for %d months", len(monthly)),
		})
	}

	if transactionCount > th.TransactionCount {
		badges = append(badges, Badge{
			ID:          "finance-tracker",
			Title:       "Finance Tracker",
			Description: fmt.Sprintf("Logged %d transactions", transactionCount),
		})
	}

	if b, ok := aggregate.Extremum(monthly, aggregate.FieldSavings, aggregate.MaxDirection); ok &&
		b.Savings().GreaterThan(th.BestMonthSavings) {
		badges = append(badges, Badge{
			ID:          "savings-champion",
			Title:       "Savings Champion",
			Description: fmt.Sprintf("Saved %s in %s", b.Savings(), b.Key),
		})
	}

	if b, ok := aggregate.Extremum(daily, aggregate.FieldSavings, aggregate.MaxDirection); ok &&
		b.Savings().GreaterThan(th.BestDaySavings) {
		badges = append(badges, Badge{
			ID:          "star-day",
			Title:       "Star Day",
			Description: fmt.Sprintf("Saved %s on %s", b.Savings(), b.Key),
		})
	}

	if b, ok := aggregate.LowestPositiveExpense(monthly); ok {
		badges = append(badges, Badge{
			ID:          "frugal-spender",
			Title:       "Frugal Spender",
			Description: fmt.Sprintf("Only spent %s in %s", b.Expense, b.Key),
		})
	}

	if b, ok := aggregate.LowestPositiveExpense(daily); ok {
		badges = append(badges, Badge{
			ID:          "minimalist-day",
			Title:       "Minimalist Day",
			Description: fmt.Sprintf("Only spent %s on %s", b.Expense, b.Key),
		})
	}

	return badges
}

// defaultSubject groups transactions that carry no subject identifier.
const defaultSubject = "You"

// DeriveLeaderboard builds the fallback leaderboard from transaction
// history when the remote one is unavailable. Net savings is floored at
// zero for display; ties keep first-appearance order via stable sort.
func DeriveLeaderboard(transactions []ledger.Transaction) []ledger.LeaderboardEntry {
	totals := make(map[string]decimal.Decimal)
	var order []string

	for _, tx := range transactions {
		subject := tx.UserID
		if subject == "" {
			subject = defaultSubject
		}
		if _, seen := totals[subject]; !seen {
			order = append(order, subject)
		}
		switch tx.Kind {
		case ledger.TransactionIncome:
			totals[subject] = totals[subject].Add(tx.Amount)
		case ledger.TransactionExpense:
			totals[subject] = totals[subject].Sub(tx.Amount)
		}
	}

	entries := make([]ledger.LeaderboardEntry, 0, len(order))
	for _, subject := range order {
		net := totals[subject]
		if net.IsNegative() {
			net = decimal.Zero
		}
		entries = append(entries, ledger.LeaderboardEntry{
			Subject:    subject,
			NetSavings: net,
			XP:         net.Div(decimal.NewFromInt(xpPerUnit)).Floor().IntPart(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].NetSavings.GreaterThan(entries[j].NetSavings)
	})
	return entries
}
