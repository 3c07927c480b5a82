package service

import (
	"github.com/jeswinjohn/ledgerd/internal/aggregate"
	"github.com/jeswinjohn/ledgerd/internal/budget"
	"github.com/jeswinjohn/ledgerd/internal/ledger"
	"github.com/jeswinjohn/ledgerd/internal/savings"
)

// SavingsView is a savings record with its derived schedule state.
// Projection is nil for one-time savings.
type SavingsView struct {
	Record     ledger.SavingsRecord
	Projection *savings.Projection
}

// DashboardView is one consistent snapshot of the dashboard: both lists
// originate from the same joint fetch, so they are either both remote or
// both cached.
type DashboardView struct {
	Transactions []ledger.Transaction
	Savings      []SavingsView
	Totals       aggregate.Totals
	Budget       budget.Policy
}
