package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jeswinjohn/ledgerd/internal/ledger"
)

func TestGamificationView_RemoteLeaderboardPreferred(t *testing.T) {
	remote := &stubRemote{
		transactions: []ledger.Transaction{
			{ID: "t-1", Kind: ledger.TransactionIncome, Title: "Salary", Amount: decimal.NewFromInt(20000), Date: testNow},
		},
		leaderboard: []ledger.LeaderboardEntry{
			{Subject: "alice", NetSavings: decimal.NewFromInt(900), XP: 90},
		},
	}
	svc, _ := newTestFixture(t, remote)

	view := svc.Gamification.View(context.Background())
	assert.Len(t, view.Leaderboard, 1)
	assert.Equal(t, "alice", view.Leaderboard[0].Subject)

	// 20000 saved → 2000 XP → level 3.
	assert.Equal(t, int64(2000), view.Score.XP)
	assert.Equal(t, int64(3), view.Score.Level)
}

func TestGamificationView_EmptyRemoteLeaderboardDerivesFallback(t *testing.T) {
	remote := &stubRemote{
		transactions: []ledger.Transaction{
			{ID: "t-1", Kind: ledger.TransactionIncome, Title: "Salary", Amount: decimal.NewFromInt(500), Date: testNow},
		},
	}
	svc, _ := newTestFixture(t, remote)

	view := svc.Gamification.View(context.Background())
	assert.Len(t, view.Leaderboard, 1)
	assert.Equal(t, "You", view.Leaderboard[0].Subject)
	assert.True(t, view.Leaderboard[0].NetSavings.Equal(decimal.NewFromInt(500)))
}

func TestGamificationView_OfflineDerivesFromCache(t *testing.T) {
	remote := &stubRemote{
		transactions: []ledger.Transaction{
			{ID: "t-1", Kind: ledger.TransactionIncome, Title: "Salary", Amount: decimal.NewFromInt(500), UserID: "alice", Date: testNow},
		},
	}
	svc, _ := newTestFixture(t, remote)

	// Warm the cache, then lose the remote including its leaderboard.
	svc.Gamification.View(context.Background())
	remote.offline = true

	view := svc.Gamification.View(context.Background())
	assert.Len(t, view.Leaderboard, 1)
	assert.Equal(t, "alice", view.Leaderboard[0].Subject)
}

func TestGamificationView_BadgesFromCurrentAggregates(t *testing.T) {
	remote := &stubRemote{
		transactions: []ledger.Transaction{
			{ID: "t-1", Kind: ledger.TransactionIncome, Title: "Salary", Amount: decimal.NewFromInt(20000), Date: testNow},
			{ID: "t-2", Kind: ledger.TransactionExpense, Title: "Rent", Amount: decimal.NewFromInt(4000), Date: testNow},
		},
	}
	svc, _ := newTestFixture(t, remote)

	view := svc.Gamification.View(context.Background())

	ids := make([]string, len(view.Badges))
	for i, b := range view.Badges {
		ids[i] = b.ID
	}
	assert.Contains(t, ids, "saver-pro")
	assert.Contains(t, ids, "budget-master")
	assert.Len(t, view.Monthly, 1)
	assert.Len(t, view.Daily, 1)
}
