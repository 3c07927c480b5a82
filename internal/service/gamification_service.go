package service

import (
	"context"

	"github.com/jeswinjohn/ledgerd/internal/aggregate"
	"github.com/jeswinjohn/ledgerd/internal/analytics"
	"github.com/jeswinjohn/ledgerd/internal/ledger"
	"github.com/jeswinjohn/ledgerd/internal/syncstore"
)

// GamificationView is the full derived gamification state. It is
// recomputed from scratch on every call.
type GamificationView struct {
	Score       analytics.Score
	Badges      []analytics.Badge
	Leaderboard []ledger.LeaderboardEntry
	Monthly     []aggregate.Bucket
	Daily       []aggregate.Bucket
}

// GamificationService derives XP, badges, and the leaderboard from the
// transaction history.
type GamificationService struct {
	store    *syncstore.Store
	settings Settings
}

func NewGamificationService(store *syncstore.Store, settings Settings) *GamificationService {
	return &GamificationService{store: store, settings: settings}
}

// View assembles the gamification state. The remote leaderboard is
// preferred; when it is absent or failing, one is derived from the
// transaction history.
func (s *GamificationService) View(ctx context.Context) GamificationView {
	transactions := s.store.FetchTransactions(ctx)
	monthly := aggregate.BucketBy(transactions, aggregate.Month, s.settings.Location)
	daily := aggregate.BucketBy(transactions, aggregate.Day, s.settings.Location)

	leaderboard, err := s.store.Leaderboard(ctx)
	if err != nil || len(leaderboard) == 0 {
		leaderboard = analytics.DeriveLeaderboard(transactions)
	}

	return GamificationView{
		Score:       analytics.ComputeScore(monthly),
		Badges:      analytics.EvaluateBadges(s.settings.Now(), s.settings.Location, monthly, daily, len(transactions), s.settings.Thresholds),
		Leaderboard: leaderboard,
		Monthly:     monthly,
		Daily:       daily,
	}
}
