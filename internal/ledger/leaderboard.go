package ledger

import "github.com/shopspring/decimal"

// LeaderboardEntry is one subject's row on the savings leaderboard,
// either remote-sourced or derived from transaction history.
type LeaderboardEntry struct {
	Subject    string          `json:"name"`
	NetSavings decimal.Decimal `json:"savings"`
	XP         int64           `json:"xp"`
}
