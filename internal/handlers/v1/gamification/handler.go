package gamification

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jeswinjohn/ledgerd/internal/logging"
	"github.com/jeswinjohn/ledgerd/internal/service"
)

// viewProvider is the slice of the gamification service this handler
// needs.
type viewProvider interface {
	View(ctx context.Context) service.GamificationView
}

// Handler handles the gamification endpoint.
type Handler struct {
	Gamification viewProvider
}

// NewHandler creates a new gamification Handler.
func NewHandler(svc viewProvider) *Handler {
	return &Handler{Gamification: svc}
}

// Register registers the gamification endpoint with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-gamification",
		Method:      http.MethodGet,
		Path:        "/v1/gamification",
		Summary:     "Get gamification state",
		Description: "Returns XP, level, earned badges, and the leaderboard. When the remote leaderboard is unavailable one is derived locally from transaction history.",
		Tags:        []string{"Gamification"},
	}, h.handleGet)
}

// Badge is the API model of an earned badge.
type Badge struct {
	ID          string `json:"id" doc:"Badge id"`
	Title       string `json:"title" doc:"Display title"`
	Description string `json:"description" doc:"How the badge was earned"`
}

// LeaderboardEntry is one ranked participant.
type LeaderboardEntry struct {
	Name    string `json:"name" doc:"Participant name"`
	Savings string `json:"savings" doc:"Net savings, floored at zero"`
	XP      int64  `json:"xp" doc:"Experience points"`
}

// GetGamificationResponseBody is the derived gamification state.
type GetGamificationResponseBody struct {
	XP           int64              `json:"xp" doc:"Experience points"`
	Level        int64              `json:"level" doc:"Level derived from XP"`
	TotalSavings string             `json:"totalSavings" doc:"Net savings across all months"`
	Badges       []Badge            `json:"badges" doc:"Earned badges"`
	Leaderboard  []LeaderboardEntry `json:"leaderboard" doc:"Ranked participants"`
}

// GetGamificationOutput is the Huma output for the gamification state.
type GetGamificationOutput struct {
	Body GetGamificationResponseBody
}

func (h *Handler) handleGet(ctx context.Context, _ *struct{}) (*GetGamificationOutput, error) {
	view := h.Gamification.View(ctx)

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("badgeCount", len(view.Badges))
	}

	badges := make([]Badge, len(view.Badges))
	for i, b := range view.Badges {
		badges[i] = Badge{ID: b.ID, Title: b.Title, Description: b.Description}
	}

	leaderboard := make([]LeaderboardEntry, len(view.Leaderboard))
	for i, entry := range view.Leaderboard {
		leaderboard[i] = LeaderboardEntry{
			Name:    entry.Subject,
			Savings: entry.NetSavings.String(),
			XP:      entry.XP,
		}
	}

	return &GetGamificationOutput{
		Body: GetGamificationResponseBody{
			XP:           view.Score.XP,
			Level:        view.Score.Level,
			TotalSavings: view.Score.TotalSavings.String(),
			Badges:       badges,
			Leaderboard:  leaderboard,
		},
	}, nil
}
