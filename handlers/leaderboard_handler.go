package handlers

import (
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"eventwise/services"
)

type LeaderboardHandler struct {
	leaderboard *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboard *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// GetLeaderboard - top entries for an event, default 10
func (h *LeaderboardHandler) GetLeaderboard(e *core.RequestEvent) error {
	eventID := e.Request.URL.Query().Get("eventId")
	if eventID == "" {
		return apis.NewBadRequestError("eventId is required", nil)
	}

	limit := 0
	if raw := e.Request.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return apis.NewBadRequestError("Invalid limit", err)
		}
		limit = parsed
	}

	entries, err := h.leaderboard.Top(e.Request.Context(), eventID, limit)
	if err != nil {
		return apis.NewBadRequestError("Failed to load leaderboard", err)
	}
	return e.JSON(http.StatusOK, entries)
}
