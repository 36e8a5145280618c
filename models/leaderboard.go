package models

import (
	"time"
)

// LeaderboardEntry is derived state keyed by (userId, eventId). Rank is
// advisory and not recomputed transactionally.
type LeaderboardEntry struct {
	ID          string    `json:"id"` // userId_eventId
	UserID      string    `json:"userId"`
	EventID     string    `json:"eventId"`
	Name        string    `json:"name"`
	Avatar      string    `json:"avatar,omitempty"`
	Points      int       `json:"points"`
	Rank        int       `json:"rank"`
	Change      string    `json:"change"` // up, down, same
	LastUpdated time.Time `json:"lastUpdated"`
}
