package models

import (
	"time"
)

// Attendee is the event-scoped participation record for a user. Connections
// are stored one-directionally and deduplicated on insert.
type Attendee struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	EventID           string    `json:"eventId"`
	Name              string    `json:"name"`
	Title             string    `json:"title,omitempty"`
	Company           string    `json:"company,omitempty"`
	Avatar            string    `json:"avatar,omitempty"`
	Interests         []string  `json:"interests"`
	PersonalityTraits []string  `json:"personalityTraits"`
	Connections       []string  `json:"connections"` // other attendee IDs
	Points            int       `json:"points"`
	SessionsAttended  []string  `json:"sessionsAttended"` // session IDs
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
