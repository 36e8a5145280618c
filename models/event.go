package models

import (
	"time"
)

type Event struct {
	ID          string        `json:"id"`
	OrganizerID string        `json:"organizerId"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	StartDate   time.Time     `json:"startDate"`
	EndDate     time.Time     `json:"endDate"`
	Venue       string        `json:"venue,omitempty"`
	VenueMapURL string        `json:"venueMapUrl,omitempty"`
	Branding    EventBranding `json:"branding"`
	Settings    EventSettings `json:"settings"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type EventBranding struct {
	PrimaryColor string `json:"primaryColor,omitempty"`
	LogoURL      string `json:"logoUrl,omitempty"`
}

type EventSettings struct {
	AllowPublicRegistration bool `json:"allowPublicRegistration"`
	RequireApproval         bool `json:"requireApproval"`
}
