package models

import (
	"time"
)

type Sponsor struct {
	ID        string           `json:"id"`
	EventID   string           `json:"eventId"`
	Name      string           `json:"name"`
	LogoURL   string           `json:"logoUrl,omitempty"`
	Website   string           `json:"website,omitempty"`
	Tier      string           `json:"tier"`      // gold, silver, bronze
	Placement []string         `json:"placement"` // discovery, matchmaking, resource-hub
	Materials SponsorMaterials `json:"materials"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type SponsorMaterials struct {
	Brochures []string `json:"brochures,omitempty"`
	Videos    []string `json:"videos,omitempty"`
}
