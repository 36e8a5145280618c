package models

import (
	"time"
)

// WebhookEvent is the gateway-event ledger used to suppress duplicate
// processing of at-least-once webhook deliveries.
type WebhookEvent struct {
	ID              string    `json:"id"`
	Provider        string    `json:"provider"`
	ProviderEventID string    `json:"providerEventId"`
	EventType       string    `json:"eventType"`
	ProcessedAt     time.Time `json:"processedAt"`
	ProcessingError string    `json:"processingError,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
