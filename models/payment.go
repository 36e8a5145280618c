package models

import (
	"time"
)

// Payment is an immutable record of a single payment attempt or result.
type Payment struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"userId"`
	EventID               string    `json:"eventId,omitempty"`
	Type                  string    `json:"type"`   // ticket, subscription, sponsorship
	Amount                float64   `json:"amount"` // major units
	Currency              string    `json:"currency"`
	Status                string    `json:"status"` // pending, succeeded, failed, refunded
	StripePaymentIntentID string    `json:"stripePaymentIntentId,omitempty"`
	TicketID              string    `json:"ticketId,omitempty"`
	SubscriptionID        string    `json:"subscriptionId,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}
