package models

import (
	"time"
)

type UserProfile struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Title              string    `json:"title,omitempty"`
	Company            string    `json:"company,omitempty"`
	Avatar             string    `json:"avatar,omitempty"`
	Interests          []string  `json:"interests"`
	Goals              string    `json:"goals,omitempty"`
	Role               string    `json:"role"`               // attendee, organizer, speaker, sponsor, admin
	SubscriptionStatus string    `json:"subscriptionStatus"` // free, starter, professional, enterprise
	SubscriptionID     string    `json:"subscriptionId,omitempty"`
	StripeCustomerID   string    `json:"stripeCustomerId,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
