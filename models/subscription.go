package models

import (
	"time"
)

type Subscription struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId"`
	Plan                 string    `json:"plan"` // starter, professional, enterprise
	StripeSubscriptionID string    `json:"stripeSubscriptionId"`
	StripeCustomerID     string    `json:"stripeCustomerId"`
	Status               string    `json:"status"` // active, canceled, past_due, trialing
	CurrentPeriodStart   time.Time `json:"currentPeriodStart"`
	CurrentPeriodEnd     time.Time `json:"currentPeriodEnd"`
	CancelAtPeriodEnd    bool      `json:"cancelAtPeriodEnd"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}
