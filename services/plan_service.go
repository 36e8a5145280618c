package services

import (
	"context"
	"math"
)

type PlanLimits struct {
	MaxAttendees int
	MaxEvents    int
	Features     []string
}

// unlimited stands in for plans with no numeric ceiling.
const unlimited = math.MaxInt

var planLimits = map[string]PlanLimits{
	"free": {
		MaxAttendees: 0,
		MaxEvents:    0,
		Features:     []string{"Basic attendee features"},
	},
	"starter": {
		MaxAttendees: 500,
		MaxEvents:    5,
		Features: []string{
			"Up to 500 attendees per event",
			"Up to 5 events",
			"Basic analytics",
			"Email support",
		},
	},
	"professional": {
		MaxAttendees: 2000,
		MaxEvents:    20,
		Features: []string{
			"Up to 2,000 attendees per event",
			"Up to 20 events",
			"Advanced analytics",
			"AI matchmaking",
			"Priority support",
		},
	},
	"enterprise": {
		MaxAttendees: unlimited,
		MaxEvents:    unlimited,
		Features: []string{
			"Unlimited attendees",
			"Unlimited events",
			"Custom analytics",
			"White-label options",
			"Dedicated support",
			"API access",
		},
	},
}

type UsageCheck struct {
	Allowed bool `json:"allowed"`
	Limit   int  `json:"limit"`
	Current int  `json:"current"`
}

// PlanService resolves a user's plan from their active subscription and
// answers usage-limit questions for event and attendee creation.
type PlanService struct {
	subscriptions *SubscriptionService
}

func NewPlanService(subscriptions *SubscriptionService) *PlanService {
	return &PlanService{subscriptions: subscriptions}
}

// Plan returns the user's current plan; no active subscription means free.
func (s *PlanService) Plan(ctx context.Context, userID string) (string, error) {
	sub, err := s.subscriptions.ActiveByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if sub == nil || sub.Status != "active" {
		return "free", nil
	}
	return sub.Plan, nil
}

func (s *PlanService) CheckUsage(ctx context.Context, userID, limitType string, currentCount int) (UsageCheck, error) {
	plan, err := s.Plan(ctx, userID)
	if err != nil {
		return UsageCheck{}, err
	}

	limits, ok := planLimits[plan]
	if !ok {
		limits = planLimits["free"]
	}

	limit := limits.MaxEvents
	if limitType == "attendees" {
		limit = limits.MaxAttendees
	}

	return UsageCheck{
		Allowed: currentCount < limit,
		Limit:   limit,
		Current: currentCount,
	}, nil
}

func (s *PlanService) CanCreateEvent(ctx context.Context, userID string, currentEventCount int) (bool, error) {
	check, err := s.CheckUsage(ctx, userID, "events", currentEventCount)
	if err != nil {
		return false, err
	}
	return check.Allowed, nil
}

func (s *PlanService) CanAddAttendee(ctx context.Context, userID string, currentAttendeeCount int) (bool, error) {
	check, err := s.CheckUsage(ctx, userID, "attendees", currentAttendeeCount)
	if err != nil {
		return false, err
	}
	return check.Allowed, nil
}

func PlanFeatures(plan string) []string {
	limits, ok := planLimits[plan]
	if !ok {
		return planLimits["free"].Features
	}
	return limits.Features
}
