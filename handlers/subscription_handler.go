package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"eventwise/config"
	"eventwise/monitoring"
	"eventwise/services"
	"eventwise/services/billing"
	"eventwise/store"
)

type SubscriptionHandler struct {
	cfg           *config.Config
	gateway       *billing.StripeGateway
	subscriptions *services.SubscriptionService
	plans         *services.PlanService
	users         *services.UserService
}

func NewSubscriptionHandler(cfg *config.Config, gateway *billing.StripeGateway, subscriptions *services.SubscriptionService, plans *services.PlanService, users *services.UserService) *SubscriptionHandler {
	return &SubscriptionHandler{
		cfg:           cfg,
		gateway:       gateway,
		subscriptions: subscriptions,
		plans:         plans,
		users:         users,
	}
}

// GetSubscription - the caller's subscription, resolved plan and features
func (h *SubscriptionHandler) GetSubscription(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}

	ctx := e.Request.Context()
	sub, err := h.subscriptions.ByUser(ctx, profile.ID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load subscription", err)
	}

	plan, err := h.plans.Plan(ctx, profile.ID)
	if err != nil {
		return apis.NewBadRequestError("Failed to resolve plan", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"subscription": sub,
		"plan":         plan,
		"features":     services.PlanFeatures(plan),
	})
}

// CreateSubscription - opens a Stripe subscription checkout for a plan
func (h *SubscriptionHandler) CreateSubscription(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}

	var req struct {
		Plan string `json:"plan"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	priceID := h.cfg.PriceForPlan(req.Plan)
	if priceID == "" {
		return apis.NewBadRequestError("Unknown plan", nil)
	}

	session, err := h.gateway.CreateSubscriptionCheckout(e.Request.Context(), billing.CheckoutParams{
		PriceID: priceID,
		UserID:  profile.ID,
		Email:   profile.Email,
	})
	if err != nil {
		monitoring.TrackCheckoutSession("subscription", "error")
		return apis.NewBadRequestError("Failed to create checkout session", err)
	}
	monitoring.TrackCheckoutSession("subscription", "created")

	return e.JSON(http.StatusOK, map[string]any{
		"sessionId": session.ID,
		"url":       session.URL,
	})
}

// ManageSubscription - cancel, resume, upgrade or downgrade the caller's
// active subscription. Plan changes invoice the proration immediately; the
// local record is reconciled by the subsequent webhook.
func (h *SubscriptionHandler) ManageSubscription(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}

	var req struct {
		Action string `json:"action"`
		Plan   string `json:"plan,omitempty"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	ctx := e.Request.Context()
	sub, err := h.subscriptions.ActiveByUser(ctx, profile.ID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load subscription", err)
	}
	if sub == nil {
		return apis.NewNotFoundError("No active subscription", nil)
	}

	switch req.Action {
	case "cancel":
		if err := h.gateway.SetCancelAtPeriodEnd(ctx, sub.StripeSubscriptionID, true); err != nil {
			return apis.NewBadRequestError("Failed to cancel subscription", err)
		}
		if err := h.subscriptions.Update(ctx, sub.ID, store.Document{"cancelAtPeriodEnd": true}); err != nil {
			return apis.NewBadRequestError("Failed to update subscription", err)
		}

	case "resume":
		if err := h.gateway.SetCancelAtPeriodEnd(ctx, sub.StripeSubscriptionID, false); err != nil {
			return apis.NewBadRequestError("Failed to resume subscription", err)
		}
		if err := h.subscriptions.Update(ctx, sub.ID, store.Document{"cancelAtPeriodEnd": false}); err != nil {
			return apis.NewBadRequestError("Failed to update subscription", err)
		}

	case "upgrade", "downgrade":
		priceID := h.cfg.PriceForPlan(req.Plan)
		if priceID == "" {
			return apis.NewBadRequestError("Unknown plan", nil)
		}
		if req.Plan == sub.Plan {
			return apis.NewBadRequestError("Already on that plan", nil)
		}
		if err := h.gateway.ChangePlan(ctx, sub.StripeSubscriptionID, priceID); err != nil {
			return apis.NewBadRequestError("Failed to change plan", err)
		}
		if err := h.subscriptions.Update(ctx, sub.ID, store.Document{"plan": req.Plan}); err != nil {
			return apis.NewBadRequestError("Failed to update subscription", err)
		}
		if err := h.users.Update(ctx, profile.ID, store.Document{"subscriptionStatus": req.Plan}); err != nil {
			return apis.NewBadRequestError("Failed to update profile", err)
		}

	default:
		return apis.NewBadRequestError("Unknown action", nil)
	}

	updated, err := h.subscriptions.Get(ctx, sub.ID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load subscription", err)
	}
	return e.JSON(http.StatusOK, updated)
}
