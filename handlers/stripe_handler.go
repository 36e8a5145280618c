package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"eventwise/monitoring"
	"eventwise/services"
	"eventwise/services/billing"
)

// Stripe caps webhook payloads well below this; anything larger is bogus.
const maxWebhookBodyBytes = 1 << 16

type StripeHandler struct {
	gateway   *billing.StripeGateway
	processor *billing.Processor
	users     *services.UserService
}

func NewStripeHandler(gateway *billing.StripeGateway, processor *billing.Processor, users *services.UserService) *StripeHandler {
	return &StripeHandler{
		gateway:   gateway,
		processor: processor,
		users:     users,
	}
}

// CreateCheckout - one-time payment checkout for an arbitrary price
func (h *StripeHandler) CreateCheckout(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}

	var req struct {
		PriceID string `json:"priceId"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}
	if req.PriceID == "" {
		return apis.NewBadRequestError("priceId is required", nil)
	}

	session, err := h.gateway.CreateCheckoutSession(e.Request.Context(), billing.CheckoutParams{
		PriceID: req.PriceID,
		UserID:  profile.ID,
		Email:   profile.Email,
	})
	if err != nil {
		monitoring.TrackCheckoutSession("payment", "error")
		return apis.NewBadRequestError("Failed to create checkout session", err)
	}
	monitoring.TrackCheckoutSession("payment", "created")

	return e.JSON(http.StatusOK, map[string]any{
		"sessionId": session.ID,
		"url":       session.URL,
	})
}

// Webhook - Stripe event intake. Signature failures are 400 so Stripe stops
// retrying; processing failures are 500 so it retries later.
func (h *StripeHandler) Webhook(e *core.RequestEvent) error {
	payload, err := io.ReadAll(io.LimitReader(e.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		return apis.NewBadRequestError("Failed to read webhook body", err)
	}

	event, err := h.processor.VerifyAndParse(payload, e.Request.Header.Get("Stripe-Signature"))
	if err != nil {
		slog.Warn("webhook signature verification failed", "error", err)
		return apis.NewBadRequestError("Invalid webhook signature", err)
	}

	if err := h.processor.Process(e.Request.Context(), event); err != nil {
		slog.Error("webhook processing failed", "event_id", event.ID, "type", event.Type, "error", err)
		return e.JSON(http.StatusInternalServerError, map[string]any{"error": "processing failed"})
	}

	return e.JSON(http.StatusOK, map[string]any{"received": true})
}
