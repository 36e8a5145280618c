package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"eventwise/models"
	"eventwise/services"
	"eventwise/services/billing"
	"eventwise/utils"
)

type TicketHandler struct {
	tickets  *services.TicketService
	payments *services.PaymentService
	events   *services.EventService
	users    *services.UserService
	gateway  *billing.StripeGateway
}

func NewTicketHandler(tickets *services.TicketService, payments *services.PaymentService, events *services.EventService, users *services.UserService, gateway *billing.StripeGateway) *TicketHandler {
	return &TicketHandler{
		tickets:  tickets,
		payments: payments,
		events:   events,
		users:    users,
		gateway:  gateway,
	}
}

// PurchaseTicket - creates a payment intent plus a pending ticket and
// payment record. The ticket flips to confirmed when the payment webhook
// arrives; until then the QR code is already issued but the status gates it.
func (h *TicketHandler) PurchaseTicket(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}
	if err := requirePermission(profile, "tickets", "purchase"); err != nil {
		return err
	}

	var req struct {
		EventID    string `json:"eventId"`
		TicketType string `json:"ticketType"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}
	if req.EventID == "" {
		return apis.NewBadRequestError("eventId is required", nil)
	}

	ctx := e.Request.Context()
	event, err := h.events.Get(ctx, req.EventID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load event", err)
	}
	if event == nil {
		return apis.NewNotFoundError("Event not found", nil)
	}

	base, fee, total := services.PriceWithFee(req.TicketType)
	amountMinor := decimal.NewFromFloat(total).Mul(decimal.NewFromInt(100)).IntPart()

	intent, err := h.gateway.CreatePaymentIntent(ctx, billing.PaymentIntentParams{
		AmountMinor: amountMinor,
		UserID:      profile.ID,
		EventID:     req.EventID,
		TicketType:  req.TicketType,
	})
	if err != nil {
		return apis.NewBadRequestError("Failed to start payment", err)
	}

	ticket := models.Ticket{
		EventID:    req.EventID,
		UserID:     profile.ID,
		TicketType: req.TicketType,
		Price:      total,
		Status:     "pending",
		PaymentID:  intent.ID,
	}

	ticketID, err := h.tickets.Create(ctx, &ticket)
	if err != nil {
		return apis.NewBadRequestError("Failed to create ticket", err)
	}
	ticket.ID = ticketID

	qr, err := utils.TicketQRCode(models.QRPayload{
		TicketID:   ticketID,
		EventID:    req.EventID,
		UserID:     profile.ID,
		TicketType: ticket.TicketType,
	})
	if err != nil {
		return apis.NewBadRequestError("Failed to generate ticket QR code", err)
	}
	if err := h.tickets.Update(ctx, ticketID, map[string]any{"qrCode": qr}); err != nil {
		return apis.NewBadRequestError("Failed to save ticket QR code", err)
	}
	ticket.QRCode = qr

	if _, err := h.payments.Create(ctx, &models.Payment{
		UserID:                profile.ID,
		EventID:               req.EventID,
		Type:                  "ticket",
		Amount:                total,
		Currency:              "usd",
		Status:                "pending",
		StripePaymentIntentID: intent.ID,
		TicketID:              ticketID,
	}); err != nil {
		return apis.NewBadRequestError("Failed to record payment", err)
	}

	confirmationCode, err := utils.GenerateCode(4)
	if err != nil {
		return apis.NewBadRequestError("Failed to generate confirmation code", err)
	}

	return e.JSON(http.StatusCreated, map[string]any{
		"ticket":           ticket,
		"clientSecret":     intent.ClientSecret,
		"confirmationCode": confirmationCode,
		"pricing": map[string]any{
			"base":  base,
			"fee":   fee,
			"total": total,
		},
	})
}

// ListMyTickets - the caller's tickets, newest first
func (h *TicketHandler) ListMyTickets(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}

	tickets, err := h.tickets.ListByUser(e.Request.Context(), profile.ID)
	if err != nil {
		return apis.NewBadRequestError("Failed to list tickets", err)
	}
	return e.JSON(http.StatusOK, tickets)
}

func (h *TicketHandler) GetTicket(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}

	ticket, err := h.tickets.Get(e.Request.Context(), e.Request.PathValue("ticketId"))
	if err != nil {
		return apis.NewBadRequestError("Failed to load ticket", err)
	}
	if ticket == nil {
		return apis.NewNotFoundError("Ticket not found", nil)
	}
	if ticket.UserID != profile.ID && profile.Role != "admin" && profile.Role != "organizer" {
		return apis.NewForbiddenError("Not your ticket", nil)
	}
	return e.JSON(http.StatusOK, ticket)
}
