package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"eventwise/services"
)

type AnalyticsHandler struct {
	events    *services.EventService
	sessions  *services.SessionService
	attendees *services.AttendeeService
	tickets   *services.TicketService
	users     *services.UserService
}

func NewAnalyticsHandler(events *services.EventService, sessions *services.SessionService, attendees *services.AttendeeService, tickets *services.TicketService, users *services.UserService) *AnalyticsHandler {
	return &AnalyticsHandler{
		events:    events,
		sessions:  sessions,
		attendees: attendees,
		tickets:   tickets,
		users:     users,
	}
}

// GetEventAnalytics - headline numbers for one event: attendance,
// engagement and ticket revenue. Organizer of the event or admin only.
func (h *AnalyticsHandler) GetEventAnalytics(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}

	eventID := e.Request.URL.Query().Get("eventId")
	if eventID == "" {
		return apis.NewBadRequestError("eventId is required", nil)
	}

	ctx := e.Request.Context()
	event, err := h.events.Get(ctx, eventID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load event", err)
	}
	if event == nil {
		return apis.NewNotFoundError("Event not found", nil)
	}
	if event.OrganizerID != profile.ID && profile.Role != "admin" {
		return apis.NewForbiddenError("Only the organizer can view analytics", nil)
	}

	attendees, err := h.attendees.ListByEvent(ctx, eventID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load attendees", err)
	}
	sessions, err := h.sessions.ListByEvent(ctx, eventID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load sessions", err)
	}
	tickets, err := h.tickets.ListByEvent(ctx, eventID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load tickets", err)
	}

	totalConnections := 0
	totalPoints := 0
	for _, a := range attendees {
		totalConnections += len(a.Connections)
		totalPoints += a.Points
	}

	ticketsSold := 0
	revenue := decimal.Zero
	for _, t := range tickets {
		if t.Status == "confirmed" || t.Status == "used" {
			ticketsSold++
			revenue = revenue.Add(decimal.NewFromFloat(t.Price))
		}
	}
	revenueTotal, _ := revenue.Round(2).Float64()

	return e.JSON(http.StatusOK, map[string]any{
		"eventId":        eventID,
		"attendeeCount":  len(attendees),
		"sessionCount":   len(sessions),
		"ticketsSold":    ticketsSold,
		"ticketRevenue":  revenueTotal,
		"connections":    totalConnections / 2, // stored on both sides
		"pointsAwarded":  totalPoints,
		"avgConnections": avgPerAttendee(totalConnections/2, len(attendees)),
	})
}

func avgPerAttendee(total, attendees int) float64 {
	if attendees == 0 {
		return 0
	}
	avg, _ := decimal.NewFromInt(int64(total)).
		Div(decimal.NewFromInt(int64(attendees))).
		Round(2).Float64()
	return avg
}
