package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"eventwise/models"
	"eventwise/services"
)

// Points awarded per accepted connection, credited to both sides.
const connectionPoints = 10

type AttendeeHandler struct {
	attendees   *services.AttendeeService
	events      *services.EventService
	users       *services.UserService
	plans       *services.PlanService
	leaderboard *services.LeaderboardService
}

func NewAttendeeHandler(attendees *services.AttendeeService, events *services.EventService, users *services.UserService, plans *services.PlanService, leaderboard *services.LeaderboardService) *AttendeeHandler {
	return &AttendeeHandler{
		attendees:   attendees,
		events:      events,
		users:       users,
		plans:       plans,
		leaderboard: leaderboard,
	}
}

func (h *AttendeeHandler) ListAttendees(e *core.RequestEvent) error {
	attendees, err := h.attendees.ListByEvent(e.Request.Context(), e.Request.PathValue("eventId"))
	if err != nil {
		return apis.NewBadRequestError("Failed to list attendees", err)
	}
	return e.JSON(http.StatusOK, attendees)
}

func (h *AttendeeHandler) GetAttendee(e *core.RequestEvent) error {
	attendee, err := h.attendees.Get(e.Request.Context(), e.Request.PathValue("attendeeId"))
	if err != nil {
		return apis.NewBadRequestError("Failed to load attendee", err)
	}
	if attendee == nil {
		return apis.NewNotFoundError("Attendee not found", nil)
	}
	return e.JSON(http.StatusOK, attendee)
}

// RegisterAttendee - joins the caller to an event, gated by the organizer's
// plan attendee limit. Registering twice returns the existing record.
func (h *AttendeeHandler) RegisterAttendee(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}

	eventID := e.Request.PathValue("eventId")
	ctx := e.Request.Context()

	event, err := h.events.Get(ctx, eventID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load event", err)
	}
	if event == nil {
		return apis.NewNotFoundError("Event not found", nil)
	}

	existing, err := h.attendees.GetByUserAndEvent(ctx, profile.ID, eventID)
	if err != nil {
		return apis.NewBadRequestError("Failed to check registration", err)
	}
	if existing != nil {
		return e.JSON(http.StatusOK, existing)
	}

	current, err := h.attendees.ListByEvent(ctx, eventID)
	if err != nil {
		return apis.NewBadRequestError("Failed to check attendee limit", err)
	}
	allowed, err := h.plans.CanAddAttendee(ctx, event.OrganizerID, len(current))
	if err != nil {
		return apis.NewBadRequestError("Failed to check attendee limit", err)
	}
	if !allowed {
		return apis.NewForbiddenError("Attendee limit reached for this event", nil)
	}

	attendee := models.Attendee{
		UserID:    profile.ID,
		EventID:   eventID,
		Name:      profile.Name,
		Title:     profile.Title,
		Company:   profile.Company,
		Avatar:    profile.Avatar,
		Interests: profile.Interests,
	}
	if err := e.BindBody(&attendee); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}
	attendee.UserID = profile.ID
	attendee.EventID = eventID

	id, err := h.attendees.Create(ctx, &attendee)
	if err != nil {
		return apis.NewBadRequestError("Failed to register attendee", err)
	}
	attendee.ID = id

	return e.JSON(http.StatusCreated, attendee)
}

// AddConnection - records a connection between two attendees of the same
// event. Both sides get the connection and the points; repeats are no-ops.
func (h *AttendeeHandler) AddConnection(e *core.RequestEvent) error {
	if _, err := requestProfile(e, h.users); err != nil {
		return err
	}

	var req struct {
		AttendeeID string `json:"attendeeId"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}
	if req.AttendeeID == "" {
		return apis.NewBadRequestError("attendeeId is required", nil)
	}

	attendeeID := e.Request.PathValue("attendeeId")
	if attendeeID == req.AttendeeID {
		return apis.NewBadRequestError("Cannot connect an attendee to themselves", nil)
	}

	ctx := e.Request.Context()
	attendee, err := h.attendees.Get(ctx, attendeeID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load attendee", err)
	}
	if attendee == nil {
		return apis.NewNotFoundError("Attendee not found", nil)
	}

	other, err := h.attendees.Get(ctx, req.AttendeeID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load attendee", err)
	}
	if other == nil {
		return apis.NewNotFoundError("Connected attendee not found", nil)
	}
	if other.EventID != attendee.EventID {
		return apis.NewBadRequestError("Attendees belong to different events", nil)
	}

	alreadyConnected := false
	for _, id := range attendee.Connections {
		if id == req.AttendeeID {
			alreadyConnected = true
			break
		}
	}

	if err := h.attendees.AddConnection(ctx, attendeeID, req.AttendeeID); err != nil {
		return apis.NewBadRequestError("Failed to add connection", err)
	}
	if err := h.attendees.AddConnection(ctx, req.AttendeeID, attendeeID); err != nil {
		return apis.NewBadRequestError("Failed to add connection", err)
	}

	if !alreadyConnected {
		if err := h.awardPoints(e, attendeeID, connectionPoints); err != nil {
			return err
		}
		if err := h.awardPoints(e, req.AttendeeID, connectionPoints); err != nil {
			return err
		}
	}

	updated, err := h.attendees.Get(ctx, attendeeID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load attendee", err)
	}
	return e.JSON(http.StatusOK, updated)
}

// AddPoints - manual point grants (session check-ins, challenges)
func (h *AttendeeHandler) AddPoints(e *core.RequestEvent) error {
	if _, err := requestProfile(e, h.users); err != nil {
		return err
	}

	var req struct {
		Points int `json:"points"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}
	if req.Points <= 0 {
		return apis.NewBadRequestError("points must be positive", nil)
	}

	attendeeID := e.Request.PathValue("attendeeId")
	if err := h.awardPoints(e, attendeeID, req.Points); err != nil {
		return err
	}

	attendee, err := h.attendees.Get(e.Request.Context(), attendeeID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load attendee", err)
	}
	return e.JSON(http.StatusOK, attendee)
}

func (h *AttendeeHandler) awardPoints(e *core.RequestEvent, attendeeID string, points int) error {
	ctx := e.Request.Context()

	attendee, err := h.attendees.AddPoints(ctx, attendeeID, points)
	if err != nil {
		return apis.NewBadRequestError("Failed to award points", err)
	}
	if attendee == nil {
		return nil
	}

	if err := h.leaderboard.UpsertEntry(ctx, attendee.UserID, attendee.EventID, attendee.Name, attendee.Avatar, attendee.Points); err != nil {
		return apis.NewBadRequestError("Failed to update leaderboard", err)
	}
	return nil
}
