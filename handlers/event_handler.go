package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"eventwise/models"
	"eventwise/services"
	"eventwise/store"
)

const trendingHorizon = 7 * 24 * time.Hour

type EventHandler struct {
	events   *services.EventService
	sessions *services.SessionService
	users    *services.UserService
	plans    *services.PlanService
}

func NewEventHandler(events *services.EventService, sessions *services.SessionService, users *services.UserService, plans *services.PlanService) *EventHandler {
	return &EventHandler{
		events:   events,
		sessions: sessions,
		users:    users,
		plans:    plans,
	}
}

// ListEvents - events by organizer when ?organizerId= is set, otherwise
// upcoming events for discovery
func (h *EventHandler) ListEvents(e *core.RequestEvent) error {
	ctx := e.Request.Context()

	if organizerID := e.Request.URL.Query().Get("organizerId"); organizerID != "" {
		events, err := h.events.ListByOrganizer(ctx, organizerID)
		if err != nil {
			return apis.NewBadRequestError("Failed to list events", err)
		}
		return e.JSON(http.StatusOK, events)
	}

	events, err := h.events.ListUpcoming(ctx, 30*24*time.Hour)
	if err != nil {
		return apis.NewBadRequestError("Failed to list events", err)
	}
	return e.JSON(http.StatusOK, events)
}

// GetTrendingEvents - events starting within the next week
func (h *EventHandler) GetTrendingEvents(e *core.RequestEvent) error {
	events, err := h.events.ListUpcoming(e.Request.Context(), trendingHorizon)
	if err != nil {
		return apis.NewBadRequestError("Failed to list trending events", err)
	}
	return e.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetEvent(e *core.RequestEvent) error {
	event, err := h.events.Get(e.Request.Context(), e.Request.PathValue("eventId"))
	if err != nil {
		return apis.NewBadRequestError("Failed to load event", err)
	}
	if event == nil {
		return apis.NewNotFoundError("Event not found", nil)
	}
	return e.JSON(http.StatusOK, event)
}

// CreateEvent - organizer-only, gated by the plan's event limit
func (h *EventHandler) CreateEvent(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}
	if err := requirePermission(profile, "events", "create"); err != nil {
		return err
	}

	var event models.Event
	if err := e.BindBody(&event); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}
	event.OrganizerID = profile.ID

	ctx := e.Request.Context()
	existing, err := h.events.ListByOrganizer(ctx, profile.ID)
	if err != nil {
		return apis.NewBadRequestError("Failed to check event limit", err)
	}
	allowed, err := h.plans.CanCreateEvent(ctx, profile.ID, len(existing))
	if err != nil {
		return apis.NewBadRequestError("Failed to check event limit", err)
	}
	if !allowed {
		return apis.NewForbiddenError("Event limit reached for current plan", nil)
	}

	id, err := h.events.Create(ctx, &event)
	if err != nil {
		if err == services.ErrInvalidSchedule {
			return apis.NewBadRequestError("Event must end after it starts", err)
		}
		return apis.NewBadRequestError("Failed to create event", err)
	}
	event.ID = id

	return e.JSON(http.StatusCreated, event)
}

func (h *EventHandler) UpdateEvent(e *core.RequestEvent) error {
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
	if event.OrganizerID != profile.ID && profile.Role != "admin" {
		return apis.NewForbiddenError("Only the organizer can update this event", nil)
	}

	var partial store.Document
	if err := e.BindBody(&partial); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}
	delete(partial, "organizerId")

	if err := h.events.Update(ctx, eventID, partial); err != nil {
		if err == services.ErrInvalidSchedule {
			return apis.NewBadRequestError("Event must end after it starts", err)
		}
		return apis.NewBadRequestError("Failed to update event", err)
	}

	updated, err := h.events.Get(ctx, eventID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load event", err)
	}
	return e.JSON(http.StatusOK, updated)
}

func (h *EventHandler) DeleteEvent(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}
	if err := requirePermission(profile, "events", "delete"); err != nil {
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
	if event.OrganizerID != profile.ID && profile.Role != "admin" {
		return apis.NewForbiddenError("Only the organizer can delete this event", nil)
	}

	if err := h.events.Delete(ctx, eventID); err != nil {
		return apis.NewBadRequestError("Failed to delete event", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"deleted": true})
}

// ListSessions - all sessions of an event ordered by start time
func (h *EventHandler) ListSessions(e *core.RequestEvent) error {
	sessions, err := h.sessions.ListByEvent(e.Request.Context(), e.Request.PathValue("eventId"))
	if err != nil {
		return apis.NewBadRequestError("Failed to list sessions", err)
	}
	return e.JSON(http.StatusOK, sessions)
}

func (h *EventHandler) CreateSession(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}
	if err := requirePermission(profile, "sessions", "create"); err != nil {
		return err
	}

	var session models.Session
	if err := e.BindBody(&session); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}
	session.EventID = e.Request.PathValue("eventId")

	id, err := h.sessions.Create(e.Request.Context(), &session)
	if err != nil {
		return apis.NewBadRequestError("Failed to create session", err)
	}
	session.ID = id

	return e.JSON(http.StatusCreated, session)
}

func (h *EventHandler) UpdateSession(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}
	if err := requirePermission(profile, "sessions", "update"); err != nil {
		return err
	}

	var partial store.Document
	if err := e.BindBody(&partial); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	sessionID := e.Request.PathValue("sessionId")
	if err := h.sessions.Update(e.Request.Context(), sessionID, partial); err != nil {
		return apis.NewBadRequestError("Failed to update session", err)
	}

	session, err := h.sessions.Get(e.Request.Context(), sessionID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load session", err)
	}
	return e.JSON(http.StatusOK, session)
}

func (h *EventHandler) DeleteSession(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}
	if err := requirePermission(profile, "sessions", "delete"); err != nil {
		return err
	}

	if err := h.sessions.Delete(e.Request.Context(), e.Request.PathValue("sessionId")); err != nil {
		return apis.NewBadRequestError("Failed to delete session", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"deleted": true})
}
