package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"eventwise/monitoring"
	"eventwise/services"
	"eventwise/services/assistant"
)

type AssistantHandler struct {
	assistant *assistant.Assistant
	users     *services.UserService
}

func NewAssistantHandler(a *assistant.Assistant, users *services.UserService) *AssistantHandler {
	return &AssistantHandler{assistant: a, users: users}
}

// Ask - one chat turn. Always 200; failures surface as the assistant's
// fallback reply so the widget never breaks.
func (h *AssistantHandler) Ask(e *core.RequestEvent) error {
	if _, err := requestProfile(e, h.users); err != nil {
		return err
	}

	var req struct {
		Query   string              `json:"query"`
		History []assistant.Message `json:"history"`
		EventID string              `json:"eventId"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}
	if req.Query == "" {
		return apis.NewBadRequestError("query is required", nil)
	}

	reply := h.assistant.Reply(e.Request.Context(), req.Query, req.History, req.EventID)

	outcome := "ok"
	if reply == assistant.FallbackReply() {
		outcome = "fallback"
	}
	monitoring.TrackAssistantRequest(outcome)

	return e.JSON(http.StatusOK, map[string]any{"response": reply})
}
