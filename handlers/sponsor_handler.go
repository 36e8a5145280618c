package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"eventwise/models"
	"eventwise/services"
	"eventwise/store"
)

type SponsorHandler struct {
	sponsors *services.SponsorService
	users    *services.UserService
}

func NewSponsorHandler(sponsors *services.SponsorService, users *services.UserService) *SponsorHandler {
	return &SponsorHandler{sponsors: sponsors, users: users}
}

func (h *SponsorHandler) ListSponsors(e *core.RequestEvent) error {
	sponsors, err := h.sponsors.ListByEvent(e.Request.Context(), e.Request.PathValue("eventId"))
	if err != nil {
		return apis.NewBadRequestError("Failed to list sponsors", err)
	}
	return e.JSON(http.StatusOK, sponsors)
}

func (h *SponsorHandler) GetSponsor(e *core.RequestEvent) error {
	sponsor, err := h.sponsors.Get(e.Request.Context(), e.Request.PathValue("sponsorId"))
	if err != nil {
		return apis.NewBadRequestError("Failed to load sponsor", err)
	}
	if sponsor == nil {
		return apis.NewNotFoundError("Sponsor not found", nil)
	}
	return e.JSON(http.StatusOK, sponsor)
}

func (h *SponsorHandler) CreateSponsor(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}
	if err := requirePermission(profile, "sponsors", "create"); err != nil {
		return err
	}

	var sponsor models.Sponsor
	if err := e.BindBody(&sponsor); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}
	sponsor.EventID = e.Request.PathValue("eventId")

	id, err := h.sponsors.Create(e.Request.Context(), &sponsor)
	if err != nil {
		return apis.NewBadRequestError("Failed to create sponsor", err)
	}
	sponsor.ID = id

	return e.JSON(http.StatusCreated, sponsor)
}

func (h *SponsorHandler) UpdateSponsor(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}
	if err := requirePermission(profile, "sponsors", "update"); err != nil {
		return err
	}

	var partial store.Document
	if err := e.BindBody(&partial); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	sponsorID := e.Request.PathValue("sponsorId")
	ctx := e.Request.Context()
	if err := h.sponsors.Update(ctx, sponsorID, partial); err != nil {
		return apis.NewBadRequestError("Failed to update sponsor", err)
	}

	sponsor, err := h.sponsors.Get(ctx, sponsorID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load sponsor", err)
	}
	return e.JSON(http.StatusOK, sponsor)
}

func (h *SponsorHandler) DeleteSponsor(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}
	if err := requirePermission(profile, "sponsors", "delete"); err != nil {
		return err
	}

	if err := h.sponsors.Delete(e.Request.Context(), e.Request.PathValue("sponsorId")); err != nil {
		return apis.NewBadRequestError("Failed to delete sponsor", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"deleted": true})
}
