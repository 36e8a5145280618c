package handlers

import (
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"eventwise/models"
	"eventwise/security"
	"eventwise/services"
)

// requestUserID resolves the caller's identity from the PocketBase auth
// record when present, falling back to the X-User-ID header that the web
// client sends.
func requestUserID(e *core.RequestEvent) string {
	if e.Auth != nil {
		return e.Auth.Id
	}
	return e.Request.Header.Get("X-User-ID")
}

// requestProfile loads the caller's profile, or fails with 401 when the
// request carries no identity.
func requestProfile(e *core.RequestEvent, users *services.UserService) (*models.UserProfile, error) {
	userID := requestUserID(e)
	if userID == "" {
		return nil, apis.NewUnauthorizedError("Authentication required", nil)
	}

	profile, err := users.Get(e.Request.Context(), userID)
	if err != nil {
		return nil, apis.NewBadRequestError("Failed to load profile", err)
	}
	if profile == nil {
		return nil, apis.NewUnauthorizedError("Unknown user", nil)
	}
	return profile, nil
}

// requirePermission maps a denied permission to 403 rather than 401: the
// caller is known, just not allowed.
func requirePermission(profile *models.UserProfile, resource, action string) error {
	role := security.RoleFromString(profile.Role)
	if err := security.RequirePermission(role, resource, action); err != nil {
		return apis.NewForbiddenError("Insufficient permissions", err)
	}
	return nil
}
