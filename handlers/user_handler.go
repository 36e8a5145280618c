package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"eventwise/models"
	"eventwise/services"
	"eventwise/store"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile - the caller's own profile
func (h *UserHandler) GetProfile(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}
	return e.JSON(http.StatusOK, profile)
}

// CreateProfile - registers a profile for the caller's identity. The id is
// the auth user id, so repeated calls update nothing and return 409.
func (h *UserHandler) CreateProfile(e *core.RequestEvent) error {
	userID := requestUserID(e)
	if userID == "" {
		return apis.NewUnauthorizedError("Authentication required", nil)
	}

	ctx := e.Request.Context()
	existing, err := h.users.Get(ctx, userID)
	if err != nil {
		return apis.NewBadRequestError("Failed to check profile", err)
	}
	if existing != nil {
		return apis.NewBadRequestError("Profile already exists", nil)
	}

	var profile models.UserProfile
	if err := e.BindBody(&profile); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	if _, err := h.users.Create(ctx, userID, &profile); err != nil {
		return apis.NewBadRequestError("Failed to create profile", err)
	}
	profile.ID = userID

	return e.JSON(http.StatusCreated, profile)
}

// UpdateProfile - partial update of the caller's profile. Role and billing
// fields are controlled server-side and stripped from the patch.
func (h *UserHandler) UpdateProfile(e *core.RequestEvent) error {
	profile, err := requestProfile(e, h.users)
	if err != nil {
		return err
	}

	var partial store.Document
	if err := e.BindBody(&partial); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}
	delete(partial, "role")
	delete(partial, "subscriptionStatus")
	delete(partial, "subscriptionId")
	delete(partial, "stripeCustomerId")

	ctx := e.Request.Context()
	if err := h.users.Update(ctx, profile.ID, partial); err != nil {
		return apis.NewBadRequestError("Failed to update profile", err)
	}

	updated, err := h.users.Get(ctx, profile.ID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load profile", err)
	}
	return e.JSON(http.StatusOK, updated)
}

// ListUsers - directory of all profiles, newest first
func (h *UserHandler) ListUsers(e *core.RequestEvent) error {
	users, err := h.users.List(e.Request.Context())
	if err != nil {
		return apis.NewBadRequestError("Failed to list users", err)
	}
	for i := range users {
		users[i].StripeCustomerID = ""
		users[i].SubscriptionID = ""
	}
	return e.JSON(http.StatusOK, users)
}

// CreateUser - provisions a profile under a known identity-provider id.
// Called by the frontend right after sign-up, before the user has a session.
func (h *UserHandler) CreateUser(e *core.RequestEvent) error {
	var req struct {
		UserID    string   `json:"userId"`
		Email     string   `json:"email"`
		Name      string   `json:"name"`
		Title     string   `json:"title"`
		Company   string   `json:"company"`
		Avatar    string   `json:"avatar"`
		Interests []string `json:"interests"`
		Goals     string   `json:"goals"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}
	if req.UserID == "" || req.Email == "" || req.Name == "" {
		return apis.NewBadRequestError("userId, email, and name are required", nil)
	}

	ctx := e.Request.Context()
	existing, err := h.users.Get(ctx, req.UserID)
	if err != nil {
		return apis.NewBadRequestError("Failed to check user", err)
	}
	if existing != nil {
		return apis.NewBadRequestError("User already exists", nil)
	}

	profile := models.UserProfile{
		Email:     req.Email,
		Name:      req.Name,
		Title:     req.Title,
		Company:   req.Company,
		Avatar:    req.Avatar,
		Interests: req.Interests,
		Goals:     req.Goals,
	}
	if _, err := h.users.Create(ctx, req.UserID, &profile); err != nil {
		return apis.NewBadRequestError("Failed to create user", err)
	}

	return e.JSON(http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"userId":  req.UserID,
	})
}

// GetUser - public view of another user's profile
func (h *UserHandler) GetUser(e *core.RequestEvent) error {
	user, err := h.users.Get(e.Request.Context(), e.Request.PathValue("userId"))
	if err != nil {
		return apis.NewBadRequestError("Failed to load user", err)
	}
	if user == nil {
		return apis.NewNotFoundError("User not found", nil)
	}

	// Billing details stay private.
	user.StripeCustomerID = ""
	user.SubscriptionID = ""
	return e.JSON(http.StatusOK, user)
}
