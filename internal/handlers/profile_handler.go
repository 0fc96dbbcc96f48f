package handlers

import (
	"net/http"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/anonto42/linkup/backend/internal/session"
	"github.com/labstack/echo/v4"
)

// ProfileHandler handles HTTP requests related to user profiles
type ProfileHandler struct {
	profiles *services.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// RegisterProfileRoutes registers user profile routes
func (h *ProfileHandler) RegisterProfileRoutes(public, private *echo.Group) {
	private.GET("/profile", h.GetProfile)    // Get own profile
	private.PUT("/profile", h.UpdateProfile) // Create or update own profile
	public.GET("/users/:id/profile", h.GetUserProfile)
}

// GetProfile retrieves the authenticated user's profile
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	profile, err := h.profiles.Get(c.Request().Context(), session.FromContext(c))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile merges the request into the authenticated user's profile
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	var req models.UpsertProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.profiles.Upsert(c.Request().Context(), session.FromContext(c), req)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// GetUserProfile retrieves another user's public profile
func (h *ProfileHandler) GetUserProfile(c echo.Context) error {
	profile, err := h.profiles.PublicProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}
