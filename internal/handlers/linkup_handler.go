package handlers

import (
	"net/http"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/anonto42/linkup/backend/internal/session"
	"github.com/labstack/echo/v4"
)

// LinkUpHandler handles HTTP requests related to link-up requests
type LinkUpHandler struct {
	linkups *services.LinkUpService
}

// NewLinkUpHandler creates a new LinkUpHandler
func NewLinkUpHandler(linkups *services.LinkUpService) *LinkUpHandler {
	return &LinkUpHandler{linkups: linkups}
}

// RegisterLinkUpRoutes registers link-up routes
func (h *LinkUpHandler) RegisterLinkUpRoutes(private *echo.Group, limit echo.MiddlewareFunc) {
	private.POST("/posts/:id/linkups", h.RequestLinkUp, limit)
	private.GET("/posts/:id/linkups/status", h.GetLinkUpStatus)
	private.GET("/posts/:id/participants", h.GetParticipants)
	private.PUT("/linkups/:id", h.DecideLinkUp)
	private.GET("/me/joined", h.GetJoinedEvents)
}

// RequestLinkUp asks to join an event. Requests that are not allowed return
// 200 with created=false and the reason.
func (h *LinkUpHandler) RequestLinkUp(c echo.Context) error {
	outcome, err := h.linkups.Request(c.Request().Context(), session.FromContext(c), c.Param("id"))
	if err != nil {
		return toHTTPError(c, err)
	}
	if outcome.Created {
		return c.JSON(http.StatusCreated, outcome)
	}
	return c.JSON(http.StatusOK, outcome)
}

// DecideLinkUp accepts or declines a pending request (event owner only)
func (h *LinkUpHandler) DecideLinkUp(c echo.Context) error {
	var req models.DecideLinkUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	decided, err := h.linkups.Decide(c.Request().Context(), session.FromContext(c), c.Param("id"), models.LinkUpStatus(req.Status))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, decided)
}

// GetLinkUpStatus returns the caller's request state for an event
func (h *LinkUpHandler) GetLinkUpStatus(c echo.Context) error {
	view, err := h.linkups.Status(c.Request().Context(), session.FromContext(c), c.Param("id"))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// GetParticipants lists accepted participants of the caller's event
func (h *LinkUpHandler) GetParticipants(c echo.Context) error {
	participants, err := h.linkups.Participants(c.Request().Context(), session.FromContext(c), c.Param("id"))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, participants)
}

// GetJoinedEvents lists events the caller was accepted into
func (h *LinkUpHandler) GetJoinedEvents(c echo.Context) error {
	posts, err := h.linkups.JoinedEvents(c.Request().Context(), session.FromContext(c))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}
