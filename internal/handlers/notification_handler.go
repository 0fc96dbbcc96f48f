package handlers

import (
	"net/http"

	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/anonto42/linkup/backend/internal/session"
	"github.com/labstack/echo/v4"
)

// NotificationHandler surfaces pending link-up requests addressed to the caller
type NotificationHandler struct {
	linkups *services.LinkUpService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(linkups *services.LinkUpService) *NotificationHandler {
	return &NotificationHandler{linkups: linkups}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(private *echo.Group) {
	private.GET("/notifications", h.GetNotifications)
	private.GET("/notifications/unread-count", h.GetUnreadCount)
}

// GetNotifications returns the caller's pending incoming requests, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	incoming, err := h.linkups.Incoming(c.Request().Context(), session.FromContext(c))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":  incoming,
		"total": len(incoming),
	})
}

// GetUnreadCount returns the number of pending incoming requests
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	incoming, err := h.linkups.Incoming(c.Request().Context(), session.FromContext(c))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"count": len(incoming)})
}
