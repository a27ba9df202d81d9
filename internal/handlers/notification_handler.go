package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tanvir-ahmd/chirpline/backend/internal/models"
	"github.com/tanvir-ahmd/chirpline/backend/internal/services"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.DELETE("", h.DeleteAll)
	g.DELETE("/:id", h.DeleteOne)
}

// List returns the caller's notifications and marks them all read
func (h *NotificationHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	notifications, err := h.notifications.List(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, notifications)
}

// DeleteAll removes every notification addressed to the caller
func (h *NotificationHandler) DeleteAll(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.notifications.DeleteAll(c.Request().Context(), userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notifications deleted successfully"})
}

// DeleteOne removes a single notification owned by the caller
func (h *NotificationHandler) DeleteOne(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	notificationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return respondError(c, models.NewValidationError("Invalid notification ID"))
	}

	if err := h.notifications.DeleteOne(c.Request().Context(), userID, uint(notificationID)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification deleted successfully"})
}
