package notification

import (
	"net/http"
	"strconv"

	"MedLocator/internal/apperr"
	"MedLocator/internal/auth"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler handles HTTP requests for notifications.
type NotificationHandler struct {
	service *NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List returns the caller's notifications. Query params: unread=true,
// page, limit.
func (h *NotificationHandler) List(c echo.Context) error {
	principal, err := auth.PrincipalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	unreadOnly := c.QueryParam("unread") == "true"
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.ListForUser(c.Request().Context(), principal.ID, unreadOnly, page, limit)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, result)
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	principal, err := auth.PrincipalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	count, err := h.service.UnreadCount(c.Request().Context(), principal.ID)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, map[string]int64{"unread": count})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	principal, err := auth.PrincipalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid notification ID"})
	}

	if err := h.service.MarkRead(c.Request().Context(), id, principal.ID); err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	principal, err := auth.PrincipalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	count, err := h.service.MarkAllRead(c.Request().Context(), principal.ID)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, map[string]int64{"updated": count})
}

func (h *NotificationHandler) Delete(c echo.Context) error {
	principal, err := auth.PrincipalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid notification ID"})
	}

	if err := h.service.Delete(c.Request().Context(), id, principal.ID); err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Notification deleted"})
}

func (h *NotificationHandler) DeleteAll(c echo.Context) error {
	principal, err := auth.PrincipalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	count, err := h.service.DeleteAll(c.Request().Context(), principal.ID)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, map[string]int64{"deleted": count})
}
