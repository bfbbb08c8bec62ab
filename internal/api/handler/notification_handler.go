package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskflow-api/internal/core/ports"
)

// NotificationHandler serves the caller's own notifications.
type NotificationHandler struct {
	inboxes ports.InboxFactory
}

func NewNotificationHandler(inboxes ports.InboxFactory) *NotificationHandler {
	return &NotificationHandler{inboxes: inboxes}
}

// List handles GET /v1/notifications.
//
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listNotificationsResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	ns, err := h.inboxes.Open(identity).List(c.Request().Context())
	if err != nil {
		return err
	}
	data, unread := toNotificationResponses(ns)
	return c.JSON(http.StatusOK, listNotificationsResponse{Data: data, Unread: unread})
}

// MarkRead handles PATCH /v1/notifications/:id/read.
//
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	if err := h.inboxes.Open(identity).MarkRead(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Notification marked as read"})
}
