package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staffboard/todo-system/internal/core/ports"
)

// NotificationHandler exposes the caller's own notifications.
type NotificationHandler struct {
	service ports.NotificationService
}

func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

type countResponse struct {
	Count int64 `json:"count"`
}

func (h *NotificationHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	items, err := h.service.Unread(c.Request().Context(), p.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *NotificationHandler) Count(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	n, err := h.service.UnreadCount(c.Request().Context(), p.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Count: n})
}

// MarkRead flags unread notifications as read, optionally only those of
// ?taskId.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	taskID, err := optionalID(c, "taskId")
	if err != nil {
		return err
	}
	if err := h.service.MarkRead(c.Request().Context(), p.Username, taskID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
