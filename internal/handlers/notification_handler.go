package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
)

type notificationInbox interface {
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Notification, int, error)
	MarkRead(ctx context.Context, userID, notificationID string) (bool, error)
}

type NotificationHandler struct {
	inbox notificationInbox
}

func NewNotificationHandler(inbox notificationInbox) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, _, err := actorFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	page := parsePageRequest(c)
	notifications, total, err := h.inbox.ListByUser(c.Context(), userID, page.Offset(), page.Limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"pagination":    buildPaginationMeta(page, total),
	})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, _, err := actorFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	notificationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification id"})
	}

	updated, err := h.inbox.MarkRead(c.Context(), userID, notificationID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update notification"})
	}
	if !updated {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
