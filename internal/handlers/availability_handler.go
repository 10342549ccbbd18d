package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
)

type availabilityWriter interface {
	SetAvailability(ctx context.Context, trainerID string, day time.Time, available bool) error
}

type AvailabilityHandler struct {
	availability availabilityWriter
}

func NewAvailabilityHandler(availability availabilityWriter) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

type setAvailabilityRequest struct {
	Date        string `json:"date"`
	IsAvailable *bool  `json:"is_available"`
}

func (h *AvailabilityHandler) SetOwnAvailability(c *fiber.Ctx) error {
	trainerID, role, err := actorFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	if role != models.RoleTrainer {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	var req setAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
	}
	if req.IsAvailable == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "is_available is required"})
	}

	if err := h.availability.SetAvailability(c.Context(), trainerID, day, *req.IsAvailable); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save availability"})
	}

	return c.JSON(fiber.Map{
		"date":         day.Format("2006-01-02"),
		"is_available": *req.IsAvailable,
	})
}
