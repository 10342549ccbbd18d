package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/services"
)

type trainingRequestApplicationService interface {
	CreateRequest(ctx context.Context, actorID, role string, input services.CreateTrainingRequestInput) (*models.TrainingRequest, error)
	UpdateStatus(ctx context.Context, actorID, role, requestID string, input services.UpdateStatusInput) (*models.TrainingRequest, error)
	Apply(ctx context.Context, actorID, role, requestID string) (*models.TrainerApplication, error)
}

type TrainingRequestHandler struct {
	service trainingRequestApplicationService
}

func NewTrainingRequestHandler(service trainingRequestApplicationService) *TrainingRequestHandler {
	return &TrainingRequestHandler{service: service}
}

type createTrainingRequestRequest struct {
	Title          string `json:"title"`
	Province       string `json:"province"`
	Specialization string `json:"specialization"`
	RequestedDate  string `json:"requested_date"`
}

type updateTrainingRequestStatusRequest struct {
	Status            string  `json:"status"`
	AssignedTrainerID *string `json:"assigned_trainer_id"`
}

func (h *TrainingRequestHandler) Create(c *fiber.Ctx) error {
	actorID, role, err := actorFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createTrainingRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}
	requestedDate, err := parseRequestedDate(req.RequestedDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "requested_date must be YYYY-MM-DD or RFC3339"})
	}

	request, err := h.service.CreateRequest(c.Context(), actorID, role, services.CreateTrainingRequestInput{
		Title:          req.Title,
		Province:       req.Province,
		Specialization: req.Specialization,
		RequestedDate:  requestedDate,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"training_request": request})
}

func (h *TrainingRequestHandler) UpdateStatus(c *fiber.Ctx) error {
	actorID, role, err := actorFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	requestID, ok := parseUUIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid training request id"})
	}

	var req updateTrainingRequestStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	request, err := h.service.UpdateStatus(c.Context(), actorID, role, requestID, services.UpdateStatusInput{
		Status:            req.Status,
		AssignedTrainerID: req.AssignedTrainerID,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"training_request": request})
}

func (h *TrainingRequestHandler) Apply(c *fiber.Ctx) error {
	actorID, role, err := actorFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	if role != models.RoleTrainer {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	requestID, ok := parseUUIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid training request id"})
	}

	application, err := h.service.Apply(c.Context(), actorID, role, requestID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"application": application})
}
