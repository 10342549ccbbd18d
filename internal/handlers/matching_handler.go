package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
)

const defaultMaxResults = 10

type trainerMatcher interface {
	FindBestTrainers(ctx context.Context, criteria models.MatchingCriteria, maxResults int) ([]models.TrainerScore, error)
	GetTrainerRecommendations(ctx context.Context, requestID string) (*models.TrainerRecommendations, error)
}

type MatchingHandler struct {
	matcher trainerMatcher
}

func NewMatchingHandler(matcher trainerMatcher) *MatchingHandler {
	return &MatchingHandler{matcher: matcher}
}

type findTrainersRequest struct {
	Province       string `json:"province"`
	Specialization string `json:"specialization"`
	RequestedDate  string `json:"requested_date"`
	MaxResults     int    `json:"max_results"`
}

var matchingRoles = []string{
	models.RoleDevelopmentOfficer,
	models.RoleSupervisor,
	models.RoleProjectManager,
	models.RoleProvincialOfficer,
}

func (h *MatchingHandler) FindTrainers(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || !roleAllowed(role, matchingRoles...) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	var req findTrainersRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	requestedDate, err := parseRequestedDate(req.RequestedDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "requested_date must be YYYY-MM-DD or RFC3339"})
	}
	if strings.TrimSpace(req.Province) == "" || strings.TrimSpace(req.Specialization) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "province and specialization are required"})
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if maxResults > maxPageLimit {
		maxResults = maxPageLimit
	}

	criteria := models.MatchingCriteria{
		Province:       strings.TrimSpace(req.Province),
		Specialization: strings.TrimSpace(req.Specialization),
		RequestedDate:  requestedDate,
		Priority:       models.DerivePriority(time.Now(), requestedDate),
	}
	trainers, err := h.matcher.FindBestTrainers(c.Context(), criteria, maxResults)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"trainers": trainers,
		"priority": criteria.Priority,
	})
}

func (h *MatchingHandler) GetRecommendations(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || !roleAllowed(role, matchingRoles...) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	requestID, ok := parseUUIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid training request id"})
	}

	recommendations, err := h.matcher.GetTrainerRecommendations(c.Context(), requestID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(recommendations)
}

func parseRequestedDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if parsed, err := time.Parse("2006-01-02", raw); err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339, raw)
}
