package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errInvalidActor = errors.New("invalid actor")

func actorFromContext(c *fiber.Ctx) (string, string, error) {
	userID, ok := c.Locals("user_id").(string)
	if !ok {
		return "", "", errInvalidActor
	}
	parsed, err := uuid.Parse(strings.TrimSpace(userID))
	if err != nil {
		return "", "", errInvalidActor
	}
	role, _ := c.Locals("role").(string)
	return parsed.String(), role, nil
}

func parseUUIDParam(c *fiber.Ctx, name string) (string, bool) {
	parsed, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func roleAllowed(role string, allowed ...string) bool {
	for _, candidate := range allowed {
		if candidate == role {
			return true
		}
	}
	return false
}
