package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

type pageRequest struct {
	Page  int
	Limit int
}

func (p pageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

func parsePageRequest(c *fiber.Ctx) pageRequest {
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return pageRequest{
		Page:  parsePositiveInt(c.Query("page"), 1),
		Limit: limit,
	}
}

func buildPaginationMeta(page pageRequest, total int) models.PaginationMeta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + page.Limit - 1) / page.Limit
	}

	return models.PaginationMeta{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
