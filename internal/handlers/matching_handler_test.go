package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/services"
)

const testUserID = "5b1f7c2e-8d3a-4f61-9c0e-2a7d9e4b1c33"
const testRequestID = "0f8fad5b-d9cb-469f-a165-70867728950e"

type stubMatcher struct {
	findResult     []models.TrainerScore
	findErr        error
	recommendation *models.TrainerRecommendations
	recommendErr   error
	lastCriteria   models.MatchingCriteria
	lastMaxResults int
	lastRequestID  string
}

func (s *stubMatcher) FindBestTrainers(_ context.Context, criteria models.MatchingCriteria, maxResults int) ([]models.TrainerScore, error) {
	s.lastCriteria = criteria
	s.lastMaxResults = maxResults
	return s.findResult, s.findErr
}

func (s *stubMatcher) GetTrainerRecommendations(_ context.Context, requestID string) (*models.TrainerRecommendations, error) {
	s.lastRequestID = requestID
	return s.recommendation, s.recommendErr
}

func newTestApp(role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", testUserID)
		return c.Next()
	})
	return app
}

func TestFindTrainersReturnsRankedTrainers(t *testing.T) {
	matcher := &stubMatcher{findResult: []models.TrainerScore{{TrainerID: "t-1", Score: 0.91}}}
	handler := NewMatchingHandler(matcher)

	app := newTestApp(models.RoleSupervisor)
	app.Post("/api/v1/matching/trainers", handler.FindTrainers)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/matching/trainers", strings.NewReader(`{
		"province": "cairo",
		"specialization": "communication",
		"requested_date": "2026-04-01",
		"max_results": 500
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if matcher.lastMaxResults != maxPageLimit {
		t.Fatalf("expected max results capped at %d, got %d", maxPageLimit, matcher.lastMaxResults)
	}
	if matcher.lastCriteria.Province != "cairo" || matcher.lastCriteria.RequestedDate.Day() != 1 {
		t.Fatalf("unexpected criteria %+v", matcher.lastCriteria)
	}

	var body struct {
		Trainers []models.TrainerScore `json:"trainers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Trainers) != 1 || body.Trainers[0].TrainerID != "t-1" {
		t.Fatalf("unexpected trainers %+v", body.Trainers)
	}
}

func TestFindTrainersRejectsBadDate(t *testing.T) {
	handler := NewMatchingHandler(&stubMatcher{})
	app := newTestApp(models.RoleSupervisor)
	app.Post("/api/v1/matching/trainers", handler.FindTrainers)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/matching/trainers", strings.NewReader(`{"province":"cairo","specialization":"communication","requested_date":"next week"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestFindTrainersForbiddenForTrainers(t *testing.T) {
	handler := NewMatchingHandler(&stubMatcher{})
	app := newTestApp(models.RoleTrainer)
	app.Post("/api/v1/matching/trainers", handler.FindTrainers)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/matching/trainers", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestFindTrainersMapsMatchingFailure(t *testing.T) {
	handler := NewMatchingHandler(&stubMatcher{findErr: errors.Join(services.ErrMatchingFailure, errors.New("db down"))})
	app := newTestApp(models.RoleDevelopmentOfficer)
	app.Post("/api/v1/matching/trainers", handler.FindTrainers)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/matching/trainers", strings.NewReader(`{"province":"cairo","specialization":"communication","requested_date":"2026-04-01T10:00:00Z"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

func TestGetRecommendations(t *testing.T) {
	matcher := &stubMatcher{recommendation: &models.TrainerRecommendations{
		RequestID:       testRequestID,
		Recommendations: []models.TrainerScore{},
		Summary:         "No pending applications for this request",
	}}
	handler := NewMatchingHandler(matcher)
	app := newTestApp(models.RoleProjectManager)
	app.Get("/api/v1/training-requests/:id/recommendations", handler.GetRecommendations)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/training-requests/"+testRequestID+"/recommendations", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if matcher.lastRequestID != testRequestID {
		t.Fatalf("unexpected request id %q", matcher.lastRequestID)
	}
	var body models.TrainerRecommendations
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Summary != "No pending applications for this request" {
		t.Fatalf("unexpected summary %q", body.Summary)
	}
}

func TestGetRecommendationsNotFound(t *testing.T) {
	handler := NewMatchingHandler(&stubMatcher{recommendErr: services.ErrRequestNotFound})
	app := newTestApp(models.RoleSupervisor)
	app.Get("/api/v1/training-requests/:id/recommendations", handler.GetRecommendations)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/training-requests/"+testRequestID+"/recommendations", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/training-requests/not-a-uuid/recommendations", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", resp.StatusCode)
	}
}
