package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/services"
)

type stubTrainingRequestService struct {
	createResult *models.TrainingRequest
	createErr    error
	updateResult *models.TrainingRequest
	updateErr    error
	applyResult  *models.TrainerApplication
	applyErr     error
	lastActorID  string
	lastRole     string
	lastCreate   services.CreateTrainingRequestInput
	lastUpdate   services.UpdateStatusInput
	lastRequest  string
}

func (s *stubTrainingRequestService) CreateRequest(_ context.Context, actorID, role string, input services.CreateTrainingRequestInput) (*models.TrainingRequest, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastCreate = input
	return s.createResult, s.createErr
}

func (s *stubTrainingRequestService) UpdateStatus(_ context.Context, actorID, role, requestID string, input services.UpdateStatusInput) (*models.TrainingRequest, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastRequest = requestID
	s.lastUpdate = input
	return s.updateResult, s.updateErr
}

func (s *stubTrainingRequestService) Apply(_ context.Context, actorID, role, requestID string) (*models.TrainerApplication, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastRequest = requestID
	return s.applyResult, s.applyErr
}

func TestCreateTrainingRequest(t *testing.T) {
	service := &stubTrainingRequestService{createResult: &models.TrainingRequest{ID: testRequestID, Status: models.StatusUnderReview}}
	handler := NewTrainingRequestHandler(service)
	app := newTestApp(models.RoleProvincialOfficer)
	app.Post("/api/v1/training-requests", handler.Create)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/training-requests", strings.NewReader(`{
		"title": "Leadership basics",
		"province": "giza",
		"specialization": "leadership",
		"requested_date": "2026-05-02"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastActorID != testUserID || service.lastCreate.Title != "Leadership basics" {
		t.Fatalf("unexpected call actor=%q input=%+v", service.lastActorID, service.lastCreate)
	}
}

func TestUpdateStatusMapsInvalidTransition(t *testing.T) {
	service := &stubTrainingRequestService{updateErr: services.ErrInvalidStateTransition}
	handler := NewTrainingRequestHandler(service)
	app := newTestApp(models.RoleProjectManager)
	app.Put("/api/v1/training-requests/:id/status", handler.UpdateStatus)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/training-requests/"+testRequestID+"/status", strings.NewReader(`{"status":"FINAL_APPROVED"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if service.lastRequest != testRequestID || service.lastUpdate.Status != "FINAL_APPROVED" {
		t.Fatalf("unexpected call request=%q input=%+v", service.lastRequest, service.lastUpdate)
	}
}

func TestUpdateStatusSuccess(t *testing.T) {
	service := &stubTrainingRequestService{updateResult: &models.TrainingRequest{ID: testRequestID, Status: models.StatusPendingFinalApproval}}
	handler := NewTrainingRequestHandler(service)
	app := newTestApp(models.RoleSupervisor)
	app.Put("/api/v1/training-requests/:id/status", handler.UpdateStatus)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/training-requests/"+testRequestID+"/status", strings.NewReader(`{"status":"PENDING_FINAL_APPROVAL","assigned_trainer_id":"trainer-1"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastUpdate.AssignedTrainerID == nil || *service.lastUpdate.AssignedTrainerID != "trainer-1" {
		t.Fatalf("expected assigned trainer forwarded")
	}
}

func TestApplyRequiresTrainerRole(t *testing.T) {
	service := &stubTrainingRequestService{}
	handler := NewTrainingRequestHandler(service)
	app := newTestApp(models.RoleSupervisor)
	app.Post("/api/v1/training-requests/:id/applications", handler.Apply)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/training-requests/"+testRequestID+"/applications", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if service.lastRequest != "" {
		t.Fatalf("expected service not called")
	}
}

func TestApplyMapsConflict(t *testing.T) {
	service := &stubTrainingRequestService{applyErr: services.ErrConflict}
	handler := NewTrainingRequestHandler(service)
	app := newTestApp(models.RoleTrainer)
	app.Post("/api/v1/training-requests/:id/applications", handler.Apply)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/training-requests/"+testRequestID+"/applications", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}
