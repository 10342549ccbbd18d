package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/catalog"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/repository"
)

type trainingRequestStore interface {
	Create(ctx context.Context, input repository.CreateTrainingRequestInput) (*models.TrainingRequest, error)
	GetByID(ctx context.Context, id string) (*models.TrainingRequest, error)
	UpdateStatusIfCurrent(
		ctx context.Context,
		id string,
		current models.WorkflowStatus,
		next models.WorkflowStatus,
		assignedTrainerID *string,
	) (*models.TrainingRequest, error)
}

type applicationWriter interface {
	Create(ctx context.Context, requestID, trainerID string) (*models.TrainerApplication, error)
}

type userProfileReader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetTrainerByID(ctx context.Context, id string) (*models.Trainer, error)
}

type workflowNotifier interface {
	SendStatusChangeNotification(ctx context.Context, change StatusChange)
	SendNewTrainingRequestNotification(ctx context.Context, request *models.TrainingRequest)
	SendTrainerApplicationNotification(ctx context.Context, request *models.TrainingRequest, trainerName string)
}

type recommendationInvalidator interface {
	Invalidate(ctx context.Context, requestID string)
}

// transitionRoles lists who may move a request into each status.
var transitionRoles = map[models.WorkflowStatus][]string{
	models.StatusPendingSupervisorApproval: {models.RoleDevelopmentOfficer},
	models.StatusPendingTrainerSelection:   {models.RoleSupervisor},
	models.StatusPendingFinalApproval:      {models.RoleSupervisor},
	models.StatusFinalApproved:             {models.RoleProjectManager},
	models.StatusReceived:                  {models.RoleTrainer},
	models.StatusScheduled:                 {models.RoleTrainer, models.RoleDevelopmentOfficer},
	models.StatusCompleted:                 {models.RoleTrainer, models.RoleDevelopmentOfficer},
	models.StatusCancelled:                 {models.RoleDevelopmentOfficer, models.RoleProjectManager, models.RoleProvincialOfficer},
}

var requestCreatorRoles = []string{models.RoleProvincialOfficer, models.RoleDevelopmentOfficer}

type CreateTrainingRequestInput struct {
	Title          string
	Province       string
	Specialization string
	RequestedDate  time.Time
}

type UpdateStatusInput struct {
	Status            string
	AssignedTrainerID *string
}

type TrainingRequestService struct {
	requests     trainingRequestStore
	applications applicationWriter
	users        userProfileReader
	router       workflowNotifier
	cache        recommendationInvalidator
	logger       *zap.Logger
}

func NewTrainingRequestService(
	requests trainingRequestStore,
	applications applicationWriter,
	users userProfileReader,
	router workflowNotifier,
	cache recommendationInvalidator,
	logger *zap.Logger,
) *TrainingRequestService {
	return &TrainingRequestService{
		requests:     requests,
		applications: applications,
		users:        users,
		router:       router,
		cache:        cache,
		logger:       logger,
	}
}

func (s *TrainingRequestService) CreateRequest(
	ctx context.Context,
	actorID string,
	role string,
	input CreateTrainingRequestInput,
) (*models.TrainingRequest, error) {
	if !hasRole(role, requestCreatorRoles) {
		return nil, ErrForbidden
	}

	title := strings.TrimSpace(input.Title)
	specialization := catalog.SpecializationCode(input.Specialization)
	province := strings.TrimSpace(input.Province)
	if province == "" {
		requester, err := s.users.GetByID(ctx, actorID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if requester != nil && requester.Province != nil {
			province = *requester.Province
		}
	}
	province = catalog.ProvinceCode(province)

	if title == "" || province == "" || specialization == "" || input.RequestedDate.IsZero() {
		return nil, ErrInvalidInput
	}

	request, err := s.requests.Create(ctx, repository.CreateTrainingRequestInput{
		Title:          title,
		Province:       province,
		Specialization: specialization,
		RequestedDate:  input.RequestedDate,
		RequesterID:    actorID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("training request created",
		zap.String("request_id", request.ID),
		zap.String("province", request.Province),
		zap.String("specialization", request.Specialization),
	)

	s.router.SendNewTrainingRequestNotification(ctx, request)
	return request, nil
}

// UpdateStatus validates and persists a lifecycle transition, then hands the
// change to the workflow router.
func (s *TrainingRequestService) UpdateStatus(
	ctx context.Context,
	actorID string,
	role string,
	requestID string,
	input UpdateStatusInput,
) (*models.TrainingRequest, error) {
	next := models.WorkflowStatus(strings.ToUpper(strings.TrimSpace(input.Status)))
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}

	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !hasRole(role, transitionRoles[next]) {
		return nil, ErrForbidden
	}
	if role == models.RoleTrainer && !assignedTo(request, actorID) {
		return nil, ErrForbidden
	}
	if !models.CanTransition(request.Status, next) {
		return nil, ErrInvalidStateTransition
	}

	var assignedTrainerID *string
	if input.AssignedTrainerID != nil {
		trimmed := strings.TrimSpace(*input.AssignedTrainerID)
		if trimmed != "" {
			assignedTrainerID = &trimmed
		}
	}
	if next == models.StatusPendingFinalApproval {
		if assignedTrainerID == nil {
			return nil, ErrInvalidInput
		}
		if _, err := s.users.GetTrainerByID(ctx, *assignedTrainerID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrTrainerNotFound
			}
			return nil, err
		}
	} else {
		assignedTrainerID = nil
	}

	updated, err := s.requests.UpdateStatusIfCurrent(ctx, request.ID, request.Status, next, assignedTrainerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Info("status changed concurrently", zap.String("request_id", request.ID))
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	s.logger.Info("training request status changed",
		zap.String("request_id", updated.ID),
		zap.String("from", string(request.Status)),
		zap.String("to", string(updated.Status)),
		zap.String("changed_by", actorID),
	)

	s.invalidate(ctx, updated.ID)
	s.router.SendStatusChangeNotification(ctx, StatusChange{
		RequestID: updated.ID,
		OldStatus: request.Status,
		NewStatus: updated.Status,
		ChangedBy: actorID,
		Request:   updated,
	})
	return updated, nil
}

func (s *TrainingRequestService) Apply(
	ctx context.Context,
	actorID string,
	role string,
	requestID string,
) (*models.TrainerApplication, error) {
	if role != models.RoleTrainer {
		return nil, ErrForbidden
	}

	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.StatusPendingTrainerSelection {
		return nil, ErrInvalidStateTransition
	}

	trainer, err := s.users.GetTrainerByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	application, err := s.applications.Create(ctx, request.ID, actorID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrConflict
		}
		return nil, err
	}
	application.Trainer = trainer

	s.invalidate(ctx, request.ID)
	s.router.SendTrainerApplicationNotification(ctx, request, trainer.FullName)
	return application, nil
}

func (s *TrainingRequestService) loadRequest(ctx context.Context, requestID string) (*models.TrainingRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	return request, nil
}

func (s *TrainingRequestService) invalidate(ctx context.Context, requestID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, requestID)
	}
}

func assignedTo(request *models.TrainingRequest, userID string) bool {
	return request.AssignedTrainerID != nil && *request.AssignedTrainerID == userID
}

func hasRole(role string, allowed []string) bool {
	for _, candidate := range allowed {
		if candidate == role {
			return true
		}
	}
	return false
}
