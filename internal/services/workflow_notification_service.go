package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/metrics"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
)

const (
	recipientRequester       = "requester"
	recipientAssignedTrainer = "assigned_trainer"
)

type UserDirectory interface {
	ListUserIDs(ctx context.Context, filter models.UserFilter) ([]string, error)
}

type Notifier interface {
	Send(ctx context.Context, payload models.NotificationPayload) (DeliveryResult, error)
}

type StatusChange struct {
	RequestID string
	OldStatus models.WorkflowStatus
	NewStatus models.WorkflowStatus
	ChangedBy string
	Request   *models.TrainingRequest
}

type messageTemplate struct {
	Title    string
	Body     string
	Priority models.NotificationPriority
	Action   string
}

var statusTemplates = map[models.WorkflowStatus]map[string]messageTemplate{
	models.StatusUnderReview: {
		models.RoleDevelopmentOfficer: {
			Title:    "Training request awaiting review",
			Body:     "The training request %q is waiting for your review.",
			Priority: models.NotificationPriorityHigh,
			Action:   "review_request",
		},
	},
	models.StatusPendingSupervisorApproval: {
		models.RoleSupervisor: {
			Title:    "Supervisor approval required",
			Body:     "The training request %q needs your approval.",
			Priority: models.NotificationPriorityHigh,
			Action:   "approve_request",
		},
	},
	models.StatusPendingTrainerSelection: {
		models.RoleTrainer: {
			Title:    "New training opportunity",
			Body:     "A training matching your specialization is open: %q. Apply if you are available.",
			Priority: models.NotificationPriorityNormal,
			Action:   "apply_for_training",
		},
	},
	models.StatusPendingFinalApproval: {
		models.RoleProjectManager: {
			Title:    "Final approval required",
			Body:     "The training request %q is ready for final approval.",
			Priority: models.NotificationPriorityHigh,
			Action:   "final_approval",
		},
	},
	models.StatusFinalApproved: {
		recipientRequester: {
			Title:    "Training request approved",
			Body:     "Your training request %q has received final approval.",
			Priority: models.NotificationPriorityNormal,
			Action:   "view_request",
		},
	},
	models.StatusReceived: {
		recipientRequester: {
			Title:    "Training request received",
			Body:     "The training request %q was received by the assigned trainer.",
			Priority: models.NotificationPriorityNormal,
			Action:   "view_request",
		},
		recipientAssignedTrainer: {
			Title:    "Training assigned to you",
			Body:     "You have been assigned to deliver %q.",
			Priority: models.NotificationPriorityHigh,
			Action:   "view_request",
		},
	},
	models.StatusScheduled: {
		recipientRequester: {
			Title:    "Training scheduled",
			Body:     "The training %q has been scheduled.",
			Priority: models.NotificationPriorityNormal,
			Action:   "view_schedule",
		},
		recipientAssignedTrainer: {
			Title:    "Training scheduled",
			Body:     "Your session for %q is now on the calendar.",
			Priority: models.NotificationPriorityNormal,
			Action:   "view_schedule",
		},
	},
	models.StatusCompleted: {
		recipientRequester: {
			Title:    "Training completed",
			Body:     "The training %q is complete. Please rate the session.",
			Priority: models.NotificationPriorityLow,
			Action:   "rate_training",
		},
		recipientAssignedTrainer: {
			Title:    "Training completed",
			Body:     "Thank you for delivering %q.",
			Priority: models.NotificationPriorityLow,
			Action:   "view_request",
		},
	},
	models.StatusCancelled: {
		recipientRequester: {
			Title:    "Training cancelled",
			Body:     "The training request %q has been cancelled.",
			Priority: models.NotificationPriorityNormal,
			Action:   "view_request",
		},
		recipientAssignedTrainer: {
			Title:    "Training cancelled",
			Body:     "The training %q you were assigned to has been cancelled.",
			Priority: models.NotificationPriorityNormal,
			Action:   "view_request",
		},
	},
}

var (
	newRequestTemplate = messageTemplate{
		Title:    "New training request",
		Body:     "A new training request %q was submitted and needs review.",
		Priority: models.NotificationPriorityHigh,
		Action:   "review_request",
	}
	applicationTemplate = messageTemplate{
		Title:    "New trainer application",
		Body:     "%s applied to deliver %q.",
		Priority: models.NotificationPriorityNormal,
		Action:   "review_applications",
	}
)

type TargetGroup struct {
	Recipient string
	UserIDs   []string
}

type WorkflowNotificationService struct {
	directory UserDirectory
	requests  TrainingRequestReader
	notifier  Notifier
	logger    *zap.Logger
	metrics   *metrics.Manager
}

func NewWorkflowNotificationService(
	directory UserDirectory,
	requests TrainingRequestReader,
	notifier Notifier,
	logger *zap.Logger,
	m *metrics.Manager,
) *WorkflowNotificationService {
	return &WorkflowNotificationService{
		directory: directory,
		requests:  requests,
		notifier:  notifier,
		logger:    logger,
		metrics:   m,
	}
}

// SendStatusChangeNotification notifies the users responsible for the new
// status. Failures are logged and never returned.
func (s *WorkflowNotificationService) SendStatusChangeNotification(ctx context.Context, change StatusChange) {
	log := s.logger.With(
		zap.String("request_id", change.RequestID),
		zap.String("old_status", string(change.OldStatus)),
		zap.String("new_status", string(change.NewStatus)),
	)

	request := change.Request
	if request == nil {
		loaded, err := s.requests.GetByID(ctx, change.RequestID)
		if err != nil {
			log.Error("load request for status notification", zap.Error(err))
			return
		}
		request = loaded
	}
	if request == nil {
		log.Warn("status notification for unknown request")
		return
	}

	groups, err := s.ResolveTargets(ctx, change.NewStatus, request)
	if err != nil {
		log.Error("resolve notification targets", zap.Error(err))
		return
	}
	if len(groups) == 0 {
		s.metrics.IncSkipped("no_targets")
		log.Info("no users to notify for status")
		return
	}

	for _, group := range groups {
		template, ok := statusTemplates[change.NewStatus][group.Recipient]
		if !ok {
			s.metrics.IncSkipped("no_template")
			log.Info("no message template", zap.String("recipient", group.Recipient))
			continue
		}

		payload := template.payload(models.NotificationTypeWorkflow, group.UserIDs, request.Title)
		payload.Data = map[string]any{
			"request_id": request.ID,
			"old_status": string(change.OldStatus),
			"new_status": string(change.NewStatus),
		}
		s.deliver(ctx, log, payload)
	}
}

func (s *WorkflowNotificationService) SendNewTrainingRequestNotification(ctx context.Context, request *models.TrainingRequest) {
	log := s.logger.With(zap.String("request_id", request.ID))

	userIDs, err := s.directory.ListUserIDs(ctx, models.UserFilter{Role: models.RoleDevelopmentOfficer})
	if err != nil {
		log.Error("list reviewers for new request", zap.Error(err))
		return
	}
	if len(userIDs) == 0 {
		s.metrics.IncSkipped("no_targets")
		log.Info("no reviewers to notify for new request")
		return
	}

	payload := newRequestTemplate.payload(models.NotificationTypeNewRequest, userIDs, request.Title)
	payload.Data = map[string]any{"request_id": request.ID}
	s.deliver(ctx, log, payload)
}

func (s *WorkflowNotificationService) SendTrainerApplicationNotification(
	ctx context.Context,
	request *models.TrainingRequest,
	trainerName string,
) {
	log := s.logger.With(zap.String("request_id", request.ID))

	userIDs, err := s.directory.ListUserIDs(ctx, models.UserFilter{
		Role:           models.RoleSupervisor,
		Specialization: request.Specialization,
	})
	if err != nil {
		log.Error("list supervisors for application", zap.Error(err))
		return
	}
	if len(userIDs) == 0 {
		s.metrics.IncSkipped("no_targets")
		log.Info("no supervisors to notify for application")
		return
	}

	name := strings.TrimSpace(trainerName)
	if name == "" {
		name = "A trainer"
	}
	payload := models.NotificationPayload{
		Title:         applicationTemplate.Title,
		Body:          fmt.Sprintf(applicationTemplate.Body, name, request.Title),
		Type:          models.NotificationTypeApplication,
		TargetUserIDs: userIDs,
		Priority:      applicationTemplate.Priority,
		Action:        stringPtr(applicationTemplate.Action),
		Data:          map[string]any{"request_id": request.ID},
	}
	s.deliver(ctx, log, payload)
}

// ResolveTargets maps a status to the user groups that must hear about it.
func (s *WorkflowNotificationService) ResolveTargets(
	ctx context.Context,
	status models.WorkflowStatus,
	request *models.TrainingRequest,
) ([]TargetGroup, error) {
	var filter models.UserFilter
	switch status {
	case models.StatusUnderReview:
		filter = models.UserFilter{Role: models.RoleDevelopmentOfficer}
	case models.StatusPendingSupervisorApproval:
		filter = models.UserFilter{Role: models.RoleSupervisor, Specialization: request.Specialization}
	case models.StatusPendingTrainerSelection:
		filter = models.UserFilter{Role: models.RoleTrainer, Specialization: request.Specialization}
	case models.StatusPendingFinalApproval:
		filter = models.UserFilter{Role: models.RoleProjectManager}
	case models.StatusFinalApproved:
		return participantGroups(request, false), nil
	case models.StatusReceived, models.StatusScheduled, models.StatusCompleted, models.StatusCancelled:
		return participantGroups(request, true), nil
	default:
		return nil, nil
	}

	userIDs, err := s.directory.ListUserIDs(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, nil
	}
	return []TargetGroup{{Recipient: filter.Role, UserIDs: userIDs}}, nil
}

func (s *WorkflowNotificationService) deliver(ctx context.Context, log *zap.Logger, payload models.NotificationPayload) {
	result, err := s.notifier.Send(ctx, payload)
	if err != nil {
		log.Error("notification delivery failed",
			zap.String("type", payload.Type),
			zap.Int("targets", len(payload.TargetUserIDs)),
			zap.Error(err),
		)
		return
	}
	log.Debug("notification delivered",
		zap.String("type", payload.Type),
		zap.Int("targets", len(payload.TargetUserIDs)),
		zap.Bool("push", result.Push.OK()),
		zap.Bool("stored", result.Stored.OK()),
	)
}

func participantGroups(request *models.TrainingRequest, includeTrainer bool) []TargetGroup {
	groups := make([]TargetGroup, 0, 2)
	if request.RequesterID != "" {
		groups = append(groups, TargetGroup{Recipient: recipientRequester, UserIDs: []string{request.RequesterID}})
	}
	if includeTrainer && request.AssignedTrainerID != nil {
		trainerID := strings.TrimSpace(*request.AssignedTrainerID)
		if trainerID != "" && trainerID != request.RequesterID {
			groups = append(groups, TargetGroup{Recipient: recipientAssignedTrainer, UserIDs: []string{trainerID}})
		}
	}
	return groups
}

// TargetUserIDs flattens resolved groups into the set of users notified.
func TargetUserIDs(groups []TargetGroup) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, group := range groups {
		for _, id := range group.UserIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

func (t messageTemplate) payload(notificationType string, userIDs []string, requestTitle string) models.NotificationPayload {
	return models.NotificationPayload{
		Title:         t.Title,
		Body:          fmt.Sprintf(t.Body, requestTitle),
		Type:          notificationType,
		TargetUserIDs: userIDs,
		Priority:      t.Priority,
		Action:        stringPtr(t.Action),
	}
}

func stringPtr(value string) *string {
	return &value
}
