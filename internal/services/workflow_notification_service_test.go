package services

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
)

type stubUserDirectory struct {
	byRole  map[string][]string
	err     error
	filters []models.UserFilter
}

func (s *stubUserDirectory) ListUserIDs(_ context.Context, filter models.UserFilter) ([]string, error) {
	s.filters = append(s.filters, filter)
	if s.err != nil {
		return nil, s.err
	}
	return s.byRole[filter.Role], nil
}

type stubNotifier struct {
	payloads []models.NotificationPayload
	err      error
}

func (s *stubNotifier) Send(_ context.Context, payload models.NotificationPayload) (DeliveryResult, error) {
	s.payloads = append(s.payloads, payload)
	return DeliveryResult{}, s.err
}

func (s *stubNotifier) targets() []string {
	ids := make([]string, 0)
	for _, payload := range s.payloads {
		ids = append(ids, payload.TargetUserIDs...)
	}
	sort.Strings(ids)
	return ids
}

func sampleRequest() *models.TrainingRequest {
	return &models.TrainingRequest{
		ID:             "req-1",
		Title:          "Leadership basics",
		Province:       "cairo",
		Specialization: "leadership",
		RequesterID:    "requester-1",
	}
}

func newTestRouter(directory *stubUserDirectory, requests *stubRequestReader, notifier *stubNotifier) *WorkflowNotificationService {
	return NewWorkflowNotificationService(directory, requests, notifier, zap.NewNop(), nil)
}

func TestStatusChangeFinalApprovedNotifiesRequesterOnly(t *testing.T) {
	notifier := &stubNotifier{}
	router := newTestRouter(&stubUserDirectory{}, &stubRequestReader{}, notifier)

	router.SendStatusChangeNotification(context.Background(), StatusChange{
		RequestID: "req-1",
		OldStatus: models.StatusPendingFinalApproval,
		NewStatus: models.StatusFinalApproved,
		Request:   sampleRequest(),
	})

	if got := notifier.targets(); !reflect.DeepEqual(got, []string{"requester-1"}) {
		t.Fatalf("expected requester only, got %v", got)
	}
	payload := notifier.payloads[0]
	if payload.Type != models.NotificationTypeWorkflow {
		t.Fatalf("unexpected type %q", payload.Type)
	}
	if !strings.Contains(payload.Body, "Leadership basics") {
		t.Fatalf("expected request title in body, got %q", payload.Body)
	}
	if payload.Data["new_status"] != string(models.StatusFinalApproved) {
		t.Fatalf("unexpected data %v", payload.Data)
	}
}

func TestStatusChangeCompletedIncludesAssignedTrainer(t *testing.T) {
	notifier := &stubNotifier{}
	router := newTestRouter(&stubUserDirectory{}, &stubRequestReader{}, notifier)

	request := sampleRequest()
	trainerID := "trainer-7"
	request.AssignedTrainerID = &trainerID

	router.SendStatusChangeNotification(context.Background(), StatusChange{
		RequestID: request.ID,
		OldStatus: models.StatusScheduled,
		NewStatus: models.StatusCompleted,
		Request:   request,
	})

	if got := notifier.targets(); !reflect.DeepEqual(got, []string{"requester-1", "trainer-7"}) {
		t.Fatalf("expected requester and trainer, got %v", got)
	}
	if notifier.payloads[0].Title == "" || notifier.payloads[1].Title == "" {
		t.Fatalf("expected templated titles")
	}
}

func TestStatusChangeCompletedWithoutTrainer(t *testing.T) {
	notifier := &stubNotifier{}
	router := newTestRouter(&stubUserDirectory{}, &stubRequestReader{}, notifier)

	router.SendStatusChangeNotification(context.Background(), StatusChange{
		RequestID: "req-1",
		NewStatus: models.StatusCompleted,
		Request:   sampleRequest(),
	})

	if got := notifier.targets(); !reflect.DeepEqual(got, []string{"requester-1"}) {
		t.Fatalf("expected requester only, got %v", got)
	}
}

func TestStatusChangeFiltersBySpecialization(t *testing.T) {
	directory := &stubUserDirectory{byRole: map[string][]string{
		models.RoleSupervisor: {"sup-1", "sup-2"},
	}}
	notifier := &stubNotifier{}
	router := newTestRouter(directory, &stubRequestReader{}, notifier)

	router.SendStatusChangeNotification(context.Background(), StatusChange{
		RequestID: "req-1",
		OldStatus: models.StatusUnderReview,
		NewStatus: models.StatusPendingSupervisorApproval,
		Request:   sampleRequest(),
	})

	if len(directory.filters) != 1 {
		t.Fatalf("expected one directory lookup, got %d", len(directory.filters))
	}
	filter := directory.filters[0]
	if filter.Role != models.RoleSupervisor || filter.Specialization != "leadership" {
		t.Fatalf("unexpected filter %+v", filter)
	}
	if got := notifier.targets(); !reflect.DeepEqual(got, []string{"sup-1", "sup-2"}) {
		t.Fatalf("unexpected targets %v", got)
	}
	if notifier.payloads[0].Priority != models.NotificationPriorityHigh {
		t.Fatalf("expected high priority, got %q", notifier.payloads[0].Priority)
	}
}

func TestStatusChangeWithoutTargetsSendsNothing(t *testing.T) {
	notifier := &stubNotifier{}
	router := newTestRouter(&stubUserDirectory{}, &stubRequestReader{}, notifier)

	router.SendStatusChangeNotification(context.Background(), StatusChange{
		RequestID: "req-1",
		NewStatus: models.StatusPendingFinalApproval,
		Request:   sampleRequest(),
	})

	if len(notifier.payloads) != 0 {
		t.Fatalf("expected no delivery, got %d", len(notifier.payloads))
	}
}

func TestStatusChangeSwallowsFailures(t *testing.T) {
	notifier := &stubNotifier{err: ErrDeliveryFailed}
	router := newTestRouter(&stubUserDirectory{err: errors.New("directory down")}, &stubRequestReader{}, notifier)

	router.SendStatusChangeNotification(context.Background(), StatusChange{
		RequestID: "req-1",
		NewStatus: models.StatusUnderReview,
		Request:   sampleRequest(),
	})
	if len(notifier.payloads) != 0 {
		t.Fatalf("expected no delivery when the directory fails")
	}

	router = newTestRouter(&stubUserDirectory{}, &stubRequestReader{}, notifier)
	router.SendStatusChangeNotification(context.Background(), StatusChange{
		RequestID: "req-1",
		NewStatus: models.StatusCancelled,
		Request:   sampleRequest(),
	})
	if len(notifier.payloads) != 1 {
		t.Fatalf("expected one attempted delivery, got %d", len(notifier.payloads))
	}
}

func TestStatusChangeLoadsMissingRequest(t *testing.T) {
	notifier := &stubNotifier{}
	requests := &stubRequestReader{request: sampleRequest()}
	router := newTestRouter(&stubUserDirectory{}, requests, notifier)

	router.SendStatusChangeNotification(context.Background(), StatusChange{
		RequestID: "req-1",
		NewStatus: models.StatusFinalApproved,
	})

	if requests.calls != 1 {
		t.Fatalf("expected request lookup, got %d calls", requests.calls)
	}
	if len(notifier.payloads) != 1 {
		t.Fatalf("expected one delivery, got %d", len(notifier.payloads))
	}
}

func TestStatusChangeUnknownStatusIsNoop(t *testing.T) {
	directory := &stubUserDirectory{}
	notifier := &stubNotifier{}
	router := newTestRouter(directory, &stubRequestReader{}, notifier)

	router.SendStatusChangeNotification(context.Background(), StatusChange{
		RequestID: "req-1",
		NewStatus: models.WorkflowStatus("ARCHIVED"),
		Request:   sampleRequest(),
	})

	if len(directory.filters) != 0 || len(notifier.payloads) != 0 {
		t.Fatalf("expected no lookups or deliveries")
	}
}

func TestNewTrainingRequestNotifiesDevelopmentOfficers(t *testing.T) {
	directory := &stubUserDirectory{byRole: map[string][]string{
		models.RoleDevelopmentOfficer: {"dev-1", "dev-2"},
	}}
	notifier := &stubNotifier{}
	router := newTestRouter(directory, &stubRequestReader{}, notifier)

	router.SendNewTrainingRequestNotification(context.Background(), sampleRequest())

	if got := notifier.targets(); !reflect.DeepEqual(got, []string{"dev-1", "dev-2"}) {
		t.Fatalf("unexpected targets %v", got)
	}
	if notifier.payloads[0].Type != models.NotificationTypeNewRequest {
		t.Fatalf("unexpected type %q", notifier.payloads[0].Type)
	}
}

func TestTrainerApplicationNotifiesMatchingSupervisors(t *testing.T) {
	directory := &stubUserDirectory{byRole: map[string][]string{
		models.RoleSupervisor: {"sup-1"},
	}}
	notifier := &stubNotifier{}
	router := newTestRouter(directory, &stubRequestReader{}, notifier)

	router.SendTrainerApplicationNotification(context.Background(), sampleRequest(), "Mona")

	if directory.filters[0].Specialization != "leadership" {
		t.Fatalf("expected specialization filter, got %+v", directory.filters[0])
	}
	payload := notifier.payloads[0]
	if payload.Body != `Mona applied to deliver "Leadership basics".` {
		t.Fatalf("unexpected body %q", payload.Body)
	}
	if payload.Type != models.NotificationTypeApplication {
		t.Fatalf("unexpected type %q", payload.Type)
	}
}

func TestTargetUserIDsDeduplicates(t *testing.T) {
	groups := []TargetGroup{
		{Recipient: recipientRequester, UserIDs: []string{"a", "b"}},
		{Recipient: recipientAssignedTrainer, UserIDs: []string{"b", "c"}},
	}
	if got := TargetUserIDs(groups); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected ids %v", got)
	}
}
