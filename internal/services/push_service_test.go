package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
)

func TestOneSignalPushSendsNotification(t *testing.T) {
	var (
		gotAuth string
		gotBody map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/notifications" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":"notif-1","recipients":1}`))
	}))
	defer server.Close()

	action := "view_request"
	service := NewOneSignalPushService(server.URL+"/", "app-1", "key-1")
	err := service.Push(context.Background(), models.NotificationPayload{
		Title:         "Training approved",
		Body:          "Your request was approved.",
		Type:          models.NotificationTypeWorkflow,
		TargetUserIDs: []string{"user-1", "user-2"},
		Priority:      models.NotificationPriorityHigh,
		Action:        &action,
		Data:          map[string]any{"request_id": "req-1"},
	})
	if err != nil {
		t.Fatalf("Push: %v", err)
	}

	if gotAuth != "Basic key-1" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
	if gotBody["app_id"] != "app-1" {
		t.Fatalf("unexpected app id %v", gotBody["app_id"])
	}
	if ids, _ := gotBody["include_external_user_ids"].([]any); len(ids) != 2 {
		t.Fatalf("expected two external ids, got %v", gotBody["include_external_user_ids"])
	}
	if gotBody["priority"] != float64(10) {
		t.Fatalf("expected priority 10, got %v", gotBody["priority"])
	}
	data, _ := gotBody["data"].(map[string]any)
	if data["action"] != "view_request" || data["request_id"] != "req-1" || data["type"] != models.NotificationTypeWorkflow {
		t.Fatalf("unexpected data %v", data)
	}
}

func TestOneSignalPushReportsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":["app_id not found"]}`))
	}))
	defer server.Close()

	service := NewOneSignalPushService(server.URL, "app-1", "key-1")
	err := service.Push(context.Background(), testPayload())
	if err == nil || !strings.Contains(err.Error(), "status 400") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestOneSignalPushReportsMissingRecipients(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"","errors":["All included players are not subscribed"]}`))
	}))
	defer server.Close()

	service := NewOneSignalPushService(server.URL, "app-1", "key-1")
	if err := service.Push(context.Background(), testPayload()); err == nil {
		t.Fatalf("expected error when no recipient was reached")
	}
}
