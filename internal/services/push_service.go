package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
)

const defaultOneSignalURL = "https://onesignal.com/api/v1"

type OneSignalPushService struct {
	baseURL    string
	appID      string
	apiKey     string
	httpClient *http.Client
}

func NewOneSignalPushService(baseURL, appID, apiKey string) *OneSignalPushService {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultOneSignalURL
	}
	return &OneSignalPushService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		appID:      appID,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type oneSignalNotification struct {
	AppID                  string            `json:"app_id"`
	IncludeExternalUserIDs []string          `json:"include_external_user_ids"`
	ChannelForExternalIDs  string            `json:"channel_for_external_user_ids"`
	Headings               map[string]string `json:"headings"`
	Contents               map[string]string `json:"contents"`
	Data                   map[string]any    `json:"data,omitempty"`
	Priority               int               `json:"priority,omitempty"`
}

func (s *OneSignalPushService) Push(ctx context.Context, payload models.NotificationPayload) error {
	data := make(map[string]any, len(payload.Data)+2)
	for key, value := range payload.Data {
		data[key] = value
	}
	data["type"] = payload.Type
	if payload.Action != nil {
		data["action"] = *payload.Action
	}

	body, err := json.Marshal(oneSignalNotification{
		AppID:                  s.appID,
		IncludeExternalUserIDs: payload.TargetUserIDs,
		ChannelForExternalIDs:  "push",
		Headings:               map[string]string{"en": payload.Title},
		Contents:               map[string]string{"en": payload.Body},
		Data:                   data,
		Priority:               oneSignalPriority(payload.Priority),
	})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+s.apiKey)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("send push: status %d: %s", resp.StatusCode, strings.TrimSpace(string(responseBody)))
	}

	var response struct {
		ID     string          `json:"id"`
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("decode push response: %w", err)
	}
	if response.ID == "" {
		return fmt.Errorf("send push: no recipients: %s", strings.TrimSpace(string(response.Errors)))
	}
	return nil
}

func oneSignalPriority(priority models.NotificationPriority) int {
	switch priority {
	case models.NotificationPriorityHigh:
		return 10
	case models.NotificationPriorityLow:
		return 1
	default:
		return 5
	}
}
