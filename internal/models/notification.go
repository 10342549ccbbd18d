package models

import "time"

const (
	NotificationTypeWorkflow    = "workflow_update"
	NotificationTypeNewRequest  = "new_training_request"
	NotificationTypeApplication = "trainer_application"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityHigh   NotificationPriority = "high"
)

type NotificationPayload struct {
	Title         string               `json:"title"`
	Body          string               `json:"body"`
	Type          string               `json:"type"`
	TargetUserIDs []string             `json:"target_user_ids"`
	Priority      NotificationPriority `json:"priority"`
	Action        *string              `json:"action,omitempty"`
	Data          map[string]any       `json:"data,omitempty"`
}

type Notification struct {
	ID        string               `json:"id"`
	UserID    string               `json:"user_id"`
	Title     string               `json:"title"`
	Body      string               `json:"body"`
	Type      string               `json:"type"`
	Priority  NotificationPriority `json:"priority"`
	Action    *string              `json:"action,omitempty"`
	Data      map[string]any       `json:"data,omitempty"`
	IsRead    bool                 `json:"is_read"`
	CreatedAt time.Time            `json:"created_at"`
}
