package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
)

type NotificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateForUsers writes one row per target user in a single statement.
func (r *NotificationRepository) CreateForUsers(ctx context.Context, payload models.NotificationPayload) error {
	data, err := json.Marshal(payload.Data)
	if err != nil {
		return fmt.Errorf("marshal notification data: %w", err)
	}

	query := `
		INSERT INTO notifications (user_id, title, body, type, priority, action, data)
		SELECT target::uuid, $2, $3, $4, $5, $6, $7::jsonb
		FROM unnest($1::text[]) AS target
	`
	_, err = r.db.Exec(ctx, query,
		payload.TargetUserIDs,
		payload.Title,
		payload.Body,
		payload.Type,
		payload.Priority,
		payload.Action,
		string(data),
	)
	return err
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Notification, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, user_id, title, body, type, priority, action, data, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		OFFSET $2 LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		var (
			notification models.Notification
			data         []byte
		)
		if err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.Title,
			&notification.Body,
			&notification.Type,
			&notification.Priority,
			&notification.Action,
			&data,
			&notification.IsRead,
			&notification.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &notification.Data); err != nil {
				return nil, 0, fmt.Errorf("decode notification data: %w", err)
			}
		}
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		notificationID, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
