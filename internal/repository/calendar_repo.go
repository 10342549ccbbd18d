package repository

import (
	"context"
	"time"
)

type CalendarRepository struct {
	db DBTX
}

func NewCalendarRepository(db DBTX) *CalendarRepository {
	return &CalendarRepository{db: db}
}

func (r *CalendarRepository) CountEventsBetween(ctx context.Context, trainerID string, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM calendar_events
		WHERE trainer_id = $1
		  AND start_date >= $2
		  AND start_date <= $3
	`
	var count int
	if err := r.db.QueryRow(ctx, query, trainerID, from.UTC(), to.UTC()).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
