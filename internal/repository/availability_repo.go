package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

type AvailabilityRepository struct {
	db DBTX
}

func NewAvailabilityRepository(db DBTX) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// GetAvailability returns nil without error when the trainer has no record
// for that day.
func (r *AvailabilityRepository) GetAvailability(ctx context.Context, trainerID string, day time.Time) (*bool, error) {
	query := `
		SELECT is_available
		FROM trainer_availability
		WHERE trainer_id = $1 AND date = $2::date
	`
	var available bool
	err := r.db.QueryRow(ctx, query, trainerID, day.Format("2006-01-02")).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &available, nil
}

func (r *AvailabilityRepository) SetAvailability(ctx context.Context, trainerID string, day time.Time, available bool) error {
	query := `
		INSERT INTO trainer_availability (trainer_id, date, is_available)
		VALUES ($1, $2::date, $3)
		ON CONFLICT (trainer_id, date) DO UPDATE SET is_available = EXCLUDED.is_available
	`
	_, err := r.db.Exec(ctx, query, trainerID, day.Format("2006-01-02"), available)
	return err
}
