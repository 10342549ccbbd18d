package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/catalog"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, full_name, email, role, province, specialization, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var (
		user           models.User
		specialization *string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Role,
		&user.Province,
		&specialization,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Specializations = models.ParseSpecializations(stringValue(specialization))
	return &user, nil
}

// ListUserIDs returns active users holding filter.Role. The specialization
// filter is applied after parsing because the column holds single values,
// lists and serialized lists side by side.
func (r *UserRepository) ListUserIDs(ctx context.Context, filter models.UserFilter) ([]string, error) {
	query := `
		SELECT id, specialization
		FROM users
		WHERE role = $1 AND is_active = TRUE
	`
	args := []any{filter.Role}
	if len(filter.IDs) > 0 {
		query += ` AND id::text = ANY($2::text[])`
		args = append(args, filter.IDs)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wanted := strings.TrimSpace(filter.Specialization)
	ids := make([]string, 0)
	for rows.Next() {
		var (
			id             string
			specialization *string
		)
		if err := rows.Scan(&id, &specialization); err != nil {
			return nil, err
		}
		if wanted != "" {
			specs := models.ParseSpecializations(stringValue(specialization))
			if !catalog.HasSpecialization(specs, wanted) {
				continue
			}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

const trainerColumns = `
	u.id, COALESCE(u.full_name, ''), COALESCE(u.province, ''), u.specialization,
	u.rating, u.total_training_hours, u.is_active,
	ts.trainer_id IS NOT NULL, ts.average_rating, ts.total_hours
`

func (r *UserRepository) ListActiveTrainers(ctx context.Context) ([]models.Trainer, error) {
	query := `
		SELECT ` + trainerColumns + `
		FROM users u
		LEFT JOIN trainer_statistics ts ON ts.trainer_id = u.id
		WHERE u.role = 'trainer' AND u.is_active = TRUE
		ORDER BY u.created_at ASC, u.id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trainers := make([]models.Trainer, 0)
	for rows.Next() {
		trainer, err := scanTrainer(rows)
		if err != nil {
			return nil, err
		}
		trainers = append(trainers, *trainer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trainers, nil
}

func (r *UserRepository) GetTrainerByID(ctx context.Context, id string) (*models.Trainer, error) {
	query := `
		SELECT ` + trainerColumns + `
		FROM users u
		LEFT JOIN trainer_statistics ts ON ts.trainer_id = u.id
		WHERE u.id = $1 AND u.role = 'trainer'
	`
	return scanTrainer(r.db.QueryRow(ctx, query, id))
}

func scanTrainer(row pgx.Row, extra ...any) (*models.Trainer, error) {
	var (
		trainer        models.Trainer
		specialization *string
		hasStats       bool
		stats          models.TrainerStatistics
	)
	dest := []any{
		&trainer.ID,
		&trainer.FullName,
		&trainer.Province,
		&specialization,
		&trainer.Rating,
		&trainer.TotalHours,
		&trainer.IsActive,
		&hasStats,
		&stats.AverageRating,
		&stats.TotalHours,
	}
	if err := row.Scan(append(extra, dest...)...); err != nil {
		return nil, err
	}
	trainer.Specializations = models.ParseSpecializations(stringValue(specialization))
	if hasStats {
		trainer.Stats = &stats
	}
	return &trainer, nil
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
