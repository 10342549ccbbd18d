package repository

import (
	"context"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
)

type ApplicationRepository struct {
	db DBTX
}

func NewApplicationRepository(db DBTX) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, requestID, trainerID string) (*models.TrainerApplication, error) {
	query := `
		INSERT INTO trainer_applications (request_id, trainer_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, request_id, trainer_id, status, created_at
	`
	var application models.TrainerApplication
	err := r.db.QueryRow(ctx, query, requestID, trainerID, models.ApplicationStatusPending).Scan(
		&application.ID,
		&application.RequestID,
		&application.TrainerID,
		&application.Status,
		&application.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// ListByRequest returns applications in the given status, each joined to the
// applicant's trainer profile and statistics.
func (r *ApplicationRepository) ListByRequest(
	ctx context.Context,
	requestID string,
	status string,
) ([]models.TrainerApplication, error) {
	query := `
		SELECT a.id, a.request_id, a.trainer_id, a.status, a.created_at,
			` + trainerColumns + `
		FROM trainer_applications a
		JOIN users u ON u.id = a.trainer_id
		LEFT JOIN trainer_statistics ts ON ts.trainer_id = u.id
		WHERE a.request_id = $1 AND a.status = $2
		ORDER BY a.created_at ASC, a.id ASC
	`
	rows, err := r.db.Query(ctx, query, requestID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applications := make([]models.TrainerApplication, 0)
	for rows.Next() {
		var application models.TrainerApplication
		trainer, err := scanTrainer(rows,
			&application.ID,
			&application.RequestID,
			&application.TrainerID,
			&application.Status,
			&application.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		application.Trainer = trainer
		applications = append(applications, application)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *ApplicationRepository) ListRequestIDsByTrainer(ctx context.Context, trainerID, status string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT request_id
		FROM trainer_applications
		WHERE trainer_id = $1 AND status = $2
	`, trainerID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
