package repository

import (
	"context"
	"time"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
)

type CreateTrainingRequestInput struct {
	Title          string
	Province       string
	Specialization string
	RequestedDate  time.Time
	RequesterID    string
}

type TrainingRequestRepository struct {
	db DBTX
}

func NewTrainingRequestRepository(db DBTX) *TrainingRequestRepository {
	return &TrainingRequestRepository{db: db}
}

const trainingRequestColumns = `
	id, title, province, specialization, requested_date, status,
	requester_id, assigned_trainer_id, created_at, updated_at
`

func (r *TrainingRequestRepository) Create(
	ctx context.Context,
	input CreateTrainingRequestInput,
) (*models.TrainingRequest, error) {
	query := `
		INSERT INTO training_requests (title, province, specialization, requested_date, status, requester_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + trainingRequestColumns
	return scanTrainingRequest(r.db.QueryRow(
		ctx,
		query,
		input.Title,
		input.Province,
		input.Specialization,
		input.RequestedDate,
		models.StatusUnderReview,
		input.RequesterID,
	))
}

func (r *TrainingRequestRepository) GetByID(ctx context.Context, id string) (*models.TrainingRequest, error) {
	query := `SELECT ` + trainingRequestColumns + ` FROM training_requests WHERE id = $1`
	return scanTrainingRequest(r.db.QueryRow(ctx, query, id))
}

// UpdateStatusIfCurrent moves the request only if nobody changed its status
// in the meantime. assignedTrainerID is kept when nil.
func (r *TrainingRequestRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	id string,
	current models.WorkflowStatus,
	next models.WorkflowStatus,
	assignedTrainerID *string,
) (*models.TrainingRequest, error) {
	query := `
		UPDATE training_requests
		SET status = $3,
			assigned_trainer_id = COALESCE($4, assigned_trainer_id),
			updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + trainingRequestColumns
	return scanTrainingRequest(r.db.QueryRow(ctx, query, id, current, next, assignedTrainerID))
}

func scanTrainingRequest(row interface{ Scan(dest ...any) error }) (*models.TrainingRequest, error) {
	var request models.TrainingRequest
	err := row.Scan(
		&request.ID,
		&request.Title,
		&request.Province,
		&request.Specialization,
		&request.RequestedDate,
		&request.Status,
		&request.RequesterID,
		&request.AssignedTrainerID,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}
