package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
)

type availabilityStore interface {
	SetAvailability(ctx context.Context, trainerID string, day time.Time, available bool) error
}

type trainerApplicationLister interface {
	ListRequestIDsByTrainer(ctx context.Context, trainerID, status string) ([]string, error)
}

type AvailabilityService struct {
	store        availabilityStore
	applications trainerApplicationLister
	cache        recommendationInvalidator
	logger       *zap.Logger
}

func NewAvailabilityService(
	store availabilityStore,
	applications trainerApplicationLister,
	cache recommendationInvalidator,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		store:        store,
		applications: applications,
		cache:        cache,
		logger:       logger,
	}
}

// SetAvailability records the trainer's availability for a day and drops
// cached recommendations for every request the trainer has a pending
// application on.
func (s *AvailabilityService) SetAvailability(ctx context.Context, trainerID string, day time.Time, available bool) error {
	if err := s.store.SetAvailability(ctx, trainerID, day, available); err != nil {
		return err
	}
	if s.cache == nil {
		return nil
	}

	requestIDs, err := s.applications.ListRequestIDsByTrainer(ctx, trainerID, models.ApplicationStatusPending)
	if err != nil {
		s.logger.Warn("list pending applications for cache invalidation",
			zap.String("trainer_id", trainerID),
			zap.Error(err),
		)
		return nil
	}
	for _, requestID := range requestIDs {
		s.cache.Invalidate(ctx, requestID)
	}
	return nil
}
