package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/metrics"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
)

const (
	defaultMatchConcurrency = 8
	workloadWindow          = 7 * 24 * time.Hour
	noApplicationsSummary   = "No pending applications for this request"
)

type TrainerDirectory interface {
	ListActiveTrainers(ctx context.Context) ([]models.Trainer, error)
}

type AvailabilityReader interface {
	GetAvailability(ctx context.Context, trainerID string, day time.Time) (*bool, error)
}

type WorkloadReader interface {
	CountEventsBetween(ctx context.Context, trainerID string, from, to time.Time) (int, error)
}

type TrainingRequestReader interface {
	GetByID(ctx context.Context, id string) (*models.TrainingRequest, error)
}

type ApplicationReader interface {
	ListByRequest(ctx context.Context, requestID string, status string) ([]models.TrainerApplication, error)
}

type RecommendationCache interface {
	Get(ctx context.Context, requestID string) (*models.TrainerRecommendations, bool)
	Set(ctx context.Context, recommendations *models.TrainerRecommendations)
}

type TrainerMatchingService struct {
	trainers     TrainerDirectory
	availability AvailabilityReader
	workload     WorkloadReader
	requests     TrainingRequestReader
	applications ApplicationReader
	logger       *zap.Logger
	metrics      *metrics.Manager
	cache        RecommendationCache
	concurrency  int
	now          func() time.Time
}

type MatchingOption func(*TrainerMatchingService)

func WithMatchConcurrency(limit int) MatchingOption {
	return func(s *TrainerMatchingService) {
		if limit > 0 {
			s.concurrency = limit
		}
	}
}

func WithMatchingMetrics(m *metrics.Manager) MatchingOption {
	return func(s *TrainerMatchingService) {
		s.metrics = m
	}
}

func WithRecommendationCache(cache RecommendationCache) MatchingOption {
	return func(s *TrainerMatchingService) {
		s.cache = cache
	}
}

func WithMatchingClock(now func() time.Time) MatchingOption {
	return func(s *TrainerMatchingService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewTrainerMatchingService(
	trainers TrainerDirectory,
	availability AvailabilityReader,
	workload WorkloadReader,
	requests TrainingRequestReader,
	applications ApplicationReader,
	logger *zap.Logger,
	opts ...MatchingOption,
) *TrainerMatchingService {
	s := &TrainerMatchingService{
		trainers:     trainers,
		availability: availability,
		workload:     workload,
		requests:     requests,
		applications: applications,
		logger:       logger,
		concurrency:  defaultMatchConcurrency,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TrainerMatchingService) FindBestTrainers(
	ctx context.Context,
	criteria models.MatchingCriteria,
	maxResults int,
) ([]models.TrainerScore, error) {
	if strings.TrimSpace(criteria.Province) == "" ||
		strings.TrimSpace(criteria.Specialization) == "" ||
		criteria.RequestedDate.IsZero() ||
		maxResults <= 0 {
		return nil, ErrInvalidInput
	}

	started := time.Now()
	now := s.now()
	if criteria.Priority == "" {
		criteria.Priority = models.DerivePriority(now, criteria.RequestedDate)
	}

	trainers, err := s.trainers.ListActiveTrainers(ctx)
	if err != nil {
		s.logger.Error("list active trainers", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrMatchingFailure, err)
	}

	scores, err := s.scoreAll(ctx, criteria, trainers, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMatchingFailure, err)
	}
	s.metrics.ObserveMatching("find_best", started, len(scores))

	if len(scores) > maxResults {
		scores = scores[:maxResults]
	}
	return scores, nil
}

func (s *TrainerMatchingService) GetTrainerRecommendations(
	ctx context.Context,
	requestID string,
) (*models.TrainerRecommendations, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, requestID); ok {
			return cached, nil
		}
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("load training request", zap.String("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrMatchingFailure, err)
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	applications, err := s.applications.ListByRequest(ctx, requestID, models.ApplicationStatusPending)
	if err != nil {
		s.logger.Error("list pending applications", zap.String("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrMatchingFailure, err)
	}

	result := &models.TrainerRecommendations{
		RequestID:       requestID,
		Recommendations: []models.TrainerScore{},
		Summary:         noApplicationsSummary,
	}

	applicants := make([]models.Trainer, 0, len(applications))
	for _, application := range applications {
		if application.Trainer == nil {
			s.logger.Warn("application without trainer profile",
				zap.String("request_id", requestID),
				zap.String("application_id", application.ID),
			)
			continue
		}
		applicants = append(applicants, *application.Trainer)
	}
	if len(applicants) == 0 {
		return result, nil
	}

	started := time.Now()
	now := s.now()
	scores, err := s.scoreAll(ctx, request.Criteria(now), applicants, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMatchingFailure, err)
	}
	s.metrics.ObserveMatching("recommendations", started, len(scores))

	result.Recommendations = scores
	result.Summary = summarizeRecommendations(scores)

	if s.cache != nil {
		s.cache.Set(ctx, result)
	}
	return result, nil
}

// scoreAll scores trainers concurrently and returns them sorted by score,
// highest first. Ties keep the input order.
func (s *TrainerMatchingService) scoreAll(
	ctx context.Context,
	criteria models.MatchingCriteria,
	trainers []models.Trainer,
	now time.Time,
) ([]models.TrainerScore, error) {
	scores := make([]models.TrainerScore, len(trainers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range trainers {
		i := i
		g.Go(func() error {
			scores[i] = s.scoreTrainer(gctx, criteria, trainers[i], now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores, nil
}

func (s *TrainerMatchingService) scoreTrainer(
	ctx context.Context,
	criteria models.MatchingCriteria,
	trainer models.Trainer,
	now time.Time,
) models.TrainerScore {
	var (
		available       *bool
		availabilityErr error
		events          int
		workloadErr     error
	)

	var g errgroup.Group
	g.Go(func() error {
		available, availabilityErr = s.availability.GetAvailability(ctx, trainer.ID, dateOnly(criteria.RequestedDate))
		return nil
	})
	g.Go(func() error {
		events, workloadErr = s.workload.CountEventsBetween(ctx, trainer.ID, now, now.Add(workloadWindow))
		return nil
	})
	_ = g.Wait()

	if availabilityErr != nil {
		s.metrics.IncLookupFallback("availability")
		s.logger.Warn("availability lookup failed", zap.String("trainer_id", trainer.ID), zap.Error(availabilityErr))
	}
	if workloadErr != nil {
		s.metrics.IncLookupFallback("workload")
		s.logger.Warn("workload lookup failed", zap.String("trainer_id", trainer.ID), zap.Error(workloadErr))
	}

	factors := models.MatchFactors{
		Location:       locationMatch(criteria.Province, trainer.Province),
		Specialization: specializationMatch(criteria.Specialization, trainer.Specializations),
		Availability:   availabilityMatch(available, availabilityErr),
		Rating:         ratingScore(trainer.EffectiveRating()),
		Experience:     experienceScore(trainer.EffectiveHours()),
		Workload:       workloadScore(events, workloadErr),
	}

	return models.TrainerScore{
		TrainerID: trainer.ID,
		Trainer:   trainer,
		Score:     compositeScore(factors),
		Factors:   factors,
		Reasoning: buildReasoning(factors, &trainer),
	}
}

func summarizeRecommendations(scores []models.TrainerScore) string {
	if len(scores) == 0 {
		return noApplicationsSummary
	}

	total := 0.0
	for _, score := range scores {
		total += score.Score
	}
	average := total / float64(len(scores))

	top := scores[0]
	name := strings.TrimSpace(top.Trainer.FullName)
	if name == "" {
		name = "Unnamed trainer"
	}

	return fmt.Sprintf(
		"Top match: %s (%d%%). Average match across %d applicants: %d%%",
		name, percent(top.Score), len(scores), percent(average),
	)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
