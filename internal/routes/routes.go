package routes

import (
	"context"
	"errors"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/cache"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/config"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/handlers"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/metrics"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/middleware"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/repository"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/services"
	notifyws "github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/websocket"
)

type Dependencies struct {
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Logger  *zap.Logger
	Metrics *metrics.Manager
}

func RegisterRoutes(ctx context.Context, app *fiber.App, cfg *config.Config, deps Dependencies) error {
	if deps.DB == nil {
		return errors.New("routes: database pool is required")
	}
	log := deps.Logger

	userRepo := repository.NewUserRepository(deps.DB)
	requestRepo := repository.NewTrainingRequestRepository(deps.DB)
	applicationRepo := repository.NewApplicationRepository(deps.DB)
	availabilityRepo := repository.NewAvailabilityRepository(deps.DB)
	calendarRepo := repository.NewCalendarRepository(deps.DB)
	notificationRepo := repository.NewNotificationRepository(deps.DB)

	hub := notifyws.NewHub(log.Named("ws"))
	go hub.Run(ctx)

	var push services.PushSender = hub
	if cfg.PushEnabled() {
		push = services.NewOneSignalPushService(cfg.OneSignalURL, cfg.OneSignalAppID, cfg.OneSignalAPIKey)
		log.Info("push notifications via OneSignal")
	} else {
		log.Info("OneSignal not configured; pushing over websocket")
	}

	matchingOpts := []services.MatchingOption{
		services.WithMatchConcurrency(cfg.MatchConcurrency),
		services.WithMatchingMetrics(deps.Metrics),
	}
	var invalidator interface {
		Invalidate(ctx context.Context, requestID string)
	}
	if deps.Redis != nil {
		recommendationCache := cache.NewRecommendationCache(deps.Redis, cfg.RecommendationCacheTTL, log.Named("cache"))
		matchingOpts = append(matchingOpts, services.WithRecommendationCache(recommendationCache))
		invalidator = recommendationCache
	}

	notificationService := services.NewNotificationService(push, notificationRepo, log.Named("notifications"), deps.Metrics)
	workflowRouter := services.NewWorkflowNotificationService(userRepo, requestRepo, notificationService, log.Named("workflow"), deps.Metrics)
	matchingService := services.NewTrainerMatchingService(
		userRepo,
		availabilityRepo,
		calendarRepo,
		requestRepo,
		applicationRepo,
		log.Named("matching"),
		matchingOpts...,
	)
	requestService := services.NewTrainingRequestService(requestRepo, applicationRepo, userRepo, workflowRouter, invalidator, log.Named("requests"))

	matchingHandler := handlers.NewMatchingHandler(matchingService)
	requestHandler := handlers.NewTrainingRequestHandler(requestService)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	availabilityService := services.NewAvailabilityService(availabilityRepo, applicationRepo, invalidator, log.Named("availability"))
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	streamHandler := handlers.NewNotificationStreamHandler(hub, cfg.JWTSecret)

	app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))

	api := app.Group("/api")
	api.Use("/v1/ws", streamHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(streamHandler.HandleWebSocket))

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	matching := authProtected.Group("/matching")
	matching.Post("/trainers", matchingHandler.FindTrainers)

	requests := authProtected.Group("/training-requests")
	requests.Post("", requestHandler.Create)
	requests.Put("/:id/status", requestHandler.UpdateStatus)
	requests.Post("/:id/applications", requestHandler.Apply)
	requests.Get("/:id/recommendations", matchingHandler.GetRecommendations)

	trainers := authProtected.Group("/trainers", middleware.RequireRoles(models.RoleTrainer))
	trainers.Put("/me/availability", availabilityHandler.SetOwnAvailability)

	notifications := authProtected.Group("/notifications")
	notifications.Get("", notificationHandler.List)
	notifications.Put("/:id/read", notificationHandler.MarkRead)

	return nil
}
