package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/cache"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/config"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/database"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/logger"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/metrics"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/routes"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Connect to Database
	if cfg.DBUrl == "" {
		zl.Fatal("DB_URL is required")
	}
	pool, err := database.Connect(ctx, cfg.DBUrl, zl)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	var redisClient *redis.Client
	if cfg.CacheEnabled() {
		redisClient, err = cache.NewRedisClient(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			zl.Warn("recommendation cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// 3. Setup Fiber
	app := fiber.New()

	app.Use(cors.New())
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	if err := routes.RegisterRoutes(ctx, app, cfg, routes.Dependencies{
		DB:      pool,
		Redis:   redisClient,
		Logger:  zl,
		Metrics: metrics.NewManager(),
	}); err != nil {
		zl.Fatal("failed to register routes", zap.Error(err))
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			zl.Error("server shutdown", zap.Error(err))
		}
	}()

	// 4. Start Server
	zl.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zl.Fatal("server failed to start", zap.Error(err))
	}
}
