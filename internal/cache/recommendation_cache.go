package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
)

const recommendationPrefix = "recommendations:"

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// RecommendationCache keeps ranked applicants per training request. Redis
// errors degrade to a cache miss.
type RecommendationCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

func NewRecommendationCache(client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *RecommendationCache {
	return &RecommendationCache{client: client, ttl: ttl, logger: logger}
}

func (c *RecommendationCache) Get(ctx context.Context, requestID string) (*models.TrainerRecommendations, bool) {
	raw, err := c.client.Get(ctx, recommendationKey(requestID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("recommendation cache read failed", zap.String("request_id", requestID), zap.Error(err))
		}
		return nil, false
	}

	var recommendations models.TrainerRecommendations
	if err := json.Unmarshal(raw, &recommendations); err != nil {
		c.logger.Warn("recommendation cache entry corrupt", zap.String("request_id", requestID), zap.Error(err))
		return nil, false
	}
	return &recommendations, true
}

func (c *RecommendationCache) Set(ctx context.Context, recommendations *models.TrainerRecommendations) {
	if recommendations == nil {
		return
	}
	raw, err := json.Marshal(recommendations)
	if err != nil {
		c.logger.Warn("recommendation cache encode failed", zap.String("request_id", recommendations.RequestID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, recommendationKey(recommendations.RequestID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("recommendation cache write failed", zap.String("request_id", recommendations.RequestID), zap.Error(err))
	}
}

func (c *RecommendationCache) Invalidate(ctx context.Context, requestID string) {
	if err := c.client.Del(ctx, recommendationKey(requestID)).Err(); err != nil {
		c.logger.Warn("recommendation cache invalidate failed", zap.String("request_id", requestID), zap.Error(err))
	}
}

func recommendationKey(requestID string) string {
	return recommendationPrefix + requestID
}
