package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/metrics"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
)

const (
	ChannelPush   = "push"
	ChannelStored = "stored"
)

var errPushNotConfigured = errors.New("push channel not configured")

type PushSender interface {
	Push(ctx context.Context, payload models.NotificationPayload) error
}

type NotificationStore interface {
	CreateForUsers(ctx context.Context, payload models.NotificationPayload) error
}

type ChannelResult struct {
	Channel string
	Err     error
}

func (r ChannelResult) OK() bool {
	return r.Err == nil
}

type DeliveryResult struct {
	Push   ChannelResult
	Stored ChannelResult
}

// Delivered is true when at least one channel reached the users.
func (r DeliveryResult) Delivered() bool {
	return r.Push.OK() || r.Stored.OK()
}

type NotificationService struct {
	push    PushSender
	store   NotificationStore
	logger  *zap.Logger
	metrics *metrics.Manager
}

func NewNotificationService(push PushSender, store NotificationStore, logger *zap.Logger, m *metrics.Manager) *NotificationService {
	return &NotificationService{
		push:    push,
		store:   store,
		logger:  logger,
		metrics: m,
	}
}

// Send races the push and persistence channels and waits for both. It fails
// only when neither channel succeeded.
func (s *NotificationService) Send(ctx context.Context, payload models.NotificationPayload) (DeliveryResult, error) {
	result := DeliveryResult{
		Push:   ChannelResult{Channel: ChannelPush},
		Stored: ChannelResult{Channel: ChannelStored},
	}
	if len(payload.TargetUserIDs) == 0 {
		return result, ErrInvalidInput
	}

	var g errgroup.Group
	g.Go(func() error {
		if s.push == nil {
			result.Push.Err = errPushNotConfigured
			return nil
		}
		result.Push.Err = s.push.Push(ctx, payload)
		return nil
	})
	g.Go(func() error {
		result.Stored.Err = s.store.CreateForUsers(ctx, payload)
		return nil
	})
	_ = g.Wait()

	s.metrics.ObserveDelivery(ChannelPush, result.Push.Err)
	s.metrics.ObserveDelivery(ChannelStored, result.Stored.Err)

	if !result.Push.OK() && !errors.Is(result.Push.Err, errPushNotConfigured) {
		s.logger.Warn("push delivery failed", zap.String("type", payload.Type), zap.Error(result.Push.Err))
	}
	if !result.Stored.OK() {
		s.logger.Warn("notification persistence failed", zap.String("type", payload.Type), zap.Error(result.Stored.Err))
	}

	if !result.Delivered() {
		return result, fmt.Errorf("%w: %w", ErrDeliveryFailed, errors.Join(result.Push.Err, result.Stored.Err))
	}
	return result, nil
}
