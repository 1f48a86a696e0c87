package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ticketflow/server/internal/shared/config"
	"github.com/ticketflow/server/internal/shared/metrics"
)

const (
	// listLimit caps how many notifications a single list call returns.
	listLimit = 100

	// unreadTTL bounds staleness of the cached unread counter when an
	// invalidation is lost.
	unreadTTL = 5 * time.Minute
)

// Service implements notification business logic. The Redis client is
// optional: without it unread counts hit the database directly and
// live push delivery is disabled.
type Service struct {
	repo   Repository
	redis  *redis.Client
	stream config.StreamConfig
	logger *zap.Logger
}

// NewService creates a new notification service.
func NewService(repo Repository, rdb *redis.Client, stream config.StreamConfig, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		redis:  rdb,
		stream: stream,
		logger: logger,
	}
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Notification, error) {
	return s.repo.ListByUser(ctx, userID, listLimit)
}

// MarkRead marks a single notification as read.
func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return err
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

// MarkAllRead marks all of the user's notifications as read.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

// Delete removes a single notification.
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

// Clear removes all of the user's notifications.
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteAll(ctx, userID); err != nil {
		return err
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

// UnreadCount returns the number of unread notifications, served from
// Redis when a fresh cached value exists.
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if s.redis == nil {
		return s.repo.CountUnread(ctx, userID)
	}

	key := s.unreadKey(userID)
	cached, err := s.redis.Get(ctx, key).Int64()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		s.logger.Warn("unread count cache read failed", zap.Error(err))
	}

	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := s.redis.Set(ctx, key, count, unreadTTL).Err(); err != nil {
		s.logger.Warn("unread count cache write failed", zap.Error(err))
	}
	return count, nil
}

// notify persists a notification and pushes it to the user's live
// stream channel. Push failures are logged, never surfaced: the row is
// already durable and will show up on the next list call.
func (s *Service) notify(ctx context.Context, n *Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	metrics.Default.NotificationsCreated.Inc()
	s.invalidateUnread(ctx, n.UserID)

	if s.redis == nil {
		return nil
	}

	payload, err := json.Marshal(n)
	if err != nil {
		s.logger.Error("marshal notification", zap.Error(err))
		return nil
	}
	if err := s.redis.Publish(ctx, s.channel(n.UserID), payload).Err(); err != nil {
		s.logger.Warn("publish notification",
			zap.String("user_id", n.UserID.String()),
			zap.Error(err))
	}
	return nil
}

// Subscribe opens a live subscription to the user's push channel. The
// caller owns the returned PubSub and must close it.
func (s *Service) Subscribe(ctx context.Context, userID uuid.UUID) (*redis.PubSub, error) {
	if s.redis == nil {
		return nil, ErrStreamUnavailable
	}
	return s.redis.Subscribe(ctx, s.channel(userID)), nil
}

// StreamConfig exposes the push stream tuning for the SSE handler.
func (s *Service) StreamConfig() config.StreamConfig {
	return s.stream
}

func (s *Service) invalidateUnread(ctx context.Context, userID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, s.unreadKey(userID)).Err(); err != nil {
		s.logger.Warn("unread count invalidation failed", zap.Error(err))
	}
}

func (s *Service) unreadKey(userID uuid.UUID) string {
	return "unread:" + userID.String()
}

func (s *Service) channel(userID uuid.UUID) string {
	return s.stream.ChannelPrefix + userID.String()
}
