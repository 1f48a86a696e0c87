package timetrack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements time tracking business logic.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new time tracking service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Start opens a new timer session. Only one session may be running per
// user at a time.
func (s *Service) Start(ctx context.Context, userID uuid.UUID, req *StartRequest) (*TimeEntry, error) {
	_, err := s.repo.GetRunning(ctx, userID)
	if err == nil {
		return nil, ErrTimerRunning
	}
	if !errors.Is(err, ErrNoRunningTimer) {
		return nil, err
	}

	entry := &TimeEntry{
		UserID:      userID,
		Description: req.Description,
		StartedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("start timer: %w", err)
	}

	s.logger.Info("timer started", zap.String("user_id", userID.String()))
	return entry, nil
}

// Stop closes the running session and computes its duration.
func (s *Service) Stop(ctx context.Context, userID uuid.UUID) (*TimeEntry, error) {
	entry, err := s.repo.GetRunning(ctx, userID)
	if err != nil {
		return nil, err
	}

	ended := s.now()
	entry.EndedAt = &ended
	entry.DurationSeconds = int64(ended.Sub(entry.StartedAt).Seconds())
	if entry.DurationSeconds < 0 {
		entry.DurationSeconds = 0
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("stop timer: %w", err)
	}

	s.logger.Info("timer stopped",
		zap.String("user_id", userID.String()),
		zap.Int64("duration_seconds", entry.DurationSeconds))
	return entry, nil
}

// AddManual records a finished session after the fact. StartedAt is
// back-dated so the interval is consistent with the duration.
func (s *Service) AddManual(ctx context.Context, userID uuid.UUID, req *ManualEntryRequest) (*TimeEntry, error) {
	if req.DurationSeconds <= 0 {
		return nil, ErrInvalidDuration
	}

	ended := s.now()
	entry := &TimeEntry{
		UserID:          userID,
		Description:     req.Description,
		StartedAt:       ended.Add(-time.Duration(req.DurationSeconds) * time.Second),
		EndedAt:         &ended,
		DurationSeconds: req.DurationSeconds,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create manual entry: %w", err)
	}
	return entry, nil
}

// List returns the user's sessions, running first, then newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*TimeEntry, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Delete removes one of the user's sessions.
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}
