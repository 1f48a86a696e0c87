package timetrack

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for time entry data access.
type Repository interface {
	Create(ctx context.Context, entry *TimeEntry) error
	Update(ctx context.Context, entry *TimeEntry) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*TimeEntry, error)
	GetRunning(ctx context.Context, userID uuid.UUID) (*TimeEntry, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*TimeEntry, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// repository implements Repository using GORM.
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new time entry repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *TimeEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) Update(ctx context.Context, entry *TimeEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *repository) GetByID(ctx context.Context, id, userID uuid.UUID) (*TimeEntry, error) {
	var e TimeEntry
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}

// GetRunning returns the user's open session, if any.
func (r *repository) GetRunning(ctx context.Context, userID uuid.UUID) (*TimeEntry, error) {
	var e TimeEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND ended_at IS NULL", userID).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoRunningTimer
		}
		return nil, err
	}
	return &e, nil
}

// ListByUser returns the user's sessions, the running one first, then
// finished sessions newest first.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*TimeEntry, error) {
	var out []*TimeEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ended_at DESC NULLS FIRST").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&TimeEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}
