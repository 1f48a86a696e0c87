package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for profile data access.
type Repository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]*Profile, error)
	Update(ctx context.Context, profile *Profile) error
}

// repository implements Repository using GORM.
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new profile repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]*Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var profiles []*Profile
	err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *repository) Update(ctx context.Context, profile *Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
