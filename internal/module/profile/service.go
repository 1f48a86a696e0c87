package profile

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxAvatarSize is the largest accepted avatar upload in bytes.
const MaxAvatarSize = 5 << 20

var avatarContentTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Service handles profile business logic.
type Service struct {
	repo    Repository
	storage AvatarStorage
	logger  *zap.Logger
}

// NewService creates a new profile service.
func NewService(repo Repository, storage AvatarStorage, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		storage: storage,
		logger:  logger,
	}
}

// Get returns the profile for a user.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// GetBatch returns profiles for a set of users. Missing users are
// omitted rather than reported as errors.
func (s *Service) GetBatch(ctx context.Context, userIDs []uuid.UUID) ([]*Profile, error) {
	return s.repo.GetByUserIDs(ctx, userIDs)
}

// Update applies partial updates to the caller's profile.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		p.DisplayName = req.DisplayName
	}
	if req.AvatarURL != nil {
		p.AvatarURL = req.AvatarURL
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return p, nil
}

// UploadAvatar stores an avatar image and sets it on the caller's profile.
func (s *Service) UploadAvatar(ctx context.Context, userID uuid.UUID, body io.Reader, size int64, contentType string) (*Profile, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if size <= 0 {
		return nil, ErrInvalidAvatar
	}
	if size > MaxAvatarSize {
		return nil, ErrAvatarTooLarge
	}
	ext, ok := avatarContentTypes[contentType]
	if !ok {
		return nil, ErrInvalidAvatar
	}

	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := path.Join("avatars", userID.String(), uuid.New().String()+ext)
	url, err := s.storage.Put(ctx, key, body, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}

	p.AvatarURL = &url
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.logger.Info("avatar uploaded",
		zap.String("user_id", userID.String()),
		zap.String("key", key))

	return p, nil
}
