package profile

import "errors"

// Profile module errors.
var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInvalidAvatar      = errors.New("invalid avatar file")
	ErrAvatarTooLarge     = errors.New("avatar file too large")
	ErrStorageUnavailable = errors.New("avatar storage unavailable")
)
