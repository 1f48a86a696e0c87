package auth

import "errors"

// Auth module errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrRevokedToken       = errors.New("token has been revoked")
	ErrTokenNotFound      = errors.New("refresh token not found")
	ErrInvalidTokenClaims = errors.New("invalid token claims")

	ErrInvalidOAuthProvider = errors.New("invalid OAuth provider")
	ErrInvalidOAuthState    = errors.New("invalid OAuth state")
	ErrOAuthFailed          = errors.New("OAuth authentication failed")
)
