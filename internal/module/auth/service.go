package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ticketflow/server/internal/module/auth/oauth"
)

// Service provides authentication business logic.
type Service struct {
	repo      Repository
	jwt       *JWTManager
	providers *oauth.Registry
	states    StateStore
	logger    *zap.Logger
}

// NewService creates a new auth service.
func NewService(repo Repository, jwt *JWTManager, providers *oauth.Registry, states StateStore, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		jwt:       jwt,
		providers: providers,
		states:    states,
		logger:    logger,
	}
}

// JWT returns the token manager, for middleware wiring.
func (s *Service) JWT() *JWTManager {
	return s.jwt
}

// Register creates a new email/password account with its profile.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*TokenResponse, error) {
	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)

	user := &User{Email: req.Email, PasswordHash: &hash}
	if err := txRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	profile := &Profile{
		UserID:      user.ID,
		DisplayName: &req.DisplayName,
		Email:       &user.Email,
	}
	if err := txRepo.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	return s.issueTokens(ctx, user)
}

// Login authenticates an email/password account.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil || !VerifyPassword(*user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token and issues a new token pair.
func (s *Service) Refresh(ctx context.Context, rawToken string) (*TokenResponse, error) {
	stored, err := s.repo.GetRefreshTokenByHash(ctx, s.jwt.HashRefreshToken(rawToken))
	if err != nil {
		return nil, err
	}
	if !stored.IsValid() {
		if stored.RevokedAt != nil {
			return nil, ErrRevokedToken
		}
		return nil, ErrExpiredToken
	}

	user, err := s.repo.GetUserByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}

	// Rotate: revoke the used token before issuing a replacement.
	if err := s.repo.RevokeRefreshToken(ctx, stored.ID); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the presented refresh token.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	stored, err := s.repo.GetRefreshTokenByHash(ctx, s.jwt.HashRefreshToken(rawToken))
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil // already gone, nothing to do
		}
		return err
	}
	return s.repo.RevokeRefreshToken(ctx, stored.ID)
}

// OAuthURL starts the OAuth flow for a provider, returning the redirect URL.
func (s *Service) OAuthURL(ctx context.Context, providerName string) (*OAuthURLResponse, error) {
	provider := s.providers.Get(providerName)
	if provider == nil {
		return nil, ErrInvalidOAuthProvider
	}

	state, err := generateState()
	if err != nil {
		return nil, err
	}
	if err := s.states.Set(ctx, state, providerName); err != nil {
		return nil, err
	}

	return &OAuthURLResponse{URL: provider.AuthURL(state), State: state}, nil
}

// OAuthCallback completes the OAuth flow: validates state, exchanges the
// code, and signs the user in (creating the account on first sign-in).
func (s *Service) OAuthCallback(ctx context.Context, providerName, state, code string) (*TokenResponse, error) {
	provider := s.providers.Get(providerName)
	if provider == nil {
		return nil, ErrInvalidOAuthProvider
	}

	stored, err := s.states.Get(ctx, state)
	if err != nil {
		return nil, err
	}
	if stored != providerName {
		return nil, ErrInvalidOAuthState
	}
	_ = s.states.Delete(ctx, state)

	token, err := provider.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthFailed, err)
	}

	info, err := provider.UserInfo(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthFailed, err)
	}

	user, err := s.findOrCreateOAuthUser(ctx, providerName, info)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *Service) findOrCreateOAuthUser(ctx context.Context, providerName string, info *oauth.UserInfo) (*User, error) {
	user, err := s.repo.GetUserByOAuth(ctx, providerName, info.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	// Link to an existing email account if one exists.
	user, err = s.repo.GetUserByEmail(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)

	user = &User{
		Email:         info.Email,
		OAuthProvider: &providerName,
		OAuthID:       &info.ID,
	}
	if err := txRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	profile := &Profile{UserID: user.ID, Email: &user.Email}
	if info.Name != "" {
		profile.DisplayName = &info.Name
	}
	if info.AvatarURL != "" {
		profile.AvatarURL = &info.AvatarURL
	}
	if err := txRepo.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.logger.Info("oauth user created",
		zap.String("user_id", user.ID.String()),
		zap.String("provider", providerName),
	)

	return user, nil
}

func (s *Service) issueTokens(ctx context.Context, user *User) (*TokenResponse, error) {
	access, expiresAt, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	raw, hash, refreshExpiry := s.jwt.GenerateRefreshToken()
	if err := s.repo.CreateRefreshToken(ctx, &RefreshToken{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: refreshExpiry,
	}); err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken:  access,
		RefreshToken: raw,
		ExpiresAt:    expiresAt,
		UserID:       user.ID,
		Email:        user.Email,
	}, nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
