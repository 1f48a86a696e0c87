package auth

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that can sign in.
type User struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email         string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash  *string   `json:"-"`
	OAuthProvider *string   `json:"oauth_provider,omitempty"`
	OAuthID       *string   `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}

// Profile is the minimal profile projection the auth module writes when
// an account is created. The profile module owns the full model.
type Profile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	DisplayName *string
	AvatarURL   *string
	Email       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the database table name.
func (Profile) TableName() string {
	return "profiles"
}

// RefreshToken is a stored, hashed refresh token.
type RefreshToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	TokenHash string     `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time  `gorm:"not null"`
	RevokedAt *time.Time
	CreatedAt time.Time
}

// TableName returns the database table name.
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// IsValid reports whether the token is neither revoked nor expired.
func (t *RefreshToken) IsValid() bool {
	return t.RevokedAt == nil && time.Now().Before(t.ExpiresAt)
}
