package team

import (
	"time"

	"github.com/google/uuid"
)

// InviteRequest invites a user to a project by email.
type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
}

// UpdateRoleRequest changes a member's role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// Member is a project member with their resolved profile.
type Member struct {
	UserID      uuid.UUID `json:"user_id"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	Email       *string   `json:"email"`
}
