package team

import (
	"time"

	"github.com/google/uuid"
)

// Roles a project member can hold.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleMember
}

// Invitation statuses.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
)

// UserRole binds a user to a project with a role.
type UserRole struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_user_roles_user_project,unique" json:"user_id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_user_roles_user_project,unique" json:"project_id"`
	Role      string    `gorm:"not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (UserRole) TableName() string {
	return "user_roles"
}

// ProjectInvitation is a pending offer to join a project, addressed by
// email so unregistered users can be invited.
type ProjectInvitation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Email     string    `gorm:"not null;index" json:"email"`
	Role      string    `gorm:"not null;default:member" json:"role"`
	Status    string    `gorm:"not null;default:pending" json:"status"`
	InvitedBy uuid.UUID `gorm:"type:uuid;not null" json:"invited_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (ProjectInvitation) TableName() string {
	return "project_invitations"
}

// IsPending reports whether the invitation can still be acted on.
func (i *ProjectInvitation) IsPending() bool {
	return i.Status == InvitationPending
}
