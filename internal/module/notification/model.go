package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	TypeTicketAssigned = "ticket_assigned"
	TypeStatusChanged  = "status_changed"
	TypeCommentAdded   = "comment_added"
	TypeInvitation     = "invitation"
	TypeMemberJoined   = "member_joined"
)

// Notification is a per-user in-app notification.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_user" json:"user_id"`
	Type      string     `gorm:"not null" json:"type"`
	Title     string     `gorm:"not null" json:"title"`
	Message   *string    `json:"message,omitempty"`
	Read      bool       `gorm:"not null;default:false" json:"read"`
	ProjectID *uuid.UUID `gorm:"type:uuid" json:"project_id,omitempty"`
	TicketID  *uuid.UUID `gorm:"type:uuid" json:"ticket_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName specifies the table name for Notification.
func (Notification) TableName() string {
	return "notifications"
}
