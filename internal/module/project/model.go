package project

import (
	"time"

	"github.com/google/uuid"
)

// Project represents a project that groups tickets.
type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description *string   `json:"description"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Project) TableName() string {
	return "projects"
}

// MemberRole is the minimal role projection the project module writes
// when a project is created. The team module owns the full model.
type MemberRole struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_user_roles_user_project,unique"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_user_roles_user_project,unique"`
	Role      string    `gorm:"not null"`
	CreatedAt time.Time
}

// TableName returns the database table name.
func (MemberRole) TableName() string {
	return "user_roles"
}

// ProjectSummary is a project joined with the requester's role and the
// project's ticket count, as returned by list queries.
type ProjectSummary struct {
	Project
	Role        string `json:"role"`
	TicketCount int64  `json:"ticket_count"`
}
