package ticket

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Ticket statuses.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Ticket priorities.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// ValidStatus reports whether s is a known ticket status.
func ValidStatus(s string) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known ticket priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Ticket represents a work item on a project board.
type Ticket struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description *string        `json:"description"`
	Status      string         `gorm:"not null;default:todo;index" json:"status"`
	Priority    string         `gorm:"not null;default:medium" json:"priority"`
	AssigneeID  *uuid.UUID     `gorm:"type:uuid;index" json:"assignee_id"`
	CreatedBy   *uuid.UUID     `gorm:"type:uuid" json:"created_by"`
	DueDate     *time.Time     `json:"due_date"`
	Labels      pq.StringArray `gorm:"type:text[]" json:"labels"`
	Position    int            `gorm:"not null;default:0" json:"position"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TableName returns the database table name.
func (Ticket) TableName() string {
	return "tickets"
}

// Comment is an append-only remark on a ticket.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TicketID  uuid.UUID `gorm:"type:uuid;not null;index" json:"ticket_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Body      string    `gorm:"not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Comment) TableName() string {
	return "comments"
}
