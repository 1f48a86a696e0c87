// Package board implements the client-side ticket board core: a remote
// ticket store abstraction, an in-memory cache, an optimistic-update
// reconciler and the column grouping used by kanban views.
package board

import (
	"time"

	"github.com/google/uuid"
)

// Ticket is the wire representation of a ticket as served by the REST API.
type Ticket struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	CreatedBy   *uuid.UUID `json:"created_by"`
	DueDate     *time.Time `json:"due_date"`
	Labels      []string   `json:"labels"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Comment is the wire representation of a ticket comment.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	TicketID  uuid.UUID `json:"ticket_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the wire representation of a user profile, as resolved for
// comment authors.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	Email       *string   `json:"email"`
}
