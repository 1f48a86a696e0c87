package ticket

import (
	"time"

	"github.com/google/uuid"

	"github.com/ticketflow/server/internal/board"
)

// CreateTicketRequest creates a ticket in a project.
type CreateTicketRequest struct {
	Title       string     `json:"title" binding:"required,max=300"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
	Labels      []string   `json:"labels"`
}

// UpdateTicketRequest applies partial updates to a ticket.
type UpdateTicketRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=300"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
	Labels      *[]string  `json:"labels"`
	Position    *int       `json:"position"`
}

// MoveTicketRequest re-labels a ticket's status. Position is untouched.
type MoveTicketRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateCommentRequest posts a comment on a ticket.
type CreateCommentRequest struct {
	Body string `json:"body" binding:"required,max=5000"`
}

// CommentAuthor is the resolved profile attached to a comment.
type CommentAuthor struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
}

// CommentResponse is a comment with its author resolved.
type CommentResponse struct {
	Comment
	Author *CommentAuthor `json:"author,omitempty"`
}

// BoardResponse is the grouped board view of a project.
type BoardResponse struct {
	ProjectID uuid.UUID      `json:"project_id"`
	Columns   []board.Column `json:"columns"`
}

// CalendarResponse is the month view: a 42-cell padded grid with
// per-day ticket buckets keyed by YYYY-MM-DD.
type CalendarResponse struct {
	Month   string                    `json:"month"`
	Cells   []string                  `json:"cells"`
	Buckets map[string][]board.Ticket `json:"buckets"`
}
