// Package events defines the domain events exchanged between feature
// modules. They live here, rather than in the modules that emit them,
// to avoid cyclic imports between the ticket/team emitters and the
// notification consumer.
package events

import (
	"github.com/google/uuid"

	"github.com/ticketflow/server/internal/infra/events"
)

// Event type constants.
const (
	TicketAssignedType      = "TicketAssigned"
	TicketStatusChangedType = "TicketStatusChanged"
	CommentAddedType        = "CommentAdded"
	MemberInvitedType       = "MemberInvited"
	MemberJoinedType        = "MemberJoined"
)

// TicketAssignedEvent is emitted when a ticket is assigned to a user.
type TicketAssignedEvent struct {
	events.BaseEvent

	TicketID    uuid.UUID `json:"ticket_id"`
	ProjectID   uuid.UUID `json:"project_id"`
	AssigneeID  uuid.UUID `json:"assignee_id"`
	AssignedBy  uuid.UUID `json:"assigned_by"`
	TicketTitle string    `json:"ticket_title"`
}

// NewTicketAssignedEvent creates a new TicketAssignedEvent.
func NewTicketAssignedEvent(ticketID, projectID, assigneeID, assignedBy uuid.UUID, title string) *TicketAssignedEvent {
	return &TicketAssignedEvent{
		BaseEvent:   events.NewBaseEvent(TicketAssignedType, ticketID, "Ticket"),
		TicketID:    ticketID,
		ProjectID:   projectID,
		AssigneeID:  assigneeID,
		AssignedBy:  assignedBy,
		TicketTitle: title,
	}
}

// TicketStatusChangedEvent is emitted when a ticket moves between columns.
type TicketStatusChangedEvent struct {
	events.BaseEvent

	TicketID    uuid.UUID  `json:"ticket_id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	MovedBy     uuid.UUID  `json:"moved_by"`
	TicketTitle string     `json:"ticket_title"`
	OldStatus   string     `json:"old_status"`
	NewStatus   string     `json:"new_status"`
}

// NewTicketStatusChangedEvent creates a new TicketStatusChangedEvent.
func NewTicketStatusChangedEvent(ticketID, projectID uuid.UUID, assigneeID *uuid.UUID, movedBy uuid.UUID, title, oldStatus, newStatus string) *TicketStatusChangedEvent {
	return &TicketStatusChangedEvent{
		BaseEvent:   events.NewBaseEvent(TicketStatusChangedType, ticketID, "Ticket"),
		TicketID:    ticketID,
		ProjectID:   projectID,
		AssigneeID:  assigneeID,
		MovedBy:     movedBy,
		TicketTitle: title,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
	}
}

// CommentAddedEvent is emitted when a comment is posted on a ticket.
type CommentAddedEvent struct {
	events.BaseEvent

	CommentID   uuid.UUID  `json:"comment_id"`
	TicketID    uuid.UUID  `json:"ticket_id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	AuthorID    uuid.UUID  `json:"author_id"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	CreatorID   *uuid.UUID `json:"creator_id,omitempty"`
	TicketTitle string     `json:"ticket_title"`
}

// NewCommentAddedEvent creates a new CommentAddedEvent.
func NewCommentAddedEvent(commentID, ticketID, projectID, authorID uuid.UUID, assigneeID, creatorID *uuid.UUID, title string) *CommentAddedEvent {
	return &CommentAddedEvent{
		BaseEvent:   events.NewBaseEvent(CommentAddedType, commentID, "Comment"),
		CommentID:   commentID,
		TicketID:    ticketID,
		ProjectID:   projectID,
		AuthorID:    authorID,
		AssigneeID:  assigneeID,
		CreatorID:   creatorID,
		TicketTitle: title,
	}
}

// MemberInvitedEvent is emitted when a project invitation is created.
type MemberInvitedEvent struct {
	events.BaseEvent

	InvitationID uuid.UUID  `json:"invitation_id"`
	ProjectID    uuid.UUID  `json:"project_id"`
	InviterID    uuid.UUID  `json:"inviter_id"`
	InviteeEmail string     `json:"invitee_email"`
	InviteeID    *uuid.UUID `json:"invitee_id,omitempty"`
	ProjectName  string     `json:"project_name"`
}

// NewMemberInvitedEvent creates a new MemberInvitedEvent.
func NewMemberInvitedEvent(invitationID, projectID, inviterID uuid.UUID, inviteeEmail string, inviteeID *uuid.UUID, projectName string) *MemberInvitedEvent {
	return &MemberInvitedEvent{
		BaseEvent:    events.NewBaseEvent(MemberInvitedType, invitationID, "ProjectInvitation"),
		InvitationID: invitationID,
		ProjectID:    projectID,
		InviterID:    inviterID,
		InviteeEmail: inviteeEmail,
		InviteeID:    inviteeID,
		ProjectName:  projectName,
	}
}

// MemberJoinedEvent is emitted when an invitation is accepted.
type MemberJoinedEvent struct {
	events.BaseEvent

	ProjectID   uuid.UUID `json:"project_id"`
	UserID      uuid.UUID `json:"user_id"`
	InviterID   uuid.UUID `json:"inviter_id"`
	ProjectName string    `json:"project_name"`
}

// NewMemberJoinedEvent creates a new MemberJoinedEvent.
func NewMemberJoinedEvent(projectID, userID, inviterID uuid.UUID, projectName string) *MemberJoinedEvent {
	return &MemberJoinedEvent{
		BaseEvent:   events.NewBaseEvent(MemberJoinedType, projectID, "Project"),
		ProjectID:   projectID,
		UserID:      userID,
		InviterID:   inviterID,
		ProjectName: projectName,
	}
}
