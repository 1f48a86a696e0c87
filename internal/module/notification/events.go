package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	infraevents "github.com/ticketflow/server/internal/infra/events"
	"github.com/ticketflow/server/internal/shared/events"
)

// EventHandler turns domain events into per-user notifications.
type EventHandler struct {
	service *Service
}

// NewEventHandler creates a new notification event handler.
func NewEventHandler(service *Service) *EventHandler {
	return &EventHandler{service: service}
}

// Handles returns the event types this handler consumes.
func (h *EventHandler) Handles() []string {
	return []string{
		events.TicketAssignedType,
		events.TicketStatusChangedType,
		events.CommentAddedType,
		events.MemberInvitedType,
		events.MemberJoinedType,
	}
}

// Handle fans an event out to the affected users. The bus is
// synchronous, so this runs on the publisher's goroutine.
func (h *EventHandler) Handle(event infraevents.Event) error {
	ctx := context.Background()

	switch e := event.(type) {
	case *events.TicketAssignedEvent:
		return h.ticketAssigned(ctx, e)
	case *events.TicketStatusChangedEvent:
		return h.statusChanged(ctx, e)
	case *events.CommentAddedEvent:
		return h.commentAdded(ctx, e)
	case *events.MemberInvitedEvent:
		return h.memberInvited(ctx, e)
	case *events.MemberJoinedEvent:
		return h.memberJoined(ctx, e)
	default:
		return fmt.Errorf("unexpected event type %s", event.EventType())
	}
}

func (h *EventHandler) ticketAssigned(ctx context.Context, e *events.TicketAssignedEvent) error {
	if e.AssigneeID == e.AssignedBy {
		return nil
	}
	msg := fmt.Sprintf("You were assigned to %q", e.TicketTitle)
	return h.service.notify(ctx, &Notification{
		UserID:    e.AssigneeID,
		Type:      TypeTicketAssigned,
		Title:     "Ticket assigned",
		Message:   &msg,
		ProjectID: &e.ProjectID,
		TicketID:  &e.TicketID,
	})
}

func (h *EventHandler) statusChanged(ctx context.Context, e *events.TicketStatusChangedEvent) error {
	if e.AssigneeID == nil || *e.AssigneeID == e.MovedBy {
		return nil
	}
	msg := fmt.Sprintf("%q moved from %s to %s", e.TicketTitle, e.OldStatus, e.NewStatus)
	return h.service.notify(ctx, &Notification{
		UserID:    *e.AssigneeID,
		Type:      TypeStatusChanged,
		Title:     "Ticket status changed",
		Message:   &msg,
		ProjectID: &e.ProjectID,
		TicketID:  &e.TicketID,
	})
}

// commentAdded notifies the ticket's assignee and creator, skipping the
// comment author and collapsing the two when they are the same user.
func (h *EventHandler) commentAdded(ctx context.Context, e *events.CommentAddedEvent) error {
	seen := map[uuid.UUID]bool{e.AuthorID: true}
	msg := fmt.Sprintf("New comment on %q", e.TicketTitle)

	for _, target := range []*uuid.UUID{e.AssigneeID, e.CreatorID} {
		if target == nil || seen[*target] {
			continue
		}
		seen[*target] = true

		if err := h.service.notify(ctx, &Notification{
			UserID:    *target,
			Type:      TypeCommentAdded,
			Title:     "New comment",
			Message:   &msg,
			ProjectID: &e.ProjectID,
			TicketID:  &e.TicketID,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (h *EventHandler) memberInvited(ctx context.Context, e *events.MemberInvitedEvent) error {
	// Invitations to addresses without an account surface once the
	// user registers and lists their pending invitations.
	if e.InviteeID == nil {
		return nil
	}
	msg := fmt.Sprintf("You were invited to join %q", e.ProjectName)
	return h.service.notify(ctx, &Notification{
		UserID:    *e.InviteeID,
		Type:      TypeInvitation,
		Title:     "Project invitation",
		Message:   &msg,
		ProjectID: &e.ProjectID,
	})
}

func (h *EventHandler) memberJoined(ctx context.Context, e *events.MemberJoinedEvent) error {
	msg := fmt.Sprintf("Your invitation to %q was accepted", e.ProjectName)
	return h.service.notify(ctx, &Notification{
		UserID:    e.InviterID,
		Type:      TypeMemberJoined,
		Title:     "Invitation accepted",
		Message:   &msg,
		ProjectID: &e.ProjectID,
	})
}
