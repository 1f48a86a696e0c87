package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ticketflow/server/internal/board"
	"github.com/ticketflow/server/internal/calendar"
	infraevents "github.com/ticketflow/server/internal/infra/events"
	"github.com/ticketflow/server/internal/module/profile"
	"github.com/ticketflow/server/internal/shared/events"
	"github.com/ticketflow/server/internal/shared/metrics"
)

// MembershipChecker reports the caller's role in a project. Satisfied
// by the project service.
type MembershipChecker interface {
	RequireMember(ctx context.Context, projectID, userID uuid.UUID) (string, error)
}

// ProfileResolver batch-resolves user profiles. Satisfied by the
// profile service.
type ProfileResolver interface {
	GetBatch(ctx context.Context, userIDs []uuid.UUID) ([]*profile.Profile, error)
}

// Service handles ticket business logic.
type Service struct {
	repo     Repository
	members  MembershipChecker
	profiles ProfileResolver
	bus      *infraevents.Bus
	logger   *zap.Logger
}

// NewService creates a new ticket service.
func NewService(repo Repository, members MembershipChecker, profiles ProfileResolver, bus *infraevents.Bus, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		members:  members,
		profiles: profiles,
		bus:      bus,
		logger:   logger,
	}
}

// Create creates a ticket at the bottom of its column: position is one
// past the current maximum within (project, status).
func (s *Service) Create(ctx context.Context, projectID, userID uuid.UUID, req *CreateTicketRequest) (*Ticket, error) {
	if _, err := s.members.RequireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = StatusTodo
	}
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	max, err := s.repo.MaxPosition(ctx, projectID, status)
	if err != nil {
		return nil, fmt.Errorf("max position: %w", err)
	}

	t := &Ticket{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		AssigneeID:  req.AssigneeID,
		CreatedBy:   &userID,
		DueDate:     req.DueDate,
		Labels:      req.Labels,
		Position:    max + 1,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	if t.AssigneeID != nil && *t.AssigneeID != userID {
		s.bus.Publish(events.NewTicketAssignedEvent(t.ID, t.ProjectID, *t.AssigneeID, userID, t.Title))
	}

	return t, nil
}

// Get returns a ticket the caller can see.
func (s *Service) Get(ctx context.Context, ticketID, userID uuid.UUID) (*Ticket, error) {
	t, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if _, err := s.members.RequireMember(ctx, t.ProjectID, userID); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns a project's tickets ordered by ascending position.
func (s *Service) List(ctx context.Context, projectID, userID uuid.UUID) ([]*Ticket, error) {
	if _, err := s.members.RequireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByProject(ctx, projectID)
}

// Update applies partial updates with an explicit save. Concurrent
// editors are last-write-wins; the API does not guard against it.
func (s *Service) Update(ctx context.Context, ticketID, userID uuid.UUID, req *UpdateTicketRequest) (*Ticket, error) {
	t, err := s.Get(ctx, ticketID, userID)
	if err != nil {
		return nil, err
	}

	oldAssignee := t.AssigneeID

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Status != nil {
		if !ValidStatus(*req.Status) {
			return nil, ErrInvalidStatus
		}
		t.Status = *req.Status
	}
	if req.Priority != nil {
		if !ValidPriority(*req.Priority) {
			return nil, ErrInvalidPriority
		}
		t.Priority = *req.Priority
	}
	if req.AssigneeID != nil {
		t.AssigneeID = req.AssigneeID
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.Labels != nil {
		t.Labels = *req.Labels
	}
	if req.Position != nil {
		t.Position = *req.Position
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update ticket: %w", err)
	}

	if t.AssigneeID != nil && *t.AssigneeID != userID &&
		(oldAssignee == nil || *oldAssignee != *t.AssigneeID) {
		s.bus.Publish(events.NewTicketAssignedEvent(t.ID, t.ProjectID, *t.AssigneeID, userID, t.Title))
	}

	return t, nil
}

// Move re-labels a ticket's status. Position is deliberately not
// recomputed; the ticket keeps its old slot number in the new column.
func (s *Service) Move(ctx context.Context, ticketID, userID uuid.UUID, status string) (*Ticket, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	t, err := s.Get(ctx, ticketID, userID)
	if err != nil {
		return nil, err
	}

	oldStatus := t.Status
	if oldStatus == status {
		return t, nil
	}

	t.Status = status
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("move ticket: %w", err)
	}

	metrics.Default.TicketMovesTotal.WithLabelValues(status).Inc()
	s.bus.Publish(events.NewTicketStatusChangedEvent(
		t.ID, t.ProjectID, t.AssigneeID, userID, t.Title, oldStatus, status))

	return t, nil
}

// Delete removes a ticket and its comments.
func (s *Service) Delete(ctx context.Context, ticketID, userID uuid.UUID) error {
	if _, err := s.Get(ctx, ticketID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, ticketID)
}

// AddComment appends a comment to a ticket.
func (s *Service) AddComment(ctx context.Context, ticketID, userID uuid.UUID, body string) (*Comment, error) {
	t, err := s.Get(ctx, ticketID, userID)
	if err != nil {
		return nil, err
	}

	c := &Comment{
		TicketID: ticketID,
		AuthorID: userID,
		Body:     body,
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.bus.Publish(events.NewCommentAddedEvent(
		c.ID, t.ID, t.ProjectID, userID, t.AssigneeID, t.CreatedBy, t.Title))

	return c, nil
}

// ListComments returns a ticket's comments oldest-first with authors
// resolved in one batched profile lookup.
func (s *Service) ListComments(ctx context.Context, ticketID, userID uuid.UUID) ([]*CommentResponse, error) {
	if _, err := s.Get(ctx, ticketID, userID); err != nil {
		return nil, err
	}

	comments, err := s.repo.ListComments(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(comments))
	var authorIDs []uuid.UUID
	for _, c := range comments {
		if _, ok := seen[c.AuthorID]; ok {
			continue
		}
		seen[c.AuthorID] = struct{}{}
		authorIDs = append(authorIDs, c.AuthorID)
	}

	authors := make(map[uuid.UUID]*CommentAuthor, len(authorIDs))
	if len(authorIDs) > 0 {
		profiles, err := s.profiles.GetBatch(ctx, authorIDs)
		if err != nil {
			s.logger.Warn("comment author lookup failed", zap.Error(err))
		} else {
			for _, p := range profiles {
				authors[p.UserID] = &CommentAuthor{
					UserID:      p.UserID,
					DisplayName: p.DisplayName,
					AvatarURL:   p.AvatarURL,
				}
			}
		}
	}

	out := make([]*CommentResponse, len(comments))
	for i, c := range comments {
		out[i] = &CommentResponse{Comment: *c, Author: authors[c.AuthorID]}
	}
	return out, nil
}

// Board returns a project's tickets grouped into status columns.
func (s *Service) Board(ctx context.Context, projectID, userID uuid.UUID) (*BoardResponse, error) {
	tickets, err := s.List(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	wire := make([]board.Ticket, len(tickets))
	for i, t := range tickets {
		wire[i] = toWire(t)
	}

	return &BoardResponse{
		ProjectID: projectID,
		Columns:   board.Columns(wire),
	}, nil
}

// Calendar returns the month view for every project the user belongs
// to: the padded 42-cell grid plus per-day due-date buckets.
func (s *Service) Calendar(ctx context.Context, userID uuid.UUID, month string) (*CalendarResponse, error) {
	ref, err := time.ParseInLocation("2006-01", month, time.Local)
	if err != nil {
		return nil, ErrInvalidMonth
	}

	grid := calendar.MonthGrid(ref)
	from := grid[0]
	to := grid[len(grid)-1].AddDate(0, 0, 1)

	tickets, err := s.repo.ListDueForUser(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	wire := make([]board.Ticket, len(tickets))
	for i, t := range tickets {
		wire[i] = toWire(t)
	}

	cells := make([]string, len(grid))
	for i, day := range grid {
		cells[i] = calendar.DayKey(day)
	}

	return &CalendarResponse{
		Month:   month,
		Cells:   cells,
		Buckets: calendar.BucketByDay(wire),
	}, nil
}

func toWire(t *Ticket) board.Ticket {
	return board.Ticket{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		AssigneeID:  t.AssigneeID,
		CreatedBy:   t.CreatedBy,
		DueDate:     t.DueDate,
		Labels:      t.Labels,
		Position:    t.Position,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
