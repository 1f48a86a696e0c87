package ticket

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	infraevents "github.com/ticketflow/server/internal/infra/events"
	"github.com/ticketflow/server/internal/module/profile"
	"github.com/ticketflow/server/internal/shared/events"
)

type fakeRepo struct {
	tickets  map[uuid.UUID]*Ticket
	comments map[uuid.UUID][]*Comment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tickets:  make(map[uuid.UUID]*Ticket),
		comments: make(map[uuid.UUID][]*Comment),
	}
}

func (f *fakeRepo) Create(_ context.Context, t *Ticket) error {
	t.ID = uuid.New()
	cp := *t
	f.tickets[t.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, ErrTicketNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeRepo) Update(_ context.Context, t *Ticket) error {
	cp := *t
	f.tickets[t.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.tickets, id)
	delete(f.comments, id)
	return nil
}

func (f *fakeRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]*Ticket, error) {
	var out []*Ticket
	for _, t := range f.tickets {
		if t.ProjectID == projectID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListDueForUser(_ context.Context, _ uuid.UUID, from, to time.Time) ([]*Ticket, error) {
	var out []*Ticket
	for _, t := range f.tickets {
		if t.DueDate == nil {
			continue
		}
		if !t.DueDate.Before(from) && t.DueDate.Before(to) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) MaxPosition(_ context.Context, projectID uuid.UUID, status string) (int, error) {
	max := 0
	for _, t := range f.tickets {
		if t.ProjectID == projectID && t.Status == status && t.Position > max {
			max = t.Position
		}
	}
	return max, nil
}

func (f *fakeRepo) CreateComment(_ context.Context, c *Comment) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	cp := *c
	f.comments[c.TicketID] = append(f.comments[c.TicketID], &cp)
	return nil
}

func (f *fakeRepo) ListComments(_ context.Context, ticketID uuid.UUID) ([]*Comment, error) {
	return f.comments[ticketID], nil
}

type allowAllMembers struct{}

func (allowAllMembers) RequireMember(_ context.Context, _, _ uuid.UUID) (string, error) {
	return "member", nil
}

type fakeProfiles struct {
	calls int
}

func (f *fakeProfiles) GetBatch(_ context.Context, userIDs []uuid.UUID) ([]*profile.Profile, error) {
	f.calls++
	out := make([]*profile.Profile, len(userIDs))
	for i, id := range userIDs {
		name := "User"
		out[i] = &profile.Profile{ID: uuid.New(), UserID: id, DisplayName: &name}
	}
	return out, nil
}

// recordingHandler captures every event published on the bus.
type recordingHandler struct {
	events []infraevents.Event
}

func (r *recordingHandler) Handles() []string {
	return []string{
		events.TicketAssignedType,
		events.TicketStatusChangedType,
		events.CommentAddedType,
	}
}

func (r *recordingHandler) Handle(e infraevents.Event) error {
	r.events = append(r.events, e)
	return nil
}

func newTestService() (*Service, *fakeRepo, *recordingHandler, *fakeProfiles) {
	repo := newFakeRepo()
	bus := infraevents.NewBus(zap.NewNop())
	rec := &recordingHandler{}
	bus.Register(rec)
	profiles := &fakeProfiles{}
	svc := NewService(repo, allowAllMembers{}, profiles, bus, zap.NewNop())
	return svc, repo, rec, profiles
}

func TestService_Create(t *testing.T) {
	svc, _, rec, _ := newTestService()
	projectID := uuid.New()
	userID := uuid.New()

	t.Run("first ticket gets position 1", func(t *testing.T) {
		created, err := svc.Create(context.Background(), projectID, userID, &CreateTicketRequest{Title: "first"})
		require.NoError(t, err)
		assert.Equal(t, 1, created.Position)
		assert.Equal(t, StatusTodo, created.Status)
		assert.Equal(t, PriorityMedium, created.Priority)
	})

	t.Run("position is max plus one within the column", func(t *testing.T) {
		second, err := svc.Create(context.Background(), projectID, userID, &CreateTicketRequest{Title: "second"})
		require.NoError(t, err)
		assert.Equal(t, 2, second.Position)

		other, err := svc.Create(context.Background(), projectID, userID, &CreateTicketRequest{
			Title:  "other column",
			Status: StatusDone,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, other.Position)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := svc.Create(context.Background(), projectID, userID, &CreateTicketRequest{
			Title:  "bad",
			Status: "blocked",
		})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("rejects unknown priority", func(t *testing.T) {
		_, err := svc.Create(context.Background(), projectID, userID, &CreateTicketRequest{
			Title:    "bad",
			Priority: "urgent",
		})
		assert.ErrorIs(t, err, ErrInvalidPriority)
	})

	t.Run("assigning someone else emits an event", func(t *testing.T) {
		before := len(rec.events)
		assignee := uuid.New()
		_, err := svc.Create(context.Background(), projectID, userID, &CreateTicketRequest{
			Title:      "assigned",
			AssigneeID: &assignee,
		})
		require.NoError(t, err)
		require.Len(t, rec.events, before+1)

		evt, ok := rec.events[before].(*events.TicketAssignedEvent)
		require.True(t, ok)
		assert.Equal(t, assignee, evt.AssigneeID)
	})

	t.Run("self-assignment emits nothing", func(t *testing.T) {
		before := len(rec.events)
		_, err := svc.Create(context.Background(), projectID, userID, &CreateTicketRequest{
			Title:      "mine",
			AssigneeID: &userID,
		})
		require.NoError(t, err)
		assert.Len(t, rec.events, before)
	})
}

func TestService_Move(t *testing.T) {
	svc, repo, rec, _ := newTestService()
	projectID := uuid.New()
	userID := uuid.New()

	created, err := svc.Create(context.Background(), projectID, userID, &CreateTicketRequest{Title: "movable"})
	require.NoError(t, err)

	t.Run("status changes but position does not", func(t *testing.T) {
		moved, err := svc.Move(context.Background(), created.ID, userID, StatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, StatusInProgress, moved.Status)
		assert.Equal(t, created.Position, moved.Position)
	})

	t.Run("emits a status changed event", func(t *testing.T) {
		var found *events.TicketStatusChangedEvent
		for _, e := range rec.events {
			if evt, ok := e.(*events.TicketStatusChangedEvent); ok {
				found = evt
			}
		}
		require.NotNil(t, found)
		assert.Equal(t, StatusTodo, found.OldStatus)
		assert.Equal(t, StatusInProgress, found.NewStatus)
	})

	t.Run("moving to the same status is a no-op", func(t *testing.T) {
		before := len(rec.events)
		moved, err := svc.Move(context.Background(), created.ID, userID, StatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, StatusInProgress, moved.Status)
		assert.Len(t, rec.events, before)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := svc.Move(context.Background(), created.ID, userID, "archived")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		_, err := svc.Move(context.Background(), uuid.New(), userID, StatusDone)
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})

	_ = repo
}

func TestService_Update_AssigneeEvent(t *testing.T) {
	svc, _, rec, _ := newTestService()
	projectID := uuid.New()
	userID := uuid.New()

	created, err := svc.Create(context.Background(), projectID, userID, &CreateTicketRequest{Title: "t"})
	require.NoError(t, err)

	t.Run("new assignee emits event", func(t *testing.T) {
		before := len(rec.events)
		assignee := uuid.New()
		updated, err := svc.Update(context.Background(), created.ID, userID, &UpdateTicketRequest{AssigneeID: &assignee})
		require.NoError(t, err)
		assert.Equal(t, assignee, *updated.AssigneeID)
		assert.Len(t, rec.events, before+1)
	})

	t.Run("unrelated update emits nothing", func(t *testing.T) {
		before := len(rec.events)
		title := "renamed"
		_, err := svc.Update(context.Background(), created.ID, userID, &UpdateTicketRequest{Title: &title})
		require.NoError(t, err)
		assert.Len(t, rec.events, before)
	})
}

func TestService_Comments(t *testing.T) {
	svc, _, rec, profiles := newTestService()
	projectID := uuid.New()
	userID := uuid.New()

	created, err := svc.Create(context.Background(), projectID, userID, &CreateTicketRequest{Title: "discussed"})
	require.NoError(t, err)

	t.Run("add comment emits event", func(t *testing.T) {
		before := len(rec.events)
		c, err := svc.AddComment(context.Background(), created.ID, userID, "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello", c.Body)
		require.Len(t, rec.events, before+1)

		evt, ok := rec.events[before].(*events.CommentAddedEvent)
		require.True(t, ok)
		assert.Equal(t, created.ID, evt.TicketID)
	})

	t.Run("list resolves authors in one batched call", func(t *testing.T) {
		_, err := svc.AddComment(context.Background(), created.ID, userID, "again")
		require.NoError(t, err)

		profiles.calls = 0
		comments, err := svc.ListComments(context.Background(), created.ID, userID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, 1, profiles.calls)
		require.NotNil(t, comments[0].Author)
		assert.Equal(t, userID, comments[0].Author.UserID)
	})
}

func TestService_Board(t *testing.T) {
	svc, _, _, _ := newTestService()
	projectID := uuid.New()
	userID := uuid.New()

	_, err := svc.Create(context.Background(), projectID, userID, &CreateTicketRequest{Title: "a"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), projectID, userID, &CreateTicketRequest{Title: "b", Status: StatusDone})
	require.NoError(t, err)

	view, err := svc.Board(context.Background(), projectID, userID)
	require.NoError(t, err)
	require.Len(t, view.Columns, 3)
	assert.Equal(t, "todo", view.Columns[0].Status)
	assert.Len(t, view.Columns[0].Tickets, 1)
	assert.Len(t, view.Columns[1].Tickets, 0)
	assert.Len(t, view.Columns[2].Tickets, 1)
}

func TestService_Calendar(t *testing.T) {
	svc, _, _, _ := newTestService()
	projectID := uuid.New()
	userID := uuid.New()

	due := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)
	_, err := svc.Create(context.Background(), projectID, userID, &CreateTicketRequest{
		Title:   "due soon",
		DueDate: &due,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), projectID, userID, &CreateTicketRequest{Title: "undated"})
	require.NoError(t, err)

	t.Run("month view", func(t *testing.T) {
		view, err := svc.Calendar(context.Background(), userID, "2024-03")
		require.NoError(t, err)
		assert.Len(t, view.Cells, 42)
		require.Len(t, view.Buckets, 1)
		assert.Len(t, view.Buckets["2024-03-15"], 1)
	})

	t.Run("rejects malformed month", func(t *testing.T) {
		_, err := svc.Calendar(context.Background(), userID, "March 2024")
		assert.ErrorIs(t, err, ErrInvalidMonth)
	})
}
