package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	infraevents "github.com/ticketflow/server/internal/infra/events"
	"github.com/ticketflow/server/internal/shared/config"
	"github.com/ticketflow/server/internal/shared/events"
)

type fakeRepo struct {
	rows []*Notification
}

func (f *fakeRepo) Create(_ context.Context, n *Notification) error {
	n.ID = uuid.New()
	cp := *n
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]*Notification, error) {
	var out []*Notification
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeRepo) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	for _, n := range f.rows {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return ErrNotificationNotFound
}

func (f *fakeRepo) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	for _, n := range f.rows {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	for i, n := range f.rows {
		if n.ID == id && n.UserID == userID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotificationNotFound
}

func (f *fakeRepo) DeleteAll(_ context.Context, userID uuid.UUID) error {
	kept := f.rows[:0]
	for _, n := range f.rows {
		if n.UserID != userID {
			kept = append(kept, n)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range f.rows {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) forUser(userID uuid.UUID) []*Notification {
	var out []*Notification
	for _, n := range f.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func newTestService() (*Service, *fakeRepo) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil, config.StreamConfig{ChannelPrefix: "notify:"}, zap.NewNop())
	return svc, repo
}

func TestService_ReadLifecycle(t *testing.T) {
	svc, repo := newTestService()
	userID := uuid.New()
	other := uuid.New()

	require.NoError(t, svc.notify(context.Background(), &Notification{UserID: userID, Type: TypeCommentAdded, Title: "New comment"}))
	require.NoError(t, svc.notify(context.Background(), &Notification{UserID: userID, Type: TypeMemberJoined, Title: "Invitation accepted"}))
	require.NoError(t, svc.notify(context.Background(), &Notification{UserID: other, Type: TypeCommentAdded, Title: "New comment"}))

	count, err := svc.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	t.Run("mark one read", func(t *testing.T) {
		items, err := svc.List(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, items, 2)

		require.NoError(t, svc.MarkRead(context.Background(), items[0].ID, userID))
		count, err := svc.UnreadCount(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("cannot touch another user's row", func(t *testing.T) {
		theirs := repo.forUser(other)[0]
		assert.ErrorIs(t, svc.MarkRead(context.Background(), theirs.ID, userID), ErrNotificationNotFound)
		assert.ErrorIs(t, svc.Delete(context.Background(), theirs.ID, userID), ErrNotificationNotFound)
	})

	t.Run("mark all read", func(t *testing.T) {
		require.NoError(t, svc.MarkAllRead(context.Background(), userID))
		count, err := svc.UnreadCount(context.Background(), userID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("clear leaves other users alone", func(t *testing.T) {
		require.NoError(t, svc.Clear(context.Background(), userID))
		assert.Empty(t, repo.forUser(userID))
		assert.Len(t, repo.forUser(other), 1)
	})
}

func TestService_StreamUnavailableWithoutRedis(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Subscribe(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrStreamUnavailable)
}

func TestEventHandler(t *testing.T) {
	newBus := func(t *testing.T) (*infraevents.Bus, *fakeRepo) {
		t.Helper()
		svc, repo := newTestService()
		bus := infraevents.NewBus(zap.NewNop())
		bus.Register(NewEventHandler(svc))
		return bus, repo
	}

	t.Run("ticket assigned notifies the assignee", func(t *testing.T) {
		bus, repo := newBus(t)
		assignee, actor := uuid.New(), uuid.New()
		ticketID, projectID := uuid.New(), uuid.New()

		bus.Publish(events.NewTicketAssignedEvent(ticketID, projectID, assignee, actor, "Fix login"))

		rows := repo.forUser(assignee)
		require.Len(t, rows, 1)
		assert.Equal(t, TypeTicketAssigned, rows[0].Type)
		assert.Equal(t, &ticketID, rows[0].TicketID)
		assert.Contains(t, *rows[0].Message, "Fix login")
	})

	t.Run("self assignment is silent", func(t *testing.T) {
		bus, repo := newBus(t)
		actor := uuid.New()

		bus.Publish(events.NewTicketAssignedEvent(uuid.New(), uuid.New(), actor, actor, "Fix login"))

		assert.Empty(t, repo.rows)
	})

	t.Run("status change notifies the assignee unless they moved it", func(t *testing.T) {
		bus, repo := newBus(t)
		assignee, mover := uuid.New(), uuid.New()

		bus.Publish(events.NewTicketStatusChangedEvent(uuid.New(), uuid.New(), &assignee, mover, "Fix login", "todo", "done"))
		bus.Publish(events.NewTicketStatusChangedEvent(uuid.New(), uuid.New(), &assignee, assignee, "Fix login", "todo", "done"))
		bus.Publish(events.NewTicketStatusChangedEvent(uuid.New(), uuid.New(), nil, mover, "Fix login", "todo", "done"))

		rows := repo.forUser(assignee)
		require.Len(t, rows, 1)
		assert.Equal(t, TypeStatusChanged, rows[0].Type)
		assert.Contains(t, *rows[0].Message, "todo")
		assert.Contains(t, *rows[0].Message, "done")
	})

	t.Run("comment notifies assignee and creator, never the author", func(t *testing.T) {
		bus, repo := newBus(t)
		author, assignee, creator := uuid.New(), uuid.New(), uuid.New()

		bus.Publish(events.NewCommentAddedEvent(uuid.New(), uuid.New(), uuid.New(), author, &assignee, &creator, "Fix login"))

		assert.Len(t, repo.forUser(assignee), 1)
		assert.Len(t, repo.forUser(creator), 1)
		assert.Empty(t, repo.forUser(author))
	})

	t.Run("comment dedupes assignee who is also creator", func(t *testing.T) {
		bus, repo := newBus(t)
		author, target := uuid.New(), uuid.New()

		bus.Publish(events.NewCommentAddedEvent(uuid.New(), uuid.New(), uuid.New(), author, &target, &target, "Fix login"))

		assert.Len(t, repo.forUser(target), 1)
	})

	t.Run("author commenting on their own ticket is silent", func(t *testing.T) {
		bus, repo := newBus(t)
		author := uuid.New()

		bus.Publish(events.NewCommentAddedEvent(uuid.New(), uuid.New(), uuid.New(), author, &author, &author, "Fix login"))

		assert.Empty(t, repo.rows)
	})

	t.Run("invitation notifies a registered invitee", func(t *testing.T) {
		bus, repo := newBus(t)
		invitee, inviter := uuid.New(), uuid.New()

		bus.Publish(events.NewMemberInvitedEvent(uuid.New(), uuid.New(), inviter, "a@example.com", &invitee, "Apollo"))
		bus.Publish(events.NewMemberInvitedEvent(uuid.New(), uuid.New(), inviter, "b@example.com", nil, "Apollo"))

		rows := repo.forUser(invitee)
		require.Len(t, rows, 1)
		assert.Equal(t, TypeInvitation, rows[0].Type)
		assert.Contains(t, *rows[0].Message, "Apollo")
		assert.Len(t, repo.rows, 1)
	})

	t.Run("accepted invitation notifies the inviter", func(t *testing.T) {
		bus, repo := newBus(t)
		joiner, inviter := uuid.New(), uuid.New()

		bus.Publish(events.NewMemberJoinedEvent(uuid.New(), joiner, inviter, "Apollo"))

		rows := repo.forUser(inviter)
		require.Len(t, rows, 1)
		assert.Equal(t, TypeMemberJoined, rows[0].Type)
	})
}
