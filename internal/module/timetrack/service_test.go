package timetrack

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	entries map[uuid.UUID]*TimeEntry
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entries: make(map[uuid.UUID]*TimeEntry)}
}

func (f *fakeRepo) Create(_ context.Context, entry *TimeEntry) error {
	entry.ID = uuid.New()
	cp := *entry
	f.entries[entry.ID] = &cp
	return nil
}

func (f *fakeRepo) Update(_ context.Context, entry *TimeEntry) error {
	cp := *entry
	f.entries[entry.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id, userID uuid.UUID) (*TimeEntry, error) {
	e, ok := f.entries[id]
	if !ok || e.UserID != userID {
		return nil, ErrEntryNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeRepo) GetRunning(_ context.Context, userID uuid.UUID) (*TimeEntry, error) {
	for _, e := range f.entries {
		if e.UserID == userID && e.Running() {
			cp := *e
			return &cp, nil
		}
	}
	return nil, ErrNoRunningTimer
}

func (f *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*TimeEntry, error) {
	var out []*TimeEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Running() != b.Running() {
			return a.Running()
		}
		if a.Running() {
			return a.StartedAt.After(b.StartedAt)
		}
		return a.EndedAt.After(*b.EndedAt)
	})
	return out, nil
}

func (f *fakeRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	e, ok := f.entries[id]
	if !ok || e.UserID != userID {
		return ErrEntryNotFound
	}
	delete(f.entries, id)
	return nil
}

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, zap.NewNop())
}

func TestService_StartStop(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	userID := uuid.New()

	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	desc := "refactor auth"
	entry, err := svc.Start(context.Background(), userID, &StartRequest{Description: &desc})
	require.NoError(t, err)
	assert.True(t, entry.Running())
	assert.Equal(t, clock, entry.StartedAt)

	t.Run("second start rejected while running", func(t *testing.T) {
		_, err := svc.Start(context.Background(), userID, &StartRequest{})
		assert.ErrorIs(t, err, ErrTimerRunning)
	})

	t.Run("another user can run their own timer", func(t *testing.T) {
		_, err := svc.Start(context.Background(), uuid.New(), &StartRequest{})
		assert.NoError(t, err)
	})

	t.Run("stop computes duration", func(t *testing.T) {
		clock = clock.Add(90 * time.Minute)
		stopped, err := svc.Stop(context.Background(), userID)
		require.NoError(t, err)
		assert.False(t, stopped.Running())
		assert.Equal(t, int64(90*60), stopped.DurationSeconds)
	})

	t.Run("stop without a running timer", func(t *testing.T) {
		_, err := svc.Stop(context.Background(), userID)
		assert.ErrorIs(t, err, ErrNoRunningTimer)
	})

	t.Run("start again after stopping", func(t *testing.T) {
		_, err := svc.Start(context.Background(), userID, &StartRequest{})
		assert.NoError(t, err)
	})
}

func TestService_AddManual(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	userID := uuid.New()

	now := time.Date(2024, 3, 1, 17, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	t.Run("back-dates the start to match the duration", func(t *testing.T) {
		entry, err := svc.AddManual(context.Background(), userID, &ManualEntryRequest{DurationSeconds: 3600})
		require.NoError(t, err)
		assert.False(t, entry.Running())
		assert.Equal(t, now.Add(-time.Hour), entry.StartedAt)
		assert.Equal(t, int64(3600), entry.DurationSeconds)
	})

	t.Run("rejects non-positive duration", func(t *testing.T) {
		_, err := svc.AddManual(context.Background(), userID, &ManualEntryRequest{DurationSeconds: 0})
		assert.ErrorIs(t, err, ErrInvalidDuration)

		_, err = svc.AddManual(context.Background(), userID, &ManualEntryRequest{DurationSeconds: -5})
		assert.ErrorIs(t, err, ErrInvalidDuration)
	})
}

func TestService_ListAndDelete(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	userID := uuid.New()

	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	first, err := svc.AddManual(context.Background(), userID, &ManualEntryRequest{DurationSeconds: 600})
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	second, err := svc.AddManual(context.Background(), userID, &ManualEntryRequest{DurationSeconds: 600})
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	running, err := svc.Start(context.Background(), userID, &StartRequest{})
	require.NoError(t, err)

	t.Run("running first, then newest", func(t *testing.T) {
		entries, err := svc.List(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, running.ID, entries[0].ID)
		assert.Equal(t, second.ID, entries[1].ID)
		assert.Equal(t, first.ID, entries[2].ID)
	})

	t.Run("delete own entry", func(t *testing.T) {
		require.NoError(t, svc.Delete(context.Background(), first.ID, userID))
		entries, err := svc.List(context.Background(), userID)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("cannot delete another user's entry", func(t *testing.T) {
		err := svc.Delete(context.Background(), second.ID, uuid.New())
		assert.ErrorIs(t, err, ErrEntryNotFound)
	})
}
