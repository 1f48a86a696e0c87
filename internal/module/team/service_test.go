package team

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	infraevents "github.com/ticketflow/server/internal/infra/events"
	"github.com/ticketflow/server/internal/module/profile"
	"github.com/ticketflow/server/internal/shared/events"
)

type fakeRepo struct {
	roles       map[uuid.UUID]map[uuid.UUID]*UserRole // projectID -> userID
	invitations map[uuid.UUID]*ProjectInvitation
	emails      map[string]uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		roles:       make(map[uuid.UUID]map[uuid.UUID]*UserRole),
		invitations: make(map[uuid.UUID]*ProjectInvitation),
		emails:      make(map[string]uuid.UUID),
	}
}

func (f *fakeRepo) ListRoles(_ context.Context, projectID uuid.UUID) ([]*UserRole, error) {
	var out []*UserRole
	for _, r := range f.roles[projectID] {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRepo) GetRole(_ context.Context, projectID, userID uuid.UUID) (*UserRole, error) {
	r, ok := f.roles[projectID][userID]
	if !ok {
		return nil, ErrRoleNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) CreateRole(_ context.Context, role *UserRole) error {
	if f.roles[role.ProjectID] == nil {
		f.roles[role.ProjectID] = make(map[uuid.UUID]*UserRole)
	}
	cp := *role
	f.roles[role.ProjectID][role.UserID] = &cp
	return nil
}

func (f *fakeRepo) UpdateRole(_ context.Context, role *UserRole) error {
	cp := *role
	f.roles[role.ProjectID][role.UserID] = &cp
	return nil
}

func (f *fakeRepo) DeleteRole(_ context.Context, projectID, userID uuid.UUID) error {
	delete(f.roles[projectID], userID)
	return nil
}

func (f *fakeRepo) CountAdmins(_ context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	for _, r := range f.roles[projectID] {
		if r.Role == RoleAdmin {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) CreateInvitation(_ context.Context, inv *ProjectInvitation) error {
	inv.ID = uuid.New()
	cp := *inv
	f.invitations[inv.ID] = &cp
	return nil
}

func (f *fakeRepo) GetInvitation(_ context.Context, id uuid.UUID) (*ProjectInvitation, error) {
	inv, ok := f.invitations[id]
	if !ok {
		return nil, ErrInvitationNotFound
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeRepo) UpdateInvitation(_ context.Context, inv *ProjectInvitation) error {
	cp := *inv
	f.invitations[inv.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteInvitation(_ context.Context, id uuid.UUID) error {
	delete(f.invitations, id)
	return nil
}

func (f *fakeRepo) ListInvitationsByProject(_ context.Context, projectID uuid.UUID) ([]*ProjectInvitation, error) {
	var out []*ProjectInvitation
	for _, inv := range f.invitations {
		if inv.ProjectID == projectID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListInvitationsByEmail(_ context.Context, email string) ([]*ProjectInvitation, error) {
	var out []*ProjectInvitation
	for _, inv := range f.invitations {
		if strings.EqualFold(inv.Email, email) && inv.IsPending() {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindUserIDByEmail(_ context.Context, email string) (*uuid.UUID, error) {
	id, ok := f.emails[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func (f *fakeRepo) WithTx(_ *gorm.DB) Repository { return f }

func (f *fakeRepo) BeginTx(_ context.Context) (*gorm.DB, error) {
	return nil, errors.New("transactions not supported in fake")
}

type fakeProfiles struct{}

func (fakeProfiles) GetBatch(_ context.Context, userIDs []uuid.UUID) ([]*profile.Profile, error) {
	out := make([]*profile.Profile, len(userIDs))
	for i, id := range userIDs {
		name := "Member"
		out[i] = &profile.Profile{ID: uuid.New(), UserID: id, DisplayName: &name}
	}
	return out, nil
}

type fakeNamer struct{}

func (fakeNamer) ProjectName(_ context.Context, _ uuid.UUID) (string, error) {
	return "Test Project", nil
}

type recordingHandler struct {
	events []infraevents.Event
}

func (r *recordingHandler) Handles() []string {
	return []string{events.MemberInvitedType, events.MemberJoinedType}
}

func (r *recordingHandler) Handle(e infraevents.Event) error {
	r.events = append(r.events, e)
	return nil
}

func newTestService() (*Service, *fakeRepo, *recordingHandler) {
	repo := newFakeRepo()
	bus := infraevents.NewBus(zap.NewNop())
	rec := &recordingHandler{}
	bus.Register(rec)
	svc := NewService(repo, fakeProfiles{}, fakeNamer{}, bus, zap.NewNop())
	return svc, repo, rec
}

func seedMember(repo *fakeRepo, projectID uuid.UUID, role string) uuid.UUID {
	userID := uuid.New()
	repo.CreateRole(context.Background(), &UserRole{
		UserID:    userID,
		ProjectID: projectID,
		Role:      role,
	})
	return userID
}

func TestService_ListMembers(t *testing.T) {
	svc, repo, _ := newTestService()
	projectID := uuid.New()
	admin := seedMember(repo, projectID, RoleAdmin)
	seedMember(repo, projectID, RoleMember)

	t.Run("members get profiles resolved", func(t *testing.T) {
		members, err := svc.ListMembers(context.Background(), projectID, admin)
		require.NoError(t, err)
		assert.Len(t, members, 2)
		for _, m := range members {
			assert.NotNil(t, m.DisplayName)
		}
	})

	t.Run("non member rejected", func(t *testing.T) {
		_, err := svc.ListMembers(context.Background(), projectID, uuid.New())
		assert.ErrorIs(t, err, ErrNotMember)
	})
}

func TestService_UpdateRole(t *testing.T) {
	svc, repo, _ := newTestService()
	projectID := uuid.New()
	admin := seedMember(repo, projectID, RoleAdmin)
	member := seedMember(repo, projectID, RoleMember)

	t.Run("admin promotes a member", func(t *testing.T) {
		role, err := svc.UpdateRole(context.Background(), projectID, admin, member, RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, role.Role)
	})

	t.Run("demote is allowed while another admin remains", func(t *testing.T) {
		role, err := svc.UpdateRole(context.Background(), projectID, admin, member, RoleMember)
		require.NoError(t, err)
		assert.Equal(t, RoleMember, role.Role)
	})

	t.Run("cannot demote the last admin", func(t *testing.T) {
		_, err := svc.UpdateRole(context.Background(), projectID, admin, admin, RoleMember)
		assert.ErrorIs(t, err, ErrLastAdmin)
	})

	t.Run("member cannot change roles", func(t *testing.T) {
		_, err := svc.UpdateRole(context.Background(), projectID, member, admin, RoleMember)
		assert.ErrorIs(t, err, ErrNotAdmin)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := svc.UpdateRole(context.Background(), projectID, admin, member, "owner")
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestService_RemoveMember(t *testing.T) {
	svc, repo, _ := newTestService()
	projectID := uuid.New()
	admin := seedMember(repo, projectID, RoleAdmin)
	member := seedMember(repo, projectID, RoleMember)

	t.Run("cannot remove the last admin", func(t *testing.T) {
		err := svc.RemoveMember(context.Background(), projectID, admin, admin)
		assert.ErrorIs(t, err, ErrLastAdmin)
	})

	t.Run("admin removes a member", func(t *testing.T) {
		require.NoError(t, svc.RemoveMember(context.Background(), projectID, admin, member))
		_, err := repo.GetRole(context.Background(), projectID, member)
		assert.ErrorIs(t, err, ErrRoleNotFound)
	})

	t.Run("unknown member", func(t *testing.T) {
		err := svc.RemoveMember(context.Background(), projectID, admin, uuid.New())
		assert.ErrorIs(t, err, ErrRoleNotFound)
	})
}

func TestService_Invite(t *testing.T) {
	svc, repo, rec := newTestService()
	projectID := uuid.New()
	admin := seedMember(repo, projectID, RoleAdmin)
	member := seedMember(repo, projectID, RoleMember)

	t.Run("admin invites by email", func(t *testing.T) {
		inv, err := svc.Invite(context.Background(), projectID, admin, &InviteRequest{Email: "New@Example.com"})
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", inv.Email)
		assert.Equal(t, RoleMember, inv.Role)
		assert.Equal(t, InvitationPending, inv.Status)

		require.Len(t, rec.events, 1)
		evt, ok := rec.events[0].(*events.MemberInvitedEvent)
		require.True(t, ok)
		assert.Equal(t, "new@example.com", evt.InviteeEmail)
		assert.Equal(t, "Test Project", evt.ProjectName)
	})

	t.Run("member cannot invite", func(t *testing.T) {
		_, err := svc.Invite(context.Background(), projectID, member, &InviteRequest{Email: "x@example.com"})
		assert.ErrorIs(t, err, ErrNotAdmin)
	})

	t.Run("existing member cannot be invited", func(t *testing.T) {
		repo.emails["member@example.com"] = member
		_, err := svc.Invite(context.Background(), projectID, admin, &InviteRequest{Email: "member@example.com"})
		assert.ErrorIs(t, err, ErrAlreadyMember)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := svc.Invite(context.Background(), projectID, admin, &InviteRequest{Email: "y@example.com", Role: "owner"})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestService_AcceptGuards(t *testing.T) {
	svc, repo, _ := newTestService()
	projectID := uuid.New()
	admin := seedMember(repo, projectID, RoleAdmin)

	inv, err := svc.Invite(context.Background(), projectID, admin, &InviteRequest{Email: "invitee@example.com"})
	require.NoError(t, err)

	t.Run("wrong email rejected", func(t *testing.T) {
		_, err := svc.Accept(context.Background(), inv.ID, uuid.New(), "other@example.com")
		assert.ErrorIs(t, err, ErrNotInvitee)
	})

	t.Run("already member rejected", func(t *testing.T) {
		_, err := svc.Accept(context.Background(), inv.ID, admin, "invitee@example.com")
		assert.ErrorIs(t, err, ErrAlreadyMember)
	})

	t.Run("unknown invitation", func(t *testing.T) {
		_, err := svc.Accept(context.Background(), uuid.New(), uuid.New(), "invitee@example.com")
		assert.ErrorIs(t, err, ErrInvitationNotFound)
	})

	t.Run("declined invitation cannot be accepted", func(t *testing.T) {
		require.NoError(t, svc.Decline(context.Background(), inv.ID, "invitee@example.com"))
		_, err := svc.Accept(context.Background(), inv.ID, uuid.New(), "invitee@example.com")
		assert.ErrorIs(t, err, ErrInvitationNotPending)
	})
}

func TestService_Cancel(t *testing.T) {
	svc, repo, _ := newTestService()
	projectID := uuid.New()
	admin := seedMember(repo, projectID, RoleAdmin)
	member := seedMember(repo, projectID, RoleMember)

	inv, err := svc.Invite(context.Background(), projectID, admin, &InviteRequest{Email: "cancel@example.com"})
	require.NoError(t, err)

	t.Run("member cannot cancel", func(t *testing.T) {
		err := svc.Cancel(context.Background(), inv.ID, member)
		assert.ErrorIs(t, err, ErrNotAdmin)
	})

	t.Run("admin cancels pending invitation", func(t *testing.T) {
		require.NoError(t, svc.Cancel(context.Background(), inv.ID, admin))
		_, err := repo.GetInvitation(context.Background(), inv.ID)
		assert.ErrorIs(t, err, ErrInvitationNotFound)
	})
}
