package project

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRepo struct {
	projects map[uuid.UUID]*Project
	roles    map[uuid.UUID]map[uuid.UUID]string // projectID -> userID -> role
	beginErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		projects: make(map[uuid.UUID]*Project),
		roles:    make(map[uuid.UUID]map[uuid.UUID]string),
		beginErr: errors.New("transactions not supported in fake"),
	}
}

func (f *fakeRepo) Create(_ context.Context, p *Project) error {
	p.ID = uuid.New()
	f.projects[p.ID] = p
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) Update(_ context.Context, p *Project) error {
	f.projects[p.ID] = p
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.projects, id)
	return nil
}

func (f *fakeRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]*ProjectSummary, error) {
	var out []*ProjectSummary
	for projectID, members := range f.roles {
		role, ok := members[userID]
		if !ok {
			continue
		}
		p := f.projects[projectID]
		out = append(out, &ProjectSummary{Project: *p, Role: role})
	}
	return out, nil
}

func (f *fakeRepo) CreateMemberRole(_ context.Context, role *MemberRole) error {
	if f.roles[role.ProjectID] == nil {
		f.roles[role.ProjectID] = make(map[uuid.UUID]string)
	}
	f.roles[role.ProjectID][role.UserID] = role.Role
	return nil
}

func (f *fakeRepo) GetMemberRole(_ context.Context, projectID, userID uuid.UUID) (string, error) {
	role, ok := f.roles[projectID][userID]
	if !ok {
		return "", ErrNotMember
	}
	return role, nil
}

func (f *fakeRepo) WithTx(_ *gorm.DB) Repository { return f }

func (f *fakeRepo) BeginTx(_ context.Context) (*gorm.DB, error) {
	return nil, f.beginErr
}

func seedProject(repo *fakeRepo, adminID uuid.UUID) *Project {
	p := &Project{ID: uuid.New(), Name: "Test", CreatedBy: adminID}
	repo.projects[p.ID] = p
	repo.roles[p.ID] = map[uuid.UUID]string{adminID: RoleAdmin}
	return p
}

func TestService_Get(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zap.NewNop())
	admin := uuid.New()
	p := seedProject(repo, admin)

	t.Run("member reads project", func(t *testing.T) {
		got, err := svc.Get(context.Background(), p.ID, admin)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
	})

	t.Run("non member rejected", func(t *testing.T) {
		_, err := svc.Get(context.Background(), p.ID, uuid.New())
		assert.ErrorIs(t, err, ErrNotMember)
	})
}

func TestService_Update(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zap.NewNop())
	admin := uuid.New()
	member := uuid.New()
	p := seedProject(repo, admin)
	repo.roles[p.ID][member] = RoleMember

	t.Run("member may update", func(t *testing.T) {
		name := "Renamed"
		got, err := svc.Update(context.Background(), p.ID, member, &UpdateProjectRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		desc := "new description"
		got, err := svc.Update(context.Background(), p.ID, admin, &UpdateProjectRequest{Description: &desc})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Equal(t, desc, *got.Description)
	})

	t.Run("non member rejected", func(t *testing.T) {
		name := "x"
		_, err := svc.Update(context.Background(), p.ID, uuid.New(), &UpdateProjectRequest{Name: &name})
		assert.ErrorIs(t, err, ErrNotMember)
	})
}

func TestService_Delete_Authorization(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zap.NewNop())
	admin := uuid.New()
	member := uuid.New()
	p := seedProject(repo, admin)
	repo.roles[p.ID][member] = RoleMember

	t.Run("member cannot delete", func(t *testing.T) {
		err := svc.Delete(context.Background(), p.ID, member)
		assert.ErrorIs(t, err, ErrNotAdmin)
	})

	t.Run("non member cannot delete", func(t *testing.T) {
		err := svc.Delete(context.Background(), p.ID, uuid.New())
		assert.ErrorIs(t, err, ErrNotMember)
	})
}
