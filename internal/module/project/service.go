package project

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Role values stored in user_roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Service handles project business logic.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create creates a project and grants the creator the admin role in the
// same transaction.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *CreateProjectRequest) (*Project, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)

	p := &Project{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   userID,
	}
	if err := txRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	role := &MemberRole{
		UserID:    userID,
		ProjectID: p.ID,
		Role:      RoleAdmin,
	}
	if err := txRepo.CreateMemberRole(ctx, role); err != nil {
		return nil, fmt.Errorf("grant admin role: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.logger.Info("project created",
		zap.String("project_id", p.ID.String()),
		zap.String("user_id", userID.String()))

	return p, nil
}

// Get returns a project the user is a member of.
func (s *Service) Get(ctx context.Context, projectID, userID uuid.UUID) (*Project, error) {
	if _, err := s.repo.GetMemberRole(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, projectID)
}

// List returns every project the user belongs to, with role and ticket count.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*ProjectSummary, error) {
	return s.repo.ListForUser(ctx, userID)
}

// Update applies partial updates. Any member may update.
func (s *Service) Update(ctx context.Context, projectID, userID uuid.UUID, req *UpdateProjectRequest) (*Project, error) {
	if _, err := s.repo.GetMemberRole(ctx, projectID, userID); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

// Delete removes a project and all its tickets, comments, roles and
// invitations. Admin only.
func (s *Service) Delete(ctx context.Context, projectID, userID uuid.UUID) error {
	role, err := s.repo.GetMemberRole(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if role != RoleAdmin {
		return ErrNotAdmin
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, projectID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Info("project deleted",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", userID.String()))

	return nil
}

// ProjectName resolves a project's display name without a membership
// check; used for notification payloads.
func (s *Service) ProjectName(ctx context.Context, projectID uuid.UUID) (string, error) {
	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// RequireMember returns the caller's role, or ErrNotMember.
func (s *Service) RequireMember(ctx context.Context, projectID, userID uuid.UUID) (string, error) {
	return s.repo.GetMemberRole(ctx, projectID, userID)
}
