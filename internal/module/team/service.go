package team

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	infraevents "github.com/ticketflow/server/internal/infra/events"
	"github.com/ticketflow/server/internal/module/profile"
	"github.com/ticketflow/server/internal/shared/events"
)

// ProfileResolver batch-resolves user profiles. Satisfied by the
// profile service.
type ProfileResolver interface {
	GetBatch(ctx context.Context, userIDs []uuid.UUID) ([]*profile.Profile, error)
}

// ProjectNamer resolves a project's display name for invitation
// notifications. Satisfied by the project service.
type ProjectNamer interface {
	ProjectName(ctx context.Context, projectID uuid.UUID) (string, error)
}

// Service handles team membership and invitations.
type Service struct {
	repo     Repository
	profiles ProfileResolver
	namer    ProjectNamer
	bus      *infraevents.Bus
	logger   *zap.Logger
}

// NewService creates a new team service.
func NewService(repo Repository, profiles ProfileResolver, namer ProjectNamer, bus *infraevents.Bus, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		profiles: profiles,
		namer:    namer,
		bus:      bus,
		logger:   logger,
	}
}

// ListMembers returns a project's members with profiles resolved.
func (s *Service) ListMembers(ctx context.Context, projectID, callerID uuid.UUID) ([]*Member, error) {
	if _, err := s.requireRole(ctx, projectID, callerID); err != nil {
		return nil, err
	}

	roles, err := s.repo.ListRoles(ctx, projectID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(roles))
	for i, r := range roles {
		ids[i] = r.UserID
	}

	byUser := make(map[uuid.UUID]*profile.Profile, len(ids))
	if len(ids) > 0 {
		profiles, err := s.profiles.GetBatch(ctx, ids)
		if err != nil {
			s.logger.Warn("member profile lookup failed", zap.Error(err))
		} else {
			for _, p := range profiles {
				byUser[p.UserID] = p
			}
		}
	}

	members := make([]*Member, len(roles))
	for i, r := range roles {
		m := &Member{
			UserID:   r.UserID,
			Role:     r.Role,
			JoinedAt: r.CreatedAt,
		}
		if p, ok := byUser[r.UserID]; ok {
			m.DisplayName = p.DisplayName
			m.AvatarURL = p.AvatarURL
			m.Email = p.Email
		}
		members[i] = m
	}
	return members, nil
}

// UpdateRole changes a member's role. Admin only; a project can never
// drop to zero admins.
func (s *Service) UpdateRole(ctx context.Context, projectID, callerID, targetID uuid.UUID, newRole string) (*UserRole, error) {
	if !ValidRole(newRole) {
		return nil, ErrInvalidRole
	}
	if err := s.requireAdmin(ctx, projectID, callerID); err != nil {
		return nil, err
	}

	role, err := s.repo.GetRole(ctx, projectID, targetID)
	if err != nil {
		return nil, err
	}
	if role.Role == newRole {
		return role, nil
	}

	if role.Role == RoleAdmin && newRole != RoleAdmin {
		admins, err := s.repo.CountAdmins(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, ErrLastAdmin
		}
	}

	role.Role = newRole
	if err := s.repo.UpdateRole(ctx, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	return role, nil
}

// RemoveMember removes a user from a project. Admin only; the last
// admin cannot be removed.
func (s *Service) RemoveMember(ctx context.Context, projectID, callerID, targetID uuid.UUID) error {
	if err := s.requireAdmin(ctx, projectID, callerID); err != nil {
		return err
	}

	role, err := s.repo.GetRole(ctx, projectID, targetID)
	if err != nil {
		return err
	}

	if role.Role == RoleAdmin {
		admins, err := s.repo.CountAdmins(ctx, projectID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	return s.repo.DeleteRole(ctx, projectID, targetID)
}

// Invite creates a pending invitation. Admin only.
func (s *Service) Invite(ctx context.Context, projectID, callerID uuid.UUID, req *InviteRequest) (*ProjectInvitation, error) {
	if err := s.requireAdmin(ctx, projectID, callerID); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = RoleMember
	}
	if !ValidRole(role) {
		return nil, ErrInvalidRole
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	inviteeID, err := s.repo.FindUserIDByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if inviteeID != nil {
		if _, err := s.repo.GetRole(ctx, projectID, *inviteeID); err == nil {
			return nil, ErrAlreadyMember
		}
	}

	inv := &ProjectInvitation{
		ProjectID: projectID,
		Email:     email,
		Role:      role,
		Status:    InvitationPending,
		InvitedBy: callerID,
	}
	if err := s.repo.CreateInvitation(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	name := s.projectName(ctx, projectID)
	s.bus.Publish(events.NewMemberInvitedEvent(inv.ID, projectID, callerID, email, inviteeID, name))

	return inv, nil
}

// ListInvitations returns a project's invitations. Admin only.
func (s *Service) ListInvitations(ctx context.Context, projectID, callerID uuid.UUID) ([]*ProjectInvitation, error) {
	if err := s.requireAdmin(ctx, projectID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListInvitationsByProject(ctx, projectID)
}

// ListMyInvitations returns the caller's pending invitations.
func (s *Service) ListMyInvitations(ctx context.Context, email string) ([]*ProjectInvitation, error) {
	return s.repo.ListInvitationsByEmail(ctx, strings.ToLower(email))
}

// Accept accepts a pending invitation addressed to the caller and
// grants the role in the same transaction.
func (s *Service) Accept(ctx context.Context, invitationID, userID uuid.UUID, email string) (*UserRole, error) {
	inv, err := s.repo.GetInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(inv.Email, email) {
		return nil, ErrNotInvitee
	}
	if !inv.IsPending() {
		return nil, ErrInvitationNotPending
	}
	if _, err := s.repo.GetRole(ctx, inv.ProjectID, userID); err == nil {
		return nil, ErrAlreadyMember
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)

	inv.Status = InvitationAccepted
	if err := txRepo.UpdateInvitation(ctx, inv); err != nil {
		return nil, fmt.Errorf("accept invitation: %w", err)
	}

	role := &UserRole{
		UserID:    userID,
		ProjectID: inv.ProjectID,
		Role:      inv.Role,
	}
	if err := txRepo.CreateRole(ctx, role); err != nil {
		return nil, fmt.Errorf("grant role: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	name := s.projectName(ctx, inv.ProjectID)
	s.bus.Publish(events.NewMemberJoinedEvent(inv.ProjectID, userID, inv.InvitedBy, name))

	s.logger.Info("invitation accepted",
		zap.String("project_id", inv.ProjectID.String()),
		zap.String("user_id", userID.String()))

	return role, nil
}

// Decline marks a pending invitation declined.
func (s *Service) Decline(ctx context.Context, invitationID uuid.UUID, email string) error {
	inv, err := s.repo.GetInvitation(ctx, invitationID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(inv.Email, email) {
		return ErrNotInvitee
	}
	if !inv.IsPending() {
		return ErrInvitationNotPending
	}

	inv.Status = InvitationDeclined
	return s.repo.UpdateInvitation(ctx, inv)
}

// Cancel deletes a pending invitation. Admin only.
func (s *Service) Cancel(ctx context.Context, invitationID, callerID uuid.UUID) error {
	inv, err := s.repo.GetInvitation(ctx, invitationID)
	if err != nil {
		return err
	}
	if err := s.requireAdmin(ctx, inv.ProjectID, callerID); err != nil {
		return err
	}
	if !inv.IsPending() {
		return ErrInvitationNotPending
	}
	return s.repo.DeleteInvitation(ctx, invitationID)
}

func (s *Service) requireRole(ctx context.Context, projectID, userID uuid.UUID) (*UserRole, error) {
	role, err := s.repo.GetRole(ctx, projectID, userID)
	if err != nil {
		if err == ErrRoleNotFound {
			return nil, ErrNotMember
		}
		return nil, err
	}
	return role, nil
}

func (s *Service) requireAdmin(ctx context.Context, projectID, userID uuid.UUID) error {
	role, err := s.requireRole(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if role.Role != RoleAdmin {
		return ErrNotAdmin
	}
	return nil
}

func (s *Service) projectName(ctx context.Context, projectID uuid.UUID) string {
	if s.namer == nil {
		return ""
	}
	name, err := s.namer.ProjectName(ctx, projectID)
	if err != nil {
		s.logger.Warn("project name lookup failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		return ""
	}
	return name
}
