package project

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for project data access.
type Repository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*ProjectSummary, error)

	CreateMemberRole(ctx context.Context, role *MemberRole) error
	GetMemberRole(ctx context.Context, projectID, userID uuid.UUID) (string, error)

	// Transaction support
	WithTx(tx *gorm.DB) Repository
	BeginTx(ctx context.Context) (*gorm.DB, error)
}

// repository implements Repository using GORM.
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new project repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

func (r *repository) Create(ctx context.Context, project *Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	var p Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Update(ctx context.Context, project *Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete removes a project and everything hanging off it. Runs inside
// the caller's transaction when invoked through WithTx.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := db.Exec(
		"DELETE FROM comments WHERE ticket_id IN (SELECT id FROM tickets WHERE project_id = ?)", id,
	).Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM tickets WHERE project_id = ?", id).Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM project_invitations WHERE project_id = ?", id).Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM user_roles WHERE project_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&Project{}, "id = ?", id).Error
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*ProjectSummary, error) {
	var summaries []*ProjectSummary
	err := r.db.WithContext(ctx).
		Table("projects").
		Select(`projects.*, user_roles.role AS role,
			(SELECT COUNT(*) FROM tickets WHERE tickets.project_id = projects.id) AS ticket_count`).
		Joins("JOIN user_roles ON user_roles.project_id = projects.id").
		Where("user_roles.user_id = ?", userID).
		Order("projects.created_at DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *repository) CreateMemberRole(ctx context.Context, role *MemberRole) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *repository) GetMemberRole(ctx context.Context, projectID, userID uuid.UUID) (string, error) {
	var role MemberRole
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotMember
		}
		return "", err
	}
	return role.Role, nil
}
