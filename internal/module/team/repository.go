package team

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for team data access.
type Repository interface {
	ListRoles(ctx context.Context, projectID uuid.UUID) ([]*UserRole, error)
	GetRole(ctx context.Context, projectID, userID uuid.UUID) (*UserRole, error)
	CreateRole(ctx context.Context, role *UserRole) error
	UpdateRole(ctx context.Context, role *UserRole) error
	DeleteRole(ctx context.Context, projectID, userID uuid.UUID) error
	CountAdmins(ctx context.Context, projectID uuid.UUID) (int64, error)

	CreateInvitation(ctx context.Context, inv *ProjectInvitation) error
	GetInvitation(ctx context.Context, id uuid.UUID) (*ProjectInvitation, error)
	UpdateInvitation(ctx context.Context, inv *ProjectInvitation) error
	DeleteInvitation(ctx context.Context, id uuid.UUID) error
	ListInvitationsByProject(ctx context.Context, projectID uuid.UUID) ([]*ProjectInvitation, error)
	ListInvitationsByEmail(ctx context.Context, email string) ([]*ProjectInvitation, error)

	FindUserIDByEmail(ctx context.Context, email string) (*uuid.UUID, error)

	// Transaction support
	WithTx(tx *gorm.DB) Repository
	BeginTx(ctx context.Context) (*gorm.DB, error)
}

// repository implements Repository using GORM.
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new team repository.
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

func (r *repository) ListRoles(ctx context.Context, projectID uuid.UUID) ([]*UserRole, error) {
	var roles []*UserRole
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *repository) GetRole(ctx context.Context, projectID, userID uuid.UUID) (*UserRole, error) {
	var role UserRole
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *repository) CreateRole(ctx context.Context, role *UserRole) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *repository) UpdateRole(ctx context.Context, role *UserRole) error {
	return r.db.WithContext(ctx).Save(role).Error
}

func (r *repository) DeleteRole(ctx context.Context, projectID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&UserRole{}).Error
}

func (r *repository) CountAdmins(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&UserRole{}).
		Where("project_id = ? AND role = ?", projectID, RoleAdmin).
		Count(&count).Error
	return count, err
}

func (r *repository) CreateInvitation(ctx context.Context, inv *ProjectInvitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *repository) GetInvitation(ctx context.Context, id uuid.UUID) (*ProjectInvitation, error) {
	var inv ProjectInvitation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *repository) UpdateInvitation(ctx context.Context, inv *ProjectInvitation) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *repository) DeleteInvitation(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&ProjectInvitation{}, "id = ?", id).Error
}

func (r *repository) ListInvitationsByProject(ctx context.Context, projectID uuid.UUID) ([]*ProjectInvitation, error) {
	var invs []*ProjectInvitation
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&invs).Error
	if err != nil {
		return nil, err
	}
	return invs, nil
}

func (r *repository) ListInvitationsByEmail(ctx context.Context, email string) ([]*ProjectInvitation, error) {
	var invs []*ProjectInvitation
	err := r.db.WithContext(ctx).
		Where("email = ? AND status = ?", email, InvitationPending).
		Order("created_at DESC").
		Find(&invs).Error
	if err != nil {
		return nil, err
	}
	return invs, nil
}

func (r *repository) FindUserIDByEmail(ctx context.Context, email string) (*uuid.UUID, error) {
	var row struct {
		UserID uuid.UUID
	}
	err := r.db.WithContext(ctx).
		Table("profiles").
		Select("user_id").
		Where("email = ?", email).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row.UserID, nil
}
