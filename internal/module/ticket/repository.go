package ticket

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for ticket data access.
type Repository interface {
	Create(ctx context.Context, ticket *Ticket) error
	GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	Update(ctx context.Context, ticket *Ticket) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Ticket, error)
	ListDueForUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Ticket, error)
	MaxPosition(ctx context.Context, projectID uuid.UUID, status string) (int, error)

	CreateComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, ticketID uuid.UUID) ([]*Comment, error)
}

// repository implements Repository using GORM.
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new ticket repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ticket *Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	var t Ticket
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) Update(ctx context.Context, ticket *Ticket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("ticket_id = ?", id).Delete(&Comment{}).Error; err != nil {
		return err
	}
	return db.Delete(&Ticket{}, "id = ?", id).Error
}

func (r *repository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Ticket, error) {
	var tickets []*Ticket
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC, created_at ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// ListDueForUser returns tickets with a due date inside [from, to) across
// every project the user belongs to.
func (r *repository) ListDueForUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Ticket, error) {
	var tickets []*Ticket
	err := r.db.WithContext(ctx).
		Where("due_date IS NOT NULL AND due_date >= ? AND due_date < ?", from, to).
		Where("project_id IN (SELECT project_id FROM user_roles WHERE user_id = ?)", userID).
		Order("due_date ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *repository) MaxPosition(ctx context.Context, projectID uuid.UUID, status string) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Select("MAX(position)").
		Where("project_id = ? AND status = ?", projectID, status).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *repository) CreateComment(ctx context.Context, comment *Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *repository) ListComments(ctx context.Context, ticketID uuid.UUID) ([]*Comment, error) {
	var comments []*Comment
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
