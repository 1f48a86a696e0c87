package board

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows a List call to one project.
type Filter struct {
	ProjectID uuid.UUID
}

// Failure is the single failure kind surfaced by a Store. It carries a
// message and nothing else; callers are not expected to branch on cause.
type Failure struct {
	Message string
}

func (f *Failure) Error() string {
	return "remote operation failed: " + f.Message
}

// NewFailure wraps a message in a Failure.
func NewFailure(message string) *Failure {
	return &Failure{Message: message}
}

// Store is a remote ticket collection. All mutations are single-shot:
// implementations never retry.
type Store interface {
	List(ctx context.Context, filter Filter) ([]Ticket, error)
	Insert(ctx context.Context, ticket Ticket) (*Ticket, error)
	Update(ctx context.Context, ticket Ticket) (*Ticket, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
