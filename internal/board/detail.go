package board

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// DetailStore is the remote surface the ticket detail view needs on top
// of the plain Store.
type DetailStore interface {
	Store
	Get(ctx context.Context, id uuid.UUID) (*Ticket, error)
	Comments(ctx context.Context, ticketID uuid.UUID) ([]Comment, error)
	AddComment(ctx context.Context, ticketID uuid.UUID, body string) (*Comment, error)
	Profiles(ctx context.Context, userIDs []uuid.UUID) ([]Profile, error)
}

// Detail is the assembled state of one ticket's detail view.
type Detail struct {
	Ticket   Ticket
	Comments []Comment
	Authors  map[uuid.UUID]Profile
}

// DetailEditor loads a single ticket with its comments and buffered
// edits. Edits are local until Save; saving is a plain remote update,
// not an optimistic one.
type DetailEditor struct {
	store DetailStore

	mu     sync.Mutex
	detail *Detail
	draft  *Ticket
}

// NewDetailEditor creates a detail editor over a store.
func NewDetailEditor(store DetailStore) *DetailEditor {
	return &DetailEditor{store: store}
}

// Load fetches the ticket, its comments, and the comment authors'
// profiles in one pass. Author lookup is batched.
func (e *DetailEditor) Load(ctx context.Context, id uuid.UUID) (*Detail, error) {
	t, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := e.store.Comments(ctx, id)
	if err != nil {
		return nil, err
	}

	authors, err := e.resolveAuthors(ctx, comments)
	if err != nil {
		return nil, err
	}

	d := &Detail{
		Ticket:   *t,
		Comments: comments,
		Authors:  authors,
	}

	e.mu.Lock()
	e.detail = d
	draft := *t
	e.draft = &draft
	e.mu.Unlock()

	return d, nil
}

// Edit applies fn to the local draft. Nothing is sent remotely.
func (e *DetailEditor) Edit(fn func(*Ticket)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft == nil {
		return NewFailure("no ticket loaded")
	}
	fn(e.draft)
	return nil
}

// Draft returns a copy of the current draft.
func (e *DetailEditor) Draft() (Ticket, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft == nil {
		return Ticket{}, false
	}
	return *e.draft, true
}

// Save commits the buffered draft with a single remote update. The
// stored result becomes the new baseline.
func (e *DetailEditor) Save(ctx context.Context) (*Ticket, error) {
	e.mu.Lock()
	if e.draft == nil {
		e.mu.Unlock()
		return nil, NewFailure("no ticket loaded")
	}
	draft := *e.draft
	e.mu.Unlock()

	updated, err := e.store.Update(ctx, draft)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.detail.Ticket = *updated
	d := *updated
	e.draft = &d
	e.mu.Unlock()

	return updated, nil
}

// AddComment posts a comment and refetches the comment list on success.
// The post itself is fire-and-forget: a failure is returned but nothing
// is rolled back locally.
func (e *DetailEditor) AddComment(ctx context.Context, body string) ([]Comment, error) {
	e.mu.Lock()
	if e.detail == nil {
		e.mu.Unlock()
		return nil, NewFailure("no ticket loaded")
	}
	ticketID := e.detail.Ticket.ID
	e.mu.Unlock()

	if _, err := e.store.AddComment(ctx, ticketID, body); err != nil {
		return nil, err
	}

	comments, err := e.store.Comments(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	authors, err := e.resolveAuthors(ctx, comments)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.detail.Comments = comments
	e.detail.Authors = authors
	e.mu.Unlock()

	return comments, nil
}

func (e *DetailEditor) resolveAuthors(ctx context.Context, comments []Comment) (map[uuid.UUID]Profile, error) {
	seen := make(map[uuid.UUID]struct{}, len(comments))
	var ids []uuid.UUID
	for _, c := range comments {
		if _, ok := seen[c.AuthorID]; ok {
			continue
		}
		seen[c.AuthorID] = struct{}{}
		ids = append(ids, c.AuthorID)
	}

	authors := make(map[uuid.UUID]Profile, len(ids))
	if len(ids) == 0 {
		return authors, nil
	}

	profiles, err := e.store.Profiles(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		authors[p.UserID] = p
	}
	return authors, nil
}
