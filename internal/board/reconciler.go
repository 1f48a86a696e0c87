package board

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the reconciler's position in the optimistic-update cycle.
type State int

// Reconciler states.
const (
	StateIdle State = iota
	StateOptimistic
	StateReconciling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOptimistic:
		return "optimistic"
	case StateReconciling:
		return "reconciling"
	default:
		return "unknown"
	}
}

// Reconciler drives optimistic mutations against a Store: the cache is
// patched first, the remote update follows, and a failure rolls the
// cache back by reloading the authoritative list. Any entity mutation
// expressible as a patch function rides the same cycle.
type Reconciler struct {
	store  Store
	cache  *Cache
	filter Filter
	logger *zap.Logger

	mu    sync.Mutex
	state State
}

// NewReconciler creates a reconciler over a store and cache.
func NewReconciler(store Store, cache *Cache, filter Filter, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		store:  store,
		cache:  cache,
		filter: filter,
		logger: logger,
	}
}

// State returns the current state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Load replaces the cache with a fresh List. On failure the previous
// cache contents stay in place and the error is returned.
func (r *Reconciler) Load(ctx context.Context) error {
	tickets, err := r.store.List(ctx, r.filter)
	if err != nil {
		return err
	}
	r.cache.Replace(tickets)
	return nil
}

// Mutate applies patch optimistically to the cached ticket, then pushes
// the patched ticket to the store. On remote failure the cache is
// rolled back by a full reload and the remote error is returned.
func (r *Reconciler) Mutate(ctx context.Context, id uuid.UUID, patch func(*Ticket)) error {
	r.mu.Lock()
	r.state = StateOptimistic
	r.mu.Unlock()

	if ok := r.cache.PatchOne(id, patch); !ok {
		r.setState(StateIdle)
		return NewFailure("ticket not in cache")
	}

	var patched *Ticket
	for _, t := range r.cache.Snapshot() {
		if t.ID == id {
			tt := t
			patched = &tt
			break
		}
	}

	if _, err := r.store.Update(ctx, *patched); err != nil {
		r.setState(StateReconciling)
		r.logger.Warn("optimistic update failed, reloading",
			zap.String("ticket_id", id.String()),
			zap.Error(err))

		if reloadErr := r.Load(ctx); reloadErr != nil {
			// Reload failed too; the cache keeps its optimistic value
			// until the next successful Load.
			r.logger.Warn("rollback reload failed", zap.Error(reloadErr))
		}
		r.setState(StateIdle)
		return err
	}

	r.setState(StateIdle)
	return nil
}

// Move re-labels a ticket's status. Position is left untouched.
func (r *Reconciler) Move(ctx context.Context, id uuid.UUID, status string) error {
	return r.Mutate(ctx, id, func(t *Ticket) {
		t.Status = status
	})
}

func (r *Reconciler) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}
