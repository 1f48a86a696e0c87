package board

import (
	"sync"

	"github.com/google/uuid"
)

// Cache holds the client's in-memory copy of a ticket list. It bridges
// the latency between an optimistic mutation and the next full reload;
// after any settled state its contents equal a fresh List.
type Cache struct {
	mu      sync.RWMutex
	tickets []Ticket
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Replace swaps the full contents, as after a List.
func (c *Cache) Replace(tickets []Ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickets = make([]Ticket, len(tickets))
	copy(c.tickets, tickets)
}

// Patch applies fn to every ticket in place. Used for optimistic
// mutations; the change is provisional until the next Replace.
func (c *Cache) Patch(fn func(*Ticket)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tickets {
		fn(&c.tickets[i])
	}
}

// PatchOne applies fn to the ticket with the given id. Returns false if
// the ticket is not cached.
func (c *Cache) PatchOne(id uuid.UUID, fn func(*Ticket)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tickets {
		if c.tickets[i].ID == id {
			fn(&c.tickets[i])
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the cached tickets in order.
func (c *Cache) Snapshot() []Ticket {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Ticket, len(c.tickets))
	copy(out, c.tickets)
	return out
}

// Len returns the number of cached tickets.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tickets)
}
