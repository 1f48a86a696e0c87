package board

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Replace(t *testing.T) {
	cache := NewCache()
	cache.Replace([]Ticket{makeTicket("todo", 1, "a")})
	require.Equal(t, 1, cache.Len())

	cache.Replace([]Ticket{makeTicket("todo", 1, "b"), makeTicket("todo", 2, "c")})
	assert.Equal(t, 2, cache.Len())
	assert.Equal(t, "b", cache.Snapshot()[0].Title)
}

func TestCache_Snapshot_IsACopy(t *testing.T) {
	cache := NewCache()
	cache.Replace([]Ticket{makeTicket("todo", 1, "original")})

	snap := cache.Snapshot()
	snap[0].Title = "mutated"

	assert.Equal(t, "original", cache.Snapshot()[0].Title)
}

func TestCache_PatchOne(t *testing.T) {
	cache := NewCache()
	target := makeTicket("todo", 1, "target")
	cache.Replace([]Ticket{target, makeTicket("todo", 2, "other")})

	t.Run("patches only the matching ticket", func(t *testing.T) {
		ok := cache.PatchOne(target.ID, func(tk *Ticket) {
			tk.Status = "done"
		})
		require.True(t, ok)

		snap := cache.Snapshot()
		assert.Equal(t, "done", snap[0].Status)
		assert.Equal(t, "todo", snap[1].Status)
	})

	t.Run("returns false for unknown id", func(t *testing.T) {
		ok := cache.PatchOne(uuid.New(), func(tk *Ticket) {
			tk.Status = "done"
		})
		assert.False(t, ok)
	})
}

func TestCache_Patch(t *testing.T) {
	cache := NewCache()
	cache.Replace([]Ticket{
		makeTicket("todo", 1, "a"),
		makeTicket("in_progress", 2, "b"),
	})

	cache.Patch(func(tk *Ticket) {
		tk.Priority = "high"
	})

	for _, tk := range cache.Snapshot() {
		assert.Equal(t, "high", tk.Priority)
	}
}
