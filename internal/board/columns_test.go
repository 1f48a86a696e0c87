package board

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTicket(status string, position int, title string) Ticket {
	return Ticket{
		ID:       uuid.New(),
		Title:    title,
		Status:   status,
		Position: position,
	}
}

func TestColumns(t *testing.T) {
	t.Run("groups into three columns in fixed order", func(t *testing.T) {
		cols := Columns([]Ticket{
			makeTicket("done", 1, "d"),
			makeTicket("todo", 1, "t"),
			makeTicket("in_progress", 1, "p"),
		})

		require.Len(t, cols, 3)
		assert.Equal(t, "todo", cols[0].Status)
		assert.Equal(t, "in_progress", cols[1].Status)
		assert.Equal(t, "done", cols[2].Status)
	})

	t.Run("sorts by ascending position", func(t *testing.T) {
		cols := Columns([]Ticket{
			makeTicket("todo", 3, "c"),
			makeTicket("todo", 1, "a"),
			makeTicket("todo", 2, "b"),
		})

		titles := []string{}
		for _, tk := range cols[0].Tickets {
			titles = append(titles, tk.Title)
		}
		assert.Equal(t, []string{"a", "b", "c"}, titles)
	})

	t.Run("position ties keep insertion order", func(t *testing.T) {
		cols := Columns([]Ticket{
			makeTicket("todo", 5, "first"),
			makeTicket("todo", 5, "second"),
			makeTicket("todo", 5, "third"),
		})

		titles := []string{}
		for _, tk := range cols[0].Tickets {
			titles = append(titles, tk.Title)
		}
		assert.Equal(t, []string{"first", "second", "third"}, titles)
	})

	t.Run("position gaps are not normalized", func(t *testing.T) {
		cols := Columns([]Ticket{
			makeTicket("todo", 100, "far"),
			makeTicket("todo", 2, "near"),
		})

		assert.Equal(t, 2, cols[0].Tickets[0].Position)
		assert.Equal(t, 100, cols[0].Tickets[1].Position)
	})

	t.Run("unknown statuses are dropped", func(t *testing.T) {
		cols := Columns([]Ticket{
			makeTicket("todo", 1, "kept"),
			makeTicket("blocked", 1, "dropped"),
		})

		total := 0
		for _, col := range cols {
			total += len(col.Tickets)
		}
		assert.Equal(t, 1, total)
	})

	t.Run("empty input yields three empty columns", func(t *testing.T) {
		cols := Columns(nil)
		require.Len(t, cols, 3)
		for _, col := range cols {
			assert.NotNil(t, col.Tickets)
			assert.Empty(t, col.Tickets)
		}
	})
}
