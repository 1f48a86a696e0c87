// Package calendar implements the month-view scheduling helpers: the
// 42-cell month grid, due-date bucketing and the loose status grouping
// used by calendar and dashboard views.
package calendar

import (
	"strings"
	"time"

	"github.com/ticketflow/server/internal/board"
)

// GridCells is the fixed number of cells in a month view: six weeks.
const GridCells = 42

// MonthGrid returns exactly 42 contiguous days covering ref's month.
// Cell 0 is the Sunday on or before the first of the month; the tail
// pads past the month end.
func MonthGrid(ref time.Time) []time.Time {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	start := first.AddDate(0, 0, -int(first.Weekday()))

	cells := make([]time.Time, GridCells)
	for i := range cells {
		cells[i] = start.AddDate(0, 0, i)
	}
	return cells
}

// DayKey formats a time as the YYYY-MM-DD bucket key in its location.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// BucketByDay groups tickets by the local calendar day of their due
// date. Tickets without a due date are excluded.
func BucketByDay(tickets []board.Ticket) map[string][]board.Ticket {
	buckets := make(map[string][]board.Ticket)
	for _, t := range tickets {
		if t.DueDate == nil {
			continue
		}
		key := DayKey(t.DueDate.Local())
		buckets[key] = append(buckets[key], t)
	}
	return buckets
}

// Group is a coarse status bucket for calendar and dashboard views.
type Group int

// Status groups.
const (
	GroupNone Group = iota
	GroupTodo
	GroupInProgress
	GroupDone
)

func (g Group) String() string {
	switch g {
	case GroupTodo:
		return "todo"
	case GroupInProgress:
		return "in_progress"
	case GroupDone:
		return "done"
	default:
		return "none"
	}
}

// Classify maps a raw status string onto a Group. Matching is
// case-insensitive and accepts the wider vocabulary seen in imported
// data; statuses outside every vocabulary map to GroupNone and are
// dropped from grouped views.
func Classify(status string) Group {
	switch strings.ToLower(status) {
	case "todo", "open", "backlog":
		return GroupTodo
	case "in_progress", "in-progress", "doing":
		return GroupInProgress
	case "completed", "done", "closed":
		return GroupDone
	default:
		return GroupNone
	}
}

// GroupByStatus buckets tickets by Classify, dropping GroupNone.
func GroupByStatus(tickets []board.Ticket) map[Group][]board.Ticket {
	out := make(map[Group][]board.Ticket)
	for _, t := range tickets {
		g := Classify(t.Status)
		if g == GroupNone {
			continue
		}
		out[g] = append(out[g], t)
	}
	return out
}
