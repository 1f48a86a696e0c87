package board

import "sort"

// ColumnOrder is the fixed left-to-right column layout.
var ColumnOrder = []string{"todo", "in_progress", "done"}

// Column is one kanban column.
type Column struct {
	Status  string   `json:"status"`
	Tickets []Ticket `json:"tickets"`
}

// Columns groups tickets into the three status columns, each sorted by
// ascending position. Ties keep insertion order. Tickets with a status
// outside the three columns are dropped.
func Columns(tickets []Ticket) []Column {
	byStatus := make(map[string][]Ticket, len(ColumnOrder))
	for _, t := range tickets {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	out := make([]Column, 0, len(ColumnOrder))
	for _, status := range ColumnOrder {
		col := Column{Status: status, Tickets: byStatus[status]}
		sort.SliceStable(col.Tickets, func(i, j int) bool {
			return col.Tickets[i].Position < col.Tickets[j].Position
		})
		if col.Tickets == nil {
			col.Tickets = []Ticket{}
		}
		out = append(out, col)
	}
	return out
}
