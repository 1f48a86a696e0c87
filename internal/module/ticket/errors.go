package ticket

import "errors"

// Ticket module errors.
var (
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrInvalidStatus   = errors.New("invalid ticket status")
	ErrInvalidPriority = errors.New("invalid ticket priority")
	ErrInvalidMonth    = errors.New("invalid month, expected YYYY-MM")
)
