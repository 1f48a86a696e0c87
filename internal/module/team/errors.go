package team

import "errors"

// Team module errors.
var (
	ErrNotMember            = errors.New("not a project member")
	ErrNotAdmin             = errors.New("admin role required")
	ErrRoleNotFound         = errors.New("member role not found")
	ErrInvalidRole          = errors.New("invalid role")
	ErrLastAdmin            = errors.New("cannot remove the last admin")
	ErrAlreadyMember        = errors.New("user is already a member")
	ErrInvitationNotFound   = errors.New("invitation not found")
	ErrInvitationNotPending = errors.New("invitation is no longer pending")
	ErrNotInvitee           = errors.New("invitation addressed to a different email")
)
