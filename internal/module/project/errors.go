package project

import "errors"

// Project module errors.
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNotMember       = errors.New("not a project member")
	ErrNotAdmin        = errors.New("admin role required")
)
