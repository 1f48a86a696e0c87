package timetrack

import "errors"

var (
	// ErrEntryNotFound is returned when a time entry does not exist or
	// belongs to a different user.
	ErrEntryNotFound = errors.New("time entry not found")

	// ErrTimerRunning is returned when starting a timer while another
	// one is still open.
	ErrTimerRunning = errors.New("a timer is already running")

	// ErrNoRunningTimer is returned when stopping without an open timer.
	ErrNoRunningTimer = errors.New("no running timer")

	// ErrInvalidDuration is returned for manual entries with a
	// non-positive duration.
	ErrInvalidDuration = errors.New("duration must be positive")
)
