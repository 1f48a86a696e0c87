package notification

import "errors"

var (
	// ErrNotificationNotFound is returned when a notification does not
	// exist or belongs to a different user.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrStreamUnavailable is returned when live push delivery is not
	// configured.
	ErrStreamUnavailable = errors.New("notification stream unavailable")
)
