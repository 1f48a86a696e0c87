package timetrack

import (
	"time"

	"github.com/google/uuid"
)

// TimeEntry is a work timer session. A running session has a nil
// EndedAt; each user has at most one running session.
type TimeEntry struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_time_entries_user" json:"user_id"`
	Description     *string    `json:"description,omitempty"`
	StartedAt       time.Time  `gorm:"not null" json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationSeconds int64      `gorm:"not null;default:0" json:"duration_seconds"`
	CreatedAt       time.Time  `json:"created_at"`
}

// TableName specifies the table name for TimeEntry.
func (TimeEntry) TableName() string {
	return "time_entries"
}

// Running reports whether the session is still open.
func (e *TimeEntry) Running() bool {
	return e.EndedAt == nil
}
