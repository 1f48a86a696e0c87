package timetrack

// StartRequest starts a work timer.
type StartRequest struct {
	Description *string `json:"description,omitempty"`
}

// ManualEntryRequest records a finished session after the fact.
type ManualEntryRequest struct {
	Description     *string `json:"description,omitempty"`
	DurationSeconds int64   `json:"duration_seconds" binding:"required"`
}
