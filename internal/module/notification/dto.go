package notification

// UnreadCountResponse carries the unread notification counter.
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
