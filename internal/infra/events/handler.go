package events

// Handler processes events published on the bus.
type Handler interface {
	// Handles returns the event types this handler is interested in.
	Handles() []string

	// Handle processes a single event. Errors are logged by the bus and do
	// not stop delivery to other handlers.
	Handle(event Event) error
}
