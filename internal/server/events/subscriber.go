package events

// Subscriber is an interface for event consumers. Implementations adapt the
// event stream to a specific transport.
type Subscriber interface {
	// Send delivers an event to the subscriber. It should not block.
	Send(Event) error

	// Close cleanly shuts down the subscriber.
	Close() error
}
