package adapters

import (
	"strconv"
	"sync/atomic"

	"github.com/agentstation/planets/internal/server/events"
	"github.com/agentstation/planets/internal/server/sse"
)

// SSESubscriber adapts the SSE broadcaster to the Subscriber interface.
type SSESubscriber struct {
	broadcaster *sse.Broadcaster
	seq         atomic.Uint64
}

// NewSSESubscriber creates a new SSE subscriber.
func NewSSESubscriber(broadcaster *sse.Broadcaster) *SSESubscriber {
	return &SSESubscriber{broadcaster: broadcaster}
}

// Send delivers an event to all SSE clients. Event IDs increase
// monotonically so clients can detect gaps.
func (s *SSESubscriber) Send(event events.Event) error {
	s.broadcaster.Broadcast(sse.Event{
		Event: string(event.Type),
		ID:    strconv.FormatUint(s.seq.Add(1), 10),
		Data:  event.Data,
	})
	return nil
}

// Close is a no-op; the broadcaster manages its own lifecycle.
func (s *SSESubscriber) Close() error {
	return nil
}
