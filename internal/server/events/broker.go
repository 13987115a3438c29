package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/planets/pkg/constants"
	"github.com/agentstation/planets/pkg/planets"
	"github.com/agentstation/planets/pkg/query"
)

// Broker manages event distribution to multiple subscribers.
type Broker struct {
	subscribers []Subscriber
	events      chan Event
	register    chan Subscriber
	unregister  chan Subscriber
	mu          sync.RWMutex
	logger      *zerolog.Logger
}

// NewBroker creates a new event broker. Subscriptions made before Run
// starts are buffered.
func NewBroker(logger *zerolog.Logger) *Broker {
	return &Broker{
		subscribers: make([]Subscriber, 0),
		events:      make(chan Event, constants.ChannelBufferSize),
		register:    make(chan Subscriber, 16),
		unregister:  make(chan Subscriber, 16),
		logger:      logger,
	}
}

// Run starts the broker's event loop and blocks until ctx is cancelled.
func (b *Broker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			for _, sub := range b.subscribers {
				_ = sub.Close()
			}
			b.subscribers = nil
			b.mu.Unlock()
			b.logger.Info().Msg("Event broker shut down")
			return

		case sub := <-b.register:
			b.mu.Lock()
			b.subscribers = append(b.subscribers, sub)
			n := len(b.subscribers)
			b.mu.Unlock()
			b.logger.Debug().Int("total_subscribers", n).Msg("Subscriber registered")

		case sub := <-b.unregister:
			b.mu.Lock()
			for i, s := range b.subscribers {
				if s == sub {
					b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
					_ = s.Close()
					break
				}
			}
			n := len(b.subscribers)
			b.mu.Unlock()
			b.logger.Debug().Int("total_subscribers", n).Msg("Subscriber unregistered")

		case event := <-b.events:
			b.mu.RLock()
			subs := make([]Subscriber, len(b.subscribers))
			copy(subs, b.subscribers)
			b.mu.RUnlock()

			for _, sub := range subs {
				if err := sub.Send(event); err != nil {
					b.logger.Warn().
						Err(err).
						Str("event_type", string(event.Type)).
						Msg("Failed to send event to subscriber")
				}
			}

			b.logger.Debug().
				Str("event_type", string(event.Type)).
				Int("subscribers", len(subs)).
				Msg("Event broadcasted")
		}
	}
}

// Publish queues an event for all subscribers. If the queue is full the
// event is dropped so writers never block.
func (b *Broker) Publish(eventType EventType, data any) {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
	select {
	case b.events <- event:
	default:
		b.logger.Warn().
			Str("event_type", string(eventType)).
			Msg("Event channel full, event dropped")
	}
}

// Subscribe registers a new subscriber to receive events.
func (b *Broker) Subscribe(sub Subscriber) {
	b.register <- sub
}

// Unsubscribe removes a subscriber from receiving events.
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.unregister <- sub
}

// SubscriberCount returns the current number of subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Hooks returns query hooks that publish planet events on this broker.
func (b *Broker) Hooks() query.Hooks {
	return query.Hooks{
		OnCreated: func(p planets.Planet) {
			b.Publish(PlanetCreated, PlanetChange{Planet: p})
		},
		OnUpdated: func(previous, current planets.Planet) {
			b.Publish(PlanetUpdated, PlanetChange{Planet: current, Previous: &previous})
		},
		OnDeleted: func(p planets.Planet) {
			b.Publish(PlanetDeleted, PlanetChange{Planet: p})
		},
	}
}
