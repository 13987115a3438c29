// Package events carries planet lifecycle notifications from the query
// service to the realtime transports. A Broker fans each published Event out
// to every registered Subscriber (WebSocket, SSE).
package events

import (
	"time"

	"github.com/agentstation/planets/pkg/planets"
)

// EventType represents the type of planet event.
type EventType string

// Event types.
const (
	PlanetCreated EventType = "planet.created"
	PlanetUpdated EventType = "planet.updated"
	PlanetDeleted EventType = "planet.deleted"

	// ClientConnected is sent to a transport client when it attaches.
	ClientConnected EventType = "client.connected"
)

// Event is a single notification.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// PlanetChange is the payload of planet events. Previous is set on updates
// and holds the record as it was before the write.
type PlanetChange struct {
	Planet   planets.Planet  `json:"planet"`
	Previous *planets.Planet `json:"previous,omitempty"`
}
