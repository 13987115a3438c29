// Package handlers provides HTTP request handlers for the planets API.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/planets/internal/server/cache"
	"github.com/agentstation/planets/internal/server/sse"
	ws "github.com/agentstation/planets/internal/server/websocket"
	"github.com/agentstation/planets/pkg/constants"
	"github.com/agentstation/planets/pkg/logging"
	"github.com/agentstation/planets/pkg/planets"
	"github.com/agentstation/planets/pkg/query"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	service        *query.Service
	cache          *cache.Cache
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	uptime         func() time.Duration
}

// New creates a new Handlers instance.
func New(
	service *query.Service,
	cache *cache.Cache,
	wsHub *ws.Hub,
	sseBroadcaster *sse.Broadcaster,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		service:        service,
		cache:          cache,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader:       upgrader,
		logger:         logger,
	}
}

// SetUptime sets the clock reported by the health endpoint.
func (h *Handlers) SetUptime(uptime func() time.Duration) {
	h.uptime = uptime
}

// log returns the request-scoped logger if middleware attached one.
func (h *Handlers) log(r *http.Request) *zerolog.Logger {
	if l := logging.FromContext(r.Context()); l != logging.Default() {
		return l
	}
	return h.logger
}

// ascending reads the asc query parameter. Absent means ascending;
// otherwise only the exact value "true" does.
func ascending(r *http.Request) bool {
	if !r.URL.Query().Has("asc") {
		return true
	}
	return r.URL.Query().Get("asc") == "true"
}

// decodePlanet reads a planet body. Unknown fields are ignored and a
// missing field decodes as its zero value, which validation rejects.
func decodePlanet(r *http.Request) (planets.Planet, error) {
	var p planets.Planet
	dec := json.NewDecoder(io.LimitReader(r.Body, constants.MaxRequestBodyBytes))
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return p, errors.New("request body is required")
		}
		return p, errors.New("invalid JSON body: " + err.Error())
	}
	return p, nil
}
