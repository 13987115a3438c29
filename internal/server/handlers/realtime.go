package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/planets/internal/server/events"
	ws "github.com/agentstation/planets/internal/server/websocket"
)

// HandleWebSocket handles WebSocket connections at /ws.
// @Summary WebSocket updates
// @Description WebSocket connection for real-time planet change events
// @Tags updates
// @Success 101 "Switching Protocols"
// @Router /ws [get].
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log(r).Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(uuid.NewString(), h.wsHub, conn)
	h.wsHub.Register(client)

	client.Send(ws.Message{
		Type:      string(events.ClientConnected),
		Timestamp: time.Now(),
		Data: map[string]any{
			"message":   "Connected to planet updates",
			"client_id": client.ID(),
		},
	})

	go client.WritePump()
	go client.ReadPump()
}

// HandleSSE handles Server-Sent Events at /events.
// @Summary SSE updates stream
// @Description Server-Sent Events stream of planet change events
// @Tags updates
// @Produce text/event-stream
// @Success 200 "Event stream"
// @Router /events [get].
func (h *Handlers) HandleSSE(w http.ResponseWriter, r *http.Request) {
	h.sseBroadcaster.ServeHTTP(w, r)
}
