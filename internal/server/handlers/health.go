package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/planets/internal/server/response"
)

// WelcomeMessage is the body of the root greeting.
const WelcomeMessage = "Welcome to Solar System Service!"

// HandleWelcome handles GET /.
// @Summary Greeting
// @Description Liveness greeting
// @Tags health
// @Produce plain
// @Success 200 {string} string
// @Router / [get].
func (h *Handlers) HandleWelcome(w http.ResponseWriter, _ *http.Request) {
	response.Text(w, WelcomeMessage)
}

// HandleHealth handles GET /health.
// @Summary Health check
// @Description Health check endpoint (liveness check)
// @Tags health
// @Produce json
// @Success 200 {object} object
// @Router /health [get].
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{
		"status":  "healthy",
		"service": "planets",
	}
	if h.uptime != nil {
		body["uptime"] = h.uptime().Round(time.Second).String()
	}
	response.OK(w, body)
}

// HandleReady handles GET /ready.
// @Summary Readiness check
// @Description Readiness check including storage, cache and realtime status
// @Tags health
// @Produce json
// @Success 200 {object} object
// @Failure 503 {object} response.Error
// @Router /ready [get].
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.GetAllPlanets(r.Context())
	if err != nil {
		h.log(r).Error().Err(err).Msg("Readiness check failed")
		response.ServiceUnavailable(w, "Planet storage not available")
		return
	}

	stats := h.cache.GetStats()
	response.OK(w, map[string]any{
		"status":  "ready",
		"planets": len(all),
		"cache": map[string]any{
			"items":  stats.ItemCount,
			"hits":   stats.Hits,
			"misses": stats.Misses,
		},
		"websocket_clients": h.wsHub.ClientCount(),
		"sse_clients":       h.sseBroadcaster.ClientCount(),
	})
}
