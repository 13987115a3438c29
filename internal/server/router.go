package server

import (
	"net/http"

	"github.com/agentstation/planets/internal/server/handlers"
	"github.com/agentstation/planets/internal/server/metrics"
	"github.com/agentstation/planets/internal/server/middleware"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.service,
		s.cache,
		s.wsHub,
		s.sseBroadcaster,
		s.upgrader,
		s.logger,
	)
	h.SetUptime(s.Uptime)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes. Methods are part of each
// pattern, so a known path with the wrong method gets a 405 from the mux.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /{$}", h.HandleWelcome)

	// Public health endpoints (no auth required)
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET /ready", h.HandleReady)

	// Planets
	mux.HandleFunc("GET /planets", h.HandleListPlanets)
	mux.HandleFunc("GET /planets/{$}", h.HandleListPlanets)
	mux.HandleFunc("GET /planets/{name}", h.HandleGetPlanet)
	mux.HandleFunc("POST /planets/create", h.HandleCreatePlanet)
	mux.HandleFunc("PUT /planets/{name}/update", h.HandleUpdatePlanet)
	mux.HandleFunc("PUT /planets/{name}/update/{$}", h.HandleUpdatePlanet)
	mux.HandleFunc("DELETE /planets/delete/{name}", h.HandleDeletePlanet)

	// Derived views
	mux.HandleFunc("GET /planets/sort-by-radius", h.HandleSortByRadius)
	mux.HandleFunc("GET /planets/sort-by-distance-to-sun", h.HandleSortByDistanceToSun)
	mux.HandleFunc("GET /planets/sort-by-distance-to-planet/{name}", h.HandleSortByDistanceToPlanet)
	mux.HandleFunc("GET /planets/{name1}/get-distance/{name2}", h.HandleGetDistance)

	// Real-time endpoints
	if s.config.RealtimeEnabled {
		mux.HandleFunc("GET /ws", h.HandleWebSocket)
		mux.HandleFunc("GET /events", h.HandleSSE)
	}

	if s.config.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler(s.registry))
	}
}

// applyMiddleware wraps handler with the middleware chain. The first entry
// is outermost.
func (s *Server) applyMiddleware(mux *http.ServeMux) http.Handler {
	cfg := s.config

	chain := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	}

	if cfg.MetricsEnabled {
		chain = append(chain, middleware.Metrics(s.metrics, mux))
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
		} else {
			corsConfig.AllowAll = true
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig()
		authConfig.Enabled = true
		if cfg.AuthHeader != "" {
			authConfig.HeaderName = cfg.AuthHeader
		}
		if cfg.APIKey != "" {
			authConfig.APIKey = cfg.APIKey
		}
		chain = append(chain, middleware.Auth(authConfig, s.logger))
	}

	if cfg.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(s.ctx, cfg.RateLimit, s.logger)
		chain = append(chain, middleware.RateLimit(rateLimiter))
	}

	return middleware.Chain(chain...)(mux)
}
