package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/agentstation/planets/cmd/application"
	"github.com/agentstation/planets/internal/server/cache"
	"github.com/agentstation/planets/internal/server/events"
	"github.com/agentstation/planets/internal/server/events/adapters"
	"github.com/agentstation/planets/internal/server/metrics"
	"github.com/agentstation/planets/internal/server/sse"
	ws "github.com/agentstation/planets/internal/server/websocket"
	"github.com/agentstation/planets/pkg/constants"
	"github.com/agentstation/planets/pkg/planets"
	"github.com/agentstation/planets/pkg/query"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app            application.Application
	service        *query.Service
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	metrics        *metrics.Collector
	registry       *prometheus.Registry
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	startTime      time.Time
}

// New creates a new server instance with the given configuration.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	logger.Debug().Msg("Creating new server instance")

	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = constants.CacheTTL
	}

	// Open the query service up front so storage errors surface at startup
	svc, err := app.Service(context.Background())
	if err != nil {
		return nil, err
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	// Subscribe transports to broker. Registration is buffered so this
	// does not block before Run.
	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))

	collector := metrics.NewCollector()
	collector.TrackClients("websocket", wsHub.ClientCount)
	collector.TrackClients("sse", sseBroadcaster.ClientCount)

	ctx, cancel := context.WithCancel(context.Background())

	server := &Server{
		app:            app,
		service:        svc,
		cache:          cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		metrics:        collector,
		registry:       metrics.NewRegistry(collector),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  constants.WebSocketBufferSize,
			WriteBufferSize: constants.WebSocketBufferSize,
			CheckOrigin: func(_ *http.Request) bool {
				return true // Allow all origins for WebSocket
			},
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	server.connectHooks()

	logger.Debug().Msg("Server instance created successfully")
	return server, nil
}

// connectHooks registers write hooks on the query service. The cache is
// flushed first so a client notified of a change never reads the old value.
func (s *Server) connectHooks() {
	flush := func() { s.cache.Clear() }
	s.service.AddHooks(query.Hooks{
		OnCreated: func(planets.Planet) { flush() },
		OnUpdated: func(_, _ planets.Planet) { flush() },
		OnDeleted: func(planets.Planet) { flush() },
	})
	s.service.AddHooks(s.metrics.Hooks())
	if s.config.RealtimeEnabled {
		s.service.AddHooks(s.broker.Hooks())
	}
	s.logger.Debug().Msg("Query hooks connected")
}

// Start starts background services (broker, WebSocket hub, SSE broadcaster).
func (s *Server) Start() {
	s.logger.Debug().Msg("Starting background services")

	for _, run := range []func(context.Context){s.broker.Run, s.wsHub.Run, s.sseBroadcaster.Run} {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			run(s.ctx)
		}()
	}

	s.logger.Debug().Msg("All background services started")
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown stops background services, waiting until they exit or ctx
// expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("Background services shut down successfully")
		return nil
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
		return ctx.Err()
	}
}

// Cache returns the server's cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// Broker returns the event broker.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// WSHub returns the WebSocket hub.
func (s *Server) WSHub() *ws.Hub {
	return s.wsHub
}

// SSEBroadcaster returns the SSE broadcaster.
func (s *Server) SSEBroadcaster() *sse.Broadcaster {
	return s.sseBroadcaster
}

// Config returns the server configuration.
func (s *Server) Config() Config {
	return s.config
}

// Uptime reports how long the server has existed.
func (s *Server) Uptime() time.Duration {
	return time.Since(s.startTime)
}
