// Package serve provides the HTTP server command for the planets CLI.
package serve

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/planets/cmd/application"
	"github.com/agentstation/planets/internal/server"
	"github.com/agentstation/planets/pkg/constants"
)

// NewCommand creates the serve command. defaults supplies the configured
// server settings; flags override only the values they are given for.
func NewCommand(app application.Application, defaults func() server.Config) *cobra.Command {
	base := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		Short:   "Start the planets REST API server",
		Long: `Start the planets REST API server.

Features:
  - CRUD and query endpoints under /planets
  - WebSocket (/ws) and Server-Sent Events (/events) change notifications
  - In-memory response caching with configurable TTL
  - Rate limiting (requests per minute per IP)
  - API key authentication (optional)
  - CORS support for web applications
  - Prometheus metrics (/metrics)
  - Graceful shutdown with connection draining`,
		Example: `  # Start on the default port 3000
  planets serve

  # Persist changes to a SQLite file
  PLANETS_STORAGE_DRIVER=sqlite PLANETS_STORAGE_DSN=planets.db planets serve

  # Custom port with authentication (key from PLANETS_API_KEY)
  planets serve --port 8080 --auth

  # Enable CORS for specific origins and rate limiting
  planets serve --cors-origins "https://example.com" --rate-limit 60`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := parseConfig(cmd, defaults())
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cmd.OutOrStdout(), app, cfg)
		},
	}

	cmd.Flags().Int("port", base.Port, "Server port")
	cmd.Flags().String("host", base.Host, "Bind address")

	cmd.Flags().Bool("cors", base.CORSEnabled, "Enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", nil, "Allowed CORS origins (comma-separated)")

	cmd.Flags().Bool("auth", base.AuthEnabled, "Enable API key authentication")
	cmd.Flags().String("auth-header", base.AuthHeader, "Authentication header name")

	cmd.Flags().Int("rate-limit", base.RateLimit, "Requests per minute per IP (0 to disable)")
	cmd.Flags().Duration("cache-ttl", base.CacheTTL, "Cache TTL")

	cmd.Flags().Duration("read-timeout", base.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", base.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", base.IdleTimeout, "HTTP idle timeout")

	cmd.Flags().Bool("metrics", base.MetricsEnabled, "Enable the /metrics endpoint")
	cmd.Flags().Bool("realtime", base.RealtimeEnabled, "Enable the /ws and /events endpoints")

	return cmd
}

// runServer starts the API server and blocks until ctx is cancelled or the
// listener fails.
func runServer(ctx context.Context, out io.Writer, app application.Application, cfg server.Config) error {
	logger := app.Logger()

	logger.Info().
		Int("port", cfg.Port).
		Str("host", cfg.Host).
		Bool("cors", cfg.CORSEnabled).
		Bool("auth", cfg.AuthEnabled).
		Int("rate_limit", cfg.RateLimit).
		Dur("cache_ttl", cfg.CacheTTL).
		Bool("metrics", cfg.MetricsEnabled).
		Bool("realtime", cfg.RealtimeEnabled).
		Msg("Starting API server")

	srv, err := server.New(app, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// WebSocket hub, SSE broadcaster and event broker
	srv.Start()

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	listener, err := net.Listen("tcp", httpServer.Addr)
	if err != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return fmt.Errorf("listen on %s: %w", httpServer.Addr, err)
	}

	return serveWithGracefulShutdown(ctx, out, httpServer, listener, srv, logger)
}

// serveWithGracefulShutdown serves on listener until ctx is cancelled, then
// drains connections and stops background services.
func serveWithGracefulShutdown(ctx context.Context, out io.Writer, httpServer *http.Server, listener net.Listener, srv *server.Server, logger *zerolog.Logger) error {
	serverErr := make(chan error, 1)

	go func() {
		logger.Info().
			Str("addr", listener.Addr().String()).
			Msg("HTTP server listening")

		fmt.Fprintf(out, "Planets API listening on http://%s\n", listener.Addr())
		fmt.Fprintln(out, "   Press Ctrl+C to stop")

		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received via context")
		fmt.Fprintln(out, "\nShutting down API server...")

		// The parent context is already cancelled.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
		defer cancel()

		// Background services first so long-lived SSE and WebSocket
		// streams end and the HTTP server can drain.
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Background services shutdown had issues")
		}

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("Server stopped gracefully")
		fmt.Fprintln(out, "API server stopped gracefully")
		return nil
	}
}

// parseConfig overlays the flags that were given on the configured defaults.
func parseConfig(cmd *cobra.Command, cfg server.Config) (server.Config, error) {
	flags := cmd.Flags()

	if flags.Changed("port") {
		cfg.Port = mustGetInt(cmd, "port")
	}
	if err := validatePort(cfg.Port); err != nil {
		return cfg, err
	}
	if flags.Changed("host") {
		cfg.Host = mustGetString(cmd, "host")
	}
	if flags.Changed("cors") {
		cfg.CORSEnabled = mustGetBool(cmd, "cors")
	}
	if flags.Changed("cors-origins") {
		cfg.CORSOrigins = mustGetStringSlice(cmd, "cors-origins")
		cfg.CORSEnabled = true
	}
	if flags.Changed("auth") {
		cfg.AuthEnabled = mustGetBool(cmd, "auth")
	}
	if flags.Changed("auth-header") {
		cfg.AuthHeader = mustGetString(cmd, "auth-header")
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit = mustGetInt(cmd, "rate-limit")
	}
	if flags.Changed("cache-ttl") {
		cfg.CacheTTL = mustGetDuration(cmd, "cache-ttl")
	}
	if flags.Changed("read-timeout") {
		cfg.ReadTimeout = mustGetDuration(cmd, "read-timeout")
	}
	if flags.Changed("write-timeout") {
		cfg.WriteTimeout = mustGetDuration(cmd, "write-timeout")
	}
	if flags.Changed("idle-timeout") {
		cfg.IdleTimeout = mustGetDuration(cmd, "idle-timeout")
	}
	if flags.Changed("metrics") {
		cfg.MetricsEnabled = mustGetBool(cmd, "metrics")
	}
	if flags.Changed("realtime") {
		cfg.RealtimeEnabled = mustGetBool(cmd, "realtime")
	}

	return cfg, nil
}

// validatePort rejects ports outside 1-65535. Port 0 is also rejected, the
// server always binds a known port.
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port out of range: %d", port)
	}
	return nil
}

// mustGetInt retrieves an integer flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

// mustGetStringSlice retrieves a string slice flag value or panics if the flag doesn't exist.
func mustGetStringSlice(cmd *cobra.Command, name string) []string {
	val, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

// mustGetDuration retrieves a duration flag value or panics if the flag doesn't exist.
func mustGetDuration(cmd *cobra.Command, name string) time.Duration {
	val, err := cmd.Flags().GetDuration(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}
