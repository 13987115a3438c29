// Package constants provides shared constants used throughout the planets
// codebase. This includes timeouts, limits, file permissions and the
// server defaults that should be consistent across the application.
package constants

import "time"

// Server defaults
const (
	// DefaultHost is the default bind address for the API server
	DefaultHost = "localhost"

	// DefaultPort is the default port for the API server
	DefaultPort = 3000

	// DefaultAuthHeader is the default header carrying the API key
	DefaultAuthHeader = "X-API-Key"
)

// Timeout constants define various timeout durations used in the application
const (
	// ReadTimeout is the HTTP server read timeout
	ReadTimeout = 10 * time.Second

	// WriteTimeout is the HTTP server write timeout
	WriteTimeout = 10 * time.Second

	// IdleTimeout is the HTTP server keep-alive idle timeout
	IdleTimeout = 120 * time.Second

	// ServerShutdownTimeout bounds connection draining after a shutdown signal
	ServerShutdownTimeout = 30 * time.Second

	// AppShutdownTimeout bounds releasing application resources on exit
	AppShutdownTimeout = 5 * time.Second

	// WebSocketWriteWait is the time allowed to write a message to a peer
	WebSocketWriteWait = 10 * time.Second

	// WebSocketPongWait is the time allowed to read the next pong from a peer
	WebSocketPongWait = 60 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxRequestBodyBytes caps request bodies; a planet record is tiny
	MaxRequestBodyBytes = 64 << 10

	// WebSocketBufferSize is the read and write buffer size for upgraded connections
	WebSocketBufferSize = 1024

	// ChannelBufferSize is the default buffer size for event and client channels
	ChannelBufferSize = 256
)

// Rate limiting constants
const (
	// RateLimitWindow is the fixed window the per-IP request limit applies to
	RateLimitWindow = time.Minute

	// RateLimitCleanupInterval is how often idle visitors are evicted
	RateLimitCleanupInterval = 5 * time.Minute
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached responses
	CacheTTL = 5 * time.Minute
)
