package server

import (
	"time"

	"github.com/agentstation/planets/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Authentication settings
	AuthEnabled bool
	AuthHeader  string
	APIKey      string

	// Performance settings
	RateLimit int // Requests per minute per IP (0 to disable)
	CacheTTL  time.Duration

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Features
	MetricsEnabled  bool
	RealtimeEnabled bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:            constants.DefaultHost,
		Port:            constants.DefaultPort,
		CORSEnabled:     false,
		CORSOrigins:     []string{},
		AuthEnabled:     false,
		AuthHeader:      constants.DefaultAuthHeader,
		RateLimit:       0,
		CacheTTL:        constants.CacheTTL,
		ReadTimeout:     constants.ReadTimeout,
		WriteTimeout:    constants.WriteTimeout,
		IdleTimeout:     constants.IdleTimeout,
		MetricsEnabled:  true,
		RealtimeEnabled: true,
	}
}
