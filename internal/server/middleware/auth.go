package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/planets/internal/server/response"
)

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled     bool
	APIKey      string
	HeaderName  string
	PublicPaths []string
}

// DefaultAuthConfig returns default authentication configuration. The key
// is read from PLANETS_API_KEY.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		Enabled:     false,
		APIKey:      os.Getenv("PLANETS_API_KEY"),
		HeaderName:  "X-API-Key",
		PublicPaths: []string{"/", "/health", "/metrics"},
	}
}

// Auth middleware validates API keys for protected endpoints.
func Auth(config AuthConfig, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled || slices.Contains(config.PublicPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := extractAPIKey(r, config)
			if config.APIKey == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(config.APIKey)) != 1 {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Bool("key_provided", apiKey != "").
					Msg("Authentication failed")
				response.Unauthorized(w, "Invalid or missing API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractAPIKey reads the key from the configured header, falling back to
// the Authorization header with or without a Bearer prefix.
func extractAPIKey(r *http.Request, config AuthConfig) string {
	if apiKey := r.Header.Get(config.HeaderName); apiKey != "" {
		return apiKey
	}
	auth := r.Header.Get("Authorization")
	return strings.TrimPrefix(auth, "Bearer ")
}
