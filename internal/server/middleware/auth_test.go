package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// TestDefaultAuthConfig tests default configuration.
func TestDefaultAuthConfig(t *testing.T) {
	t.Setenv("PLANETS_API_KEY", "from-env")
	config := DefaultAuthConfig()

	if config.Enabled {
		t.Error("expected Enabled=false by default")
	}
	if config.HeaderName != "X-API-Key" {
		t.Errorf("expected HeaderName=X-API-Key, got %s", config.HeaderName)
	}
	if config.APIKey != "from-env" {
		t.Errorf("expected APIKey from env, got %q", config.APIKey)
	}
	if len(config.PublicPaths) != 3 {
		t.Errorf("expected 3 public paths, got %v", config.PublicPaths)
	}
}

// TestAuth tests the Auth middleware with various scenarios.
func TestAuth(t *testing.T) {
	logger := zerolog.Nop()
	enabled := AuthConfig{
		Enabled:     true,
		APIKey:      "secret-key",
		HeaderName:  "X-API-Key",
		PublicPaths: []string{"/", "/health"},
	}

	tests := []struct {
		name       string
		config     AuthConfig
		path       string
		headers    map[string]string
		wantStatus int
	}{
		{
			name:       "auth disabled",
			config:     AuthConfig{Enabled: false, APIKey: "secret-key", HeaderName: "X-API-Key"},
			path:       "/planets/",
			wantStatus: http.StatusOK,
		},
		{
			name:       "public path",
			config:     enabled,
			path:       "/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "public root",
			config:     enabled,
			path:       "/",
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid key in header",
			config:     enabled,
			path:       "/planets/",
			headers:    map[string]string{"X-API-Key": "secret-key"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid bearer token",
			config:     enabled,
			path:       "/planets/earth",
			headers:    map[string]string{"Authorization": "Bearer secret-key"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid raw authorization",
			config:     enabled,
			path:       "/planets/earth",
			headers:    map[string]string{"Authorization": "secret-key"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong key",
			config:     enabled,
			path:       "/planets/",
			headers:    map[string]string{"X-API-Key": "nope"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing key",
			config:     enabled,
			path:       "/planets/",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no key configured rejects everything",
			config:     AuthConfig{Enabled: true, HeaderName: "X-API-Key"},
			path:       "/planets/",
			headers:    map[string]string{"X-API-Key": ""},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "custom header",
			config:     AuthConfig{Enabled: true, APIKey: "k", HeaderName: "X-Planets-Key"},
			path:       "/planets/",
			headers:    map[string]string{"X-Planets-Key": "k"},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			Auth(tt.config, &logger)(handler).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if w.Code != http.StatusUnauthorized {
				return
			}
			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body["code"] != "UNAUTHORIZED" || body["message"] == "" {
				t.Errorf("unexpected error body %v", body)
			}
		})
	}
}

// TestExtractAPIKey tests header precedence.
func TestExtractAPIKey(t *testing.T) {
	config := AuthConfig{HeaderName: "X-API-Key"}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-API-Key", "header-key")
	req.Header.Set("Authorization", "Bearer bearer-key")
	if got := extractAPIKey(req, config); got != "header-key" {
		t.Errorf("expected header-key, got %s", got)
	}

	req.Header.Del("X-API-Key")
	if got := extractAPIKey(req, config); got != "bearer-key" {
		t.Errorf("expected bearer-key, got %s", got)
	}

	req.Header.Del("Authorization")
	if got := extractAPIKey(req, config); got != "" {
		t.Errorf("expected empty key, got %s", got)
	}
}

// TestAuth_ConcurrentRequests tests the middleware under concurrent use.
func TestAuth_ConcurrentRequests(t *testing.T) {
	logger := zerolog.Nop()
	config := AuthConfig{Enabled: true, APIKey: "secret-key", HeaderName: "X-API-Key"}
	handler := Auth(config, &logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(valid bool) {
			defer wg.Done()
			req := httptest.NewRequest("GET", "/planets/", nil)
			want := http.StatusUnauthorized
			if valid {
				req.Header.Set("X-API-Key", "secret-key")
				want = http.StatusOK
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code != want {
				t.Errorf("expected %d, got %d", want, w.Code)
			}
		}(i%2 == 0)
	}
	wg.Wait()
}
