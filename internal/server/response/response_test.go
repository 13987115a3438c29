package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	planetsErrors "github.com/agentstation/planets/pkg/errors"
)

// TestJSON tests the JSON helper function.
func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]string{"test": "data"})

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type=application/json, got %s", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["test"] != "data" {
		t.Errorf("expected test=data, got %v", body)
	}
}

// TestText tests the plain text helper.
func TestText(t *testing.T) {
	w := httptest.NewRecorder()
	Text(w, "hello")

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "hello" {
		t.Errorf("expected body hello, got %q", w.Body.String())
	}
}

// TestCreated tests the Created helper writes a msg body.
func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()
	Created(w, "Planet X succesfully created")

	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", w.Code)
	}

	var body Message
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Msg != "Planet X succesfully created" {
		t.Errorf("unexpected msg %q", body.Msg)
	}
}

// TestErrorFromType tests mapping of error kinds to statuses.
func TestErrorFromType(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "not found",
			err:        planetsErrors.NewNotFoundError("planet", "Pluto"),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantMsg:    "Planet Pluto not found",
		},
		{
			name:       "already exists",
			err:        planetsErrors.NewAlreadyExistsError("planet", "Earth"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "ALREADY_EXISTS",
			wantMsg:    "Planet Earth already exists.",
		},
		{
			name:       "invalid data",
			err:        planetsErrors.NewValidationError("radius", 0.0, "Radius and distanceToSun must be positive numbers."),
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_DATA",
			wantMsg:    "Radius and distanceToSun must be positive numbers.",
		},
		{
			name:       "invalid input",
			err:        planetsErrors.NewInputError("You have to provide two existing planet names"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
			wantMsg:    "You have to provide two existing planet names",
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("lookup: %w", planetsErrors.NewNotFoundError("planet", "Vulcan")),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantMsg:    "lookup: Planet Vulcan not found",
		},
		{
			name:       "unknown",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
			wantMsg:    "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorFromType(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if got := StatusFor(tt.err); got != tt.wantStatus {
				t.Errorf("StatusFor: expected %d, got %d", tt.wantStatus, got)
			}

			var body Error
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, body.Code)
			}
			if body.Message != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, body.Message)
			}
		})
	}
}

// TestErrorHelpers tests the fixed-status helpers.
func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter)
		status int
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "bad") }, http.StatusBadRequest},
		{"unauthorized", func(w http.ResponseWriter) { Unauthorized(w, "no key") }, http.StatusUnauthorized},
		{"rate limited", func(w http.ResponseWriter) { RateLimited(w, "slow down") }, http.StatusTooManyRequests},
		{"unavailable", func(w http.ResponseWriter) { ServiceUnavailable(w, "down") }, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)
			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
		})
	}
}
